package printing

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/pos"
)

// BrandResolver resolves a brand id to its display name. The session
// catalog store satisfies this; reprints outside a live session pass nil
// and rely on per-line snapshots
type BrandResolver interface {
	BrandName(id uuid.UUID) (string, bool)
}

// Formatter builds render documents from print envelopes. Both print
// paths go through the same build step, so a live print and a reprint of
// the same order yield identical documents as long as the envelopes
// carry the same data
type Formatter struct {
	registry     *attribute.Registry
	alwaysRender map[string]bool
}

// FormatterOption configures the formatter
type FormatterOption func(*Formatter)

// WithAlwaysRendered marks attribute keys whose section is emitted even
// when the value equals the declared default
func WithAlwaysRendered(keys ...string) FormatterOption {
	return func(f *Formatter) {
		for _, key := range keys {
			f.alwaysRender[key] = true
		}
	}
}

// NewFormatter creates a formatter over the given registry
func NewFormatter(registry *attribute.Registry, opts ...FormatterOption) *Formatter {
	f := &Formatter{
		registry:     registry,
		alwaysRender: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FormatLive builds the document for a first print from the in-session
// order. The session store resolves line brands; whatever it cannot
// resolve degrades to the placeholder
func (f *Formatter) FormatLive(order *pos.Order, store *pos.CatalogStore) RenderDocument {
	return f.build(order.PrintEnvelope(store), store, false)
}

// FormatReprint builds the document for a reprint from an export
// envelope. Per-line snapshots take precedence; the resolver is only
// consulted for legacy lines that persisted a bare id, and may be nil
func (f *Formatter) FormatReprint(envelope pos.PrintEnvelope, resolver BrandResolver) RenderDocument {
	return f.build(envelope, resolver, true)
}

func (f *Formatter) build(envelope pos.PrintEnvelope, resolver BrandResolver, reprint bool) RenderDocument {
	doc := RenderDocument{
		OrderUID: envelope.OrderUID,
		Cashier:  envelope.Cashier,
		PlacedAt: envelope.PlacedAt,
		Sections: f.sections(envelope.Attributes),
		Lines:    make([]RenderLine, len(envelope.Lines)),
		Total:    envelope.Total.StringFixed(2),
		Currency: string(envelope.Total.Currency()),
		Reprint:  reprint,
	}

	for i, line := range envelope.Lines {
		doc.Lines[i] = RenderLine{
			ProductName: line.ProductName,
			ProductCode: lineCode(line),
			Brand:       f.brandLabel(line.Brand, resolver),
			Quantity:    line.Quantity.Amount().String(),
			UnitPrice:   line.UnitPrice.StringFixed(2),
			Amount:      line.UnitPrice.Multiply(line.Quantity.Amount()).StringFixed(2),
			Note:        line.Note,
		}
	}

	return doc
}

// sections walks the order registry in declaration order and keeps only
// the attributes worth printing: values differing from their declared
// default, plus any key marked always-rendered. A "normal" priority is
// suppressed this way while an explicit "urgent" survives
func (f *Formatter) sections(attrs attribute.Set) []AttributeSection {
	sections := make([]AttributeSection, 0, attrs.Len())
	for _, spec := range f.registry.DeclaredAttributes(attribute.KindOrder) {
		value, ok := attrs.Get(spec.Key)
		if !ok {
			continue // absent keys read as default, nothing to print
		}
		if value.Equal(spec.Default) && !f.alwaysRender[spec.Key] {
			continue
		}
		sections = append(sections, AttributeSection{
			Key:   spec.Key,
			Label: f.label(spec.Key),
			Value: formatValue(value),
		})
	}
	return sections
}

// brandLabel resolves a line's brand to display text. Precedence:
// embedded snapshot name, then live resolution, then the placeholder.
// A zero reference renders as no brand at all
func (f *Formatter) brandLabel(ref pos.BrandRef, resolver BrandResolver) string {
	if ref.IsZero() {
		return ""
	}
	if name, ok := ref.Name(); ok {
		return name
	}
	if resolver != nil {
		if id, ok := ref.ID(); ok {
			if name, ok := resolver.BrandName(id); ok {
				return name
			}
		}
	}
	return UnknownBrandLabel
}

// label turns an attribute key into a printable heading. The caser is
// stateful, so a fresh one is created per call
func (f *Formatter) label(key string) string {
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(key, "_", " "))
}

func lineCode(line pos.PrintLine) string {
	if v, ok := line.Attributes.Get(attribute.KeyCode); ok {
		if s, ok := v.StringVal(); ok {
			return s
		}
	}
	return ""
}

// formatValue renders an attribute value as receipt text
func formatValue(v attribute.Value) string {
	switch v.Kind() {
	case attribute.ValueBool:
		if b, _ := v.BoolVal(); b {
			return "Yes"
		}
		return "No"
	case attribute.ValueDate:
		if t, ok := v.DateVal(); ok {
			return t.Format("2006-01-02")
		}
		return ""
	default:
		return v.String()
	}
}
