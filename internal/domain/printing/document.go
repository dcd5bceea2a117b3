package printing

import (
	"time"

	"github.com/google/uuid"
)

// UnknownBrandLabel is what a line renders when its brand reference
// cannot be resolved to a display name. Receipts degrade to this
// placeholder instead of dropping the line or failing the print
const UnknownBrandLabel = "unknown"

// AttributeSection is one rendered custom attribute. Only sections that
// survive default suppression appear in a document, so a renderer prints
// every section it receives without further filtering
type AttributeSection struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// RenderLine is one fully resolved order line
type RenderLine struct {
	ProductName string `json:"product_name"`
	ProductCode string `json:"product_code,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Amount      string `json:"amount"`
	Note        string `json:"note,omitempty"`
}

// RenderDocument is the renderer-agnostic structure a receipt is printed
// from. Everything is resolved: no ids wait for lookup, no defaults need
// suppressing. Live prints and reprints of the same order produce
// identical documents
type RenderDocument struct {
	OrderUID  uuid.UUID          `json:"order_uid"`
	Cashier   string             `json:"cashier,omitempty"`
	PlacedAt  time.Time          `json:"placed_at"`
	Sections  []AttributeSection `json:"sections"`
	Lines     []RenderLine       `json:"lines"`
	Total     string             `json:"total"`
	Currency  string             `json:"currency"`
	Reprint   bool               `json:"reprint"`
}

// SectionByKey returns the rendered section for key, if present
func (d *RenderDocument) SectionByKey(key string) (AttributeSection, bool) {
	for _, section := range d.Sections {
		if section.Key == key {
			return section, true
		}
	}
	return AttributeSection{}, false
}

// HasSection reports whether the document renders the given key
func (d *RenderDocument) HasSection(key string) bool {
	_, ok := d.SectionByKey(key)
	return ok
}
