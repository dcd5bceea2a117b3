// Package checkout holds the backend half of the add-on: durable POS
// sessions and the captured orders terminals submit into them.
package checkout

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/pos"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// PosOrderLine is one persisted line of a captured order. Product display
// fields and the brand snapshot are denormalized onto the row so exports
// and reprints never depend on the catalog's current state
type PosOrderLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	ProductCode string          `gorm:"type:varchar(50)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit        string          `gorm:"type:varchar(20);not null;default:'each'"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Note        string          `gorm:"type:varchar(500)"`
	BrandID     *uuid.UUID      `gorm:"type:uuid;index"`
	BrandName   string          `gorm:"type:varchar(120)"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PosOrderLine) TableName() string {
	return "pos_order_lines"
}

// GetUnitPriceMoney returns the unit price as Money value object
func (l *PosOrderLine) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(l.UnitPrice)
}

// GetAmountMoney returns the line amount as Money value object
func (l *PosOrderLine) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(l.Amount)
}

// BrandRef returns the line's brand snapshot in normalized form: a named
// pair when the capture-time resolution succeeded, an id-only stub when
// only the reference survived, zero when the product had no brand
func (l *PosOrderLine) BrandRef() pos.BrandRef {
	if l.BrandID == nil {
		return pos.BrandRef{}
	}
	if l.BrandName != "" {
		return pos.BrandRefFromPair(*l.BrandID, l.BrandName)
	}
	return pos.BrandRefFromID(*l.BrandID)
}

// PosOrder is the durable record of an order captured from a terminal.
// The client order uid deduplicates retries: a resubmitted envelope finds
// the existing row and patches it instead of inserting a duplicate
type PosOrder struct {
	shared.BaseAggregateRoot
	ClientOrderUID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_pos_order_client_uid"`
	SessionID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cashier        string          `gorm:"type:varchar(100)"`
	PlacedAt       time.Time       `gorm:"not null;index"`
	CapturedAt     time.Time       `gorm:"not null"`
	Total          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Lines          []PosOrderLine  `gorm:"foreignKey:OrderID;references:ID"`

	// Declared custom attribute columns. Defaults mirror the registry
	// declarations; the capture bridge only overwrites a column when the
	// envelope carries its key
	CustomOrderNumber   string     `gorm:"type:varchar(100);index"`
	Priority            string     `gorm:"type:varchar(20);not null;default:'normal'"`
	SpecialInstructions string     `gorm:"type:text"`
	DeliveryDate        *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (PosOrder) TableName() string {
	return "pos_orders"
}

// NewPosOrderFromEnvelope creates a persisted order from its first
// capture envelope. Attribute columns start at their declared defaults
// so keys the envelope omits still read back as meaningful values
func NewPosOrderFromEnvelope(envelope pos.CaptureEnvelope, reg *attribute.Registry) (*PosOrder, error) {
	if envelope.OrderUID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_UID", "Client order UID cannot be empty")
	}
	if reg == nil {
		return nil, shared.NewDomainError("INVALID_REGISTRY", "Attribute registry is required")
	}

	order := &PosOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientOrderUID:    envelope.OrderUID,
		CapturedAt:        time.Now(),
	}
	for _, spec := range reg.DeclaredAttributes(attribute.KindOrder) {
		if err := order.applyAttribute(spec.Key, spec.Default); err != nil {
			return nil, err
		}
	}

	if err := order.ApplyCapture(envelope, reg); err != nil {
		return nil, err
	}

	order.AddDomainEvent(NewPosOrderCapturedEvent(order))

	return order, nil
}

// ApplyCapture patches the order from an incoming envelope. Core fields
// and lines are replaced wholesale; custom attribute columns follow
// sparse-patch semantics: only keys present in the envelope overwrite,
// absent keys keep their current value, and keys the registry does not
// declare are ignored. Applying the same envelope twice leaves the order
// in the same state, which makes client retries safe
func (o *PosOrder) ApplyCapture(envelope pos.CaptureEnvelope, reg *attribute.Registry) error {
	if reg == nil {
		return shared.NewDomainError("INVALID_REGISTRY", "Attribute registry is required")
	}
	if envelope.OrderUID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORDER_UID", "Client order UID cannot be empty")
	}
	if o.ClientOrderUID != uuid.Nil && envelope.OrderUID != o.ClientOrderUID {
		return shared.NewDomainError("ORDER_UID_MISMATCH", "Envelope does not belong to this order")
	}

	lines, err := capturedLines(envelope.OrderUID, envelope.Lines)
	if err != nil {
		return err
	}

	o.SessionID = envelope.SessionID
	o.Cashier = envelope.Cashier
	o.PlacedAt = envelope.PlacedAt
	o.Total = envelope.Total.Amount()
	o.Lines = lines

	for _, spec := range reg.DeclaredAttributes(attribute.KindOrder) {
		value, ok := envelope.Attributes.Get(spec.Key)
		if !ok {
			continue // absent keys leave the column unchanged
		}
		if err := o.applyAttribute(spec.Key, value); err != nil {
			return err
		}
	}

	o.UpdatedAt = time.Now()

	return nil
}

// applyAttribute writes one declared attribute into its column
func (o *PosOrder) applyAttribute(key string, value attribute.Value) error {
	switch key {
	case attribute.KeyOrderNumber:
		s, ok := value.StringVal()
		if !ok {
			return invalidAttributeValue(key, attribute.ValueString, value)
		}
		o.CustomOrderNumber = s
	case attribute.KeyPriority:
		s, ok := value.StringVal()
		if !ok {
			return invalidAttributeValue(key, attribute.ValueString, value)
		}
		if !attribute.IsValidPriority(s) {
			return shared.NewDomainError("INVALID_ATTRIBUTE_VALUE", fmt.Sprintf("Priority %q is not one of the known levels", s))
		}
		o.Priority = s
	case attribute.KeySpecialInstructions:
		s, ok := value.StringVal()
		if !ok {
			return invalidAttributeValue(key, attribute.ValueString, value)
		}
		o.SpecialInstructions = s
	case attribute.KeyDeliveryDate:
		if value.Kind() != attribute.ValueDate {
			return invalidAttributeValue(key, attribute.ValueDate, value)
		}
		if t, ok := value.DateVal(); ok {
			o.DeliveryDate = &t
		} else {
			o.DeliveryDate = nil // null clears the date
		}
	}
	return nil
}

func invalidAttributeValue(key string, want attribute.ValueKind, got attribute.Value) error {
	return shared.NewDomainError("INVALID_ATTRIBUTE_VALUE", fmt.Sprintf("Attribute %q expects %s, got %s", key, want, got.Kind()))
}

// capturedLines maps envelope lines onto persisted rows. Line ids derive
// deterministically from the client order uid and line position, so the
// same envelope always produces the same rows
func capturedLines(orderUID uuid.UUID, lines []pos.CaptureLine) ([]PosOrderLine, error) {
	out := make([]PosOrderLine, len(lines))
	for i, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_LINE", fmt.Sprintf("Line %d has no product", i))
		}
		if !line.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_LINE", fmt.Sprintf("Line %d quantity must be positive", i))
		}
		if line.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_LINE", fmt.Sprintf("Line %d unit price cannot be negative", i))
		}

		row := PosOrderLine{
			ID:          lineID(orderUID, i),
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity.Amount(),
			Unit:        line.Quantity.Unit(),
			UnitPrice:   line.UnitPrice.Amount(),
			Amount:      line.Subtotal().Amount(),
			Note:        line.Note,
		}

		if ref, ok := line.Attributes.Get(attribute.KeyBrandRef); ok {
			if id, ok := ref.RefVal(); ok {
				brandID := id
				row.BrandID = &brandID
			}
		}
		if code, ok := line.Attributes.Get(attribute.KeyCode); ok {
			if s, ok := code.StringVal(); ok {
				row.ProductCode = s
			}
		}

		out[i] = row
	}
	return out, nil
}

// lineID derives a stable line identity from order uid and position
func lineID(orderUID uuid.UUID, index int) uuid.UUID {
	return uuid.NewSHA1(orderUID, []byte(fmt.Sprintf("line-%d", index)))
}

// SnapshotBrandNames fills the per-line brand name snapshot using the
// given resolver. Capture time is when referenced brands are still
// guaranteed to exist, so the snapshot taken here is what reprints
// render from later. Lines that already carry a name are left alone
func (o *PosOrder) SnapshotBrandNames(resolve func(uuid.UUID) (string, bool)) {
	if resolve == nil {
		return
	}
	for i := range o.Lines {
		line := &o.Lines[i]
		if line.BrandID == nil || line.BrandName != "" {
			continue
		}
		if name, ok := resolve(*line.BrandID); ok {
			line.BrandName = name
		}
	}
}

// AttributeSet rebuilds the order's declared attribute set from its
// columns, in registry declaration order
func (o *PosOrder) AttributeSet(reg *attribute.Registry) attribute.Set {
	out := attribute.NewSet()
	for _, spec := range reg.DeclaredAttributes(attribute.KindOrder) {
		switch spec.Key {
		case attribute.KeyOrderNumber:
			out.Put(spec.Key, attribute.String(o.CustomOrderNumber))
		case attribute.KeyPriority:
			out.Put(spec.Key, attribute.String(o.Priority))
		case attribute.KeySpecialInstructions:
			out.Put(spec.Key, attribute.String(o.SpecialInstructions))
		case attribute.KeyDeliveryDate:
			if o.DeliveryDate != nil {
				out.Put(spec.Key, attribute.Date(*o.DeliveryDate))
			} else {
				out.Put(spec.Key, attribute.NullDate())
			}
		default:
			out.Put(spec.Key, spec.Default)
		}
	}
	return out
}

// ExportEnvelope rebuilds the print-shaped payload from persisted state.
// Lines surface their brand snapshot in normalized form, so a reprint
// renders the names as they were at capture time even if the catalog has
// changed since
func (o *PosOrder) ExportEnvelope(reg *attribute.Registry) pos.PrintEnvelope {
	lines := make([]pos.PrintLine, len(o.Lines))
	for i := range o.Lines {
		line := &o.Lines[i]

		attrs := attribute.NewSet()
		for _, spec := range reg.DeclaredAttributes(attribute.KindOrderLine) {
			switch spec.Key {
			case attribute.KeyLineBrandID:
				if line.BrandID != nil {
					attrs.Put(spec.Key, attribute.Ref(*line.BrandID))
				} else {
					attrs.Put(spec.Key, attribute.NullRef())
				}
			case attribute.KeyLineBrandName:
				attrs.Put(spec.Key, attribute.String(line.BrandName))
			default:
				attrs.Put(spec.Key, spec.Default)
			}
		}

		lines[i] = pos.PrintLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    valueobject.MustNewQuantity(line.Quantity, line.Unit),
			UnitPrice:   line.GetUnitPriceMoney(),
			Note:        line.Note,
			Brand:       line.BrandRef(),
			Attributes:  attrs,
		}
	}

	return pos.PrintEnvelope{
		OrderUID:   o.ClientOrderUID,
		SessionID:  o.SessionID,
		Cashier:    o.Cashier,
		PlacedAt:   o.PlacedAt,
		Total:      valueobject.NewMoneyUSD(o.Total),
		Attributes: o.AttributeSet(reg),
		Lines:      lines,
	}
}

// GetTotalMoney returns the order total as Money value object
func (o *PosOrder) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.Total)
}

// LineCount returns the number of persisted lines
func (o *PosOrder) LineCount() int {
	return len(o.Lines)
}
