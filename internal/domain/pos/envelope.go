package pos

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// CaptureEnvelope is the payload a locked order serializes into for
// submission to the backend. It carries every declared order attribute
// with its current-or-default value; line brand references stay in their
// raw id-only form because capture never needs display names
type CaptureEnvelope struct {
	OrderUID   uuid.UUID         `json:"order_uid"`
	SessionID  uuid.UUID         `json:"session_id"`
	Cashier    string            `json:"cashier"`
	PlacedAt   time.Time         `json:"placed_at"`
	Total      valueobject.Money `json:"total"`
	Attributes attribute.Set     `json:"custom_attributes"`
	Lines      []CaptureLine     `json:"lines"`
}

// CaptureLine is one order line inside a capture envelope
type CaptureLine struct {
	ProductID   uuid.UUID            `json:"product_id"`
	ProductName string               `json:"product_name"`
	Quantity    valueobject.Quantity `json:"quantity"`
	UnitPrice   valueobject.Money    `json:"unit_price"`
	Note        string               `json:"note,omitempty"`
	Attributes  attribute.Set        `json:"custom_attributes"`
}

// PrintEnvelope is the payload the receipt formatter consumes. It mirrors
// the capture envelope but additionally carries each line's brand as a
// normalized reference: a resolved (id, name) pair when the catalog store
// knew the brand, or an unnamed id-only stub when it did not
type PrintEnvelope struct {
	OrderUID   uuid.UUID         `json:"order_uid"`
	SessionID  uuid.UUID         `json:"session_id"`
	Cashier    string            `json:"cashier"`
	PlacedAt   time.Time         `json:"placed_at"`
	Total      valueobject.Money `json:"total"`
	Attributes attribute.Set     `json:"custom_attributes"`
	Lines      []PrintLine       `json:"lines"`
}

// PrintLine is one order line inside a print envelope
type PrintLine struct {
	ProductID   uuid.UUID            `json:"product_id"`
	ProductName string               `json:"product_name"`
	Quantity    valueobject.Quantity `json:"quantity"`
	UnitPrice   valueobject.Money    `json:"unit_price"`
	Note        string               `json:"note,omitempty"`
	Brand       BrandRef             `json:"brand"`
	Attributes  attribute.Set        `json:"custom_attributes"`
}

// Subtotal returns quantity times unit price for the line
func (l CaptureLine) Subtotal() valueobject.Money {
	return l.UnitPrice.Multiply(l.Quantity.Amount())
}
