package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePosOrder = "PosOrder"

// Event type constants
const (
	EventTypePosOrderCaptured = "PosOrderCaptured"
	EventTypePosOrderAmended  = "PosOrderAmended"
)

// PosOrderLineInfo represents line information for events
type PosOrderLineInfo struct {
	LineID      uuid.UUID       `json:"line_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
}

func lineInfos(order *PosOrder) []PosOrderLineInfo {
	infos := make([]PosOrderLineInfo, len(order.Lines))
	for i, line := range order.Lines {
		infos[i] = PosOrderLineInfo{
			LineID:      line.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Amount:      line.Amount,
		}
	}
	return infos
}

// PosOrderCapturedEvent is raised when a capture envelope creates a new
// persisted order
type PosOrderCapturedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID          `json:"order_id"`
	ClientOrderUID uuid.UUID          `json:"client_order_uid"`
	SessionID      uuid.UUID          `json:"session_id"`
	Total          decimal.Decimal    `json:"total"`
	Priority       string             `json:"priority"`
	Lines          []PosOrderLineInfo `json:"lines"`
	CapturedAt     time.Time          `json:"captured_at"`
}

// NewPosOrderCapturedEvent creates a new PosOrderCapturedEvent
func NewPosOrderCapturedEvent(order *PosOrder) *PosOrderCapturedEvent {
	return &PosOrderCapturedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePosOrderCaptured, AggregateTypePosOrder, order.ID),
		OrderID:         order.ID,
		ClientOrderUID:  order.ClientOrderUID,
		SessionID:       order.SessionID,
		Total:           order.Total,
		Priority:        order.Priority,
		Lines:           lineInfos(order),
		CapturedAt:      order.CapturedAt,
	}
}

// EventType returns the event type name
func (e *PosOrderCapturedEvent) EventType() string {
	return EventTypePosOrderCaptured
}

// PosOrderAmendedEvent is raised when a resubmitted envelope patches an
// already captured order
type PosOrderAmendedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID       `json:"order_id"`
	ClientOrderUID uuid.UUID       `json:"client_order_uid"`
	SessionID      uuid.UUID       `json:"session_id"`
	Total          decimal.Decimal `json:"total"`
}

// NewPosOrderAmendedEvent creates a new PosOrderAmendedEvent
func NewPosOrderAmendedEvent(order *PosOrder) *PosOrderAmendedEvent {
	return &PosOrderAmendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePosOrderAmended, AggregateTypePosOrder, order.ID),
		OrderID:         order.ID,
		ClientOrderUID:  order.ClientOrderUID,
		SessionID:       order.SessionID,
		Total:           order.Total,
	}
}

// EventType returns the event type name
func (e *PosOrderAmendedEvent) EventType() string {
	return EventTypePosOrderAmended
}
