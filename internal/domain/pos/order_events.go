package pos

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "TerminalOrder"

// Event type constants
const (
	EventTypeOrderOpened   = "TerminalOrderOpened"
	EventTypeOrderLocked   = "TerminalOrderLocked"
	EventTypeOrderCaptured = "TerminalOrderCaptured"
)

// OrderOpenedEvent is raised when a cashier starts a new order
type OrderOpenedEvent struct {
	shared.BaseDomainEvent
	OrderUID  uuid.UUID `json:"order_uid"`
	SessionID uuid.UUID `json:"session_id"`
	Cashier   string    `json:"cashier"`
}

// NewOrderOpenedEvent creates a new OrderOpenedEvent
func NewOrderOpenedEvent(order *Order) *OrderOpenedEvent {
	return &OrderOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderOpened, AggregateTypeOrder, order.ID),
		OrderUID:        order.ID,
		SessionID:       order.SessionID,
		Cashier:         order.Cashier,
	}
}

// EventType returns the event type name
func (e *OrderOpenedEvent) EventType() string {
	return EventTypeOrderOpened
}

// OrderLockedEvent is raised when an order freezes for payment
type OrderLockedEvent struct {
	shared.BaseDomainEvent
	OrderUID  uuid.UUID `json:"order_uid"`
	SessionID uuid.UUID `json:"session_id"`
	LineCount int       `json:"line_count"`
	Total     string    `json:"total"`
	LockedAt  time.Time `json:"locked_at"`
}

// NewOrderLockedEvent creates a new OrderLockedEvent
func NewOrderLockedEvent(order *Order) *OrderLockedEvent {
	lockedAt := time.Now()
	if order.LockedAt != nil {
		lockedAt = *order.LockedAt
	}
	return &OrderLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderLocked, AggregateTypeOrder, order.ID),
		OrderUID:        order.ID,
		SessionID:       order.SessionID,
		LineCount:       order.LineCount(),
		Total:           order.Total().String(),
		LockedAt:        lockedAt,
	}
}

// EventType returns the event type name
func (e *OrderLockedEvent) EventType() string {
	return EventTypeOrderLocked
}

// OrderCapturedEvent is raised when the backend accepts the capture
// envelope for an order
type OrderCapturedEvent struct {
	shared.BaseDomainEvent
	OrderUID   uuid.UUID `json:"order_uid"`
	SessionID  uuid.UUID `json:"session_id"`
	CapturedAt time.Time `json:"captured_at"`
}

// NewOrderCapturedEvent creates a new OrderCapturedEvent
func NewOrderCapturedEvent(order *Order) *OrderCapturedEvent {
	capturedAt := time.Now()
	if order.CapturedAt != nil {
		capturedAt = *order.CapturedAt
	}
	return &OrderCapturedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCaptured, AggregateTypeOrder, order.ID),
		OrderUID:        order.ID,
		SessionID:       order.SessionID,
		CapturedAt:      capturedAt,
	}
}

// EventType returns the event type name
func (e *OrderCapturedEvent) EventType() string {
	return EventTypeOrderCaptured
}
