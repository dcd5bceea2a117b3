package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePosSession = "PosSession"

// Event type constants
const (
	EventTypePosSessionOpened = "PosSessionOpened"
	EventTypePosSessionClosed = "PosSessionClosed"
)

// PosSessionOpenedEvent is raised when a terminal opens a new session
type PosSessionOpenedEvent struct {
	shared.BaseDomainEvent
	SessionID uuid.UUID `json:"session_id"`
	Terminal  string    `json:"terminal"`
	Cashier   string    `json:"cashier"`
	OpenedAt  time.Time `json:"opened_at"`
}

// NewPosSessionOpenedEvent creates a new PosSessionOpenedEvent
func NewPosSessionOpenedEvent(session *PosSession) *PosSessionOpenedEvent {
	return &PosSessionOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePosSessionOpened, AggregateTypePosSession, session.ID),
		SessionID:       session.ID,
		Terminal:        session.Terminal,
		Cashier:         session.Cashier,
		OpenedAt:        session.OpenedAt,
	}
}

// EventType returns the event type name
func (e *PosSessionOpenedEvent) EventType() string {
	return EventTypePosSessionOpened
}

// PosSessionClosedEvent is raised when a session ends
type PosSessionClosedEvent struct {
	shared.BaseDomainEvent
	SessionID uuid.UUID  `json:"session_id"`
	Terminal  string     `json:"terminal"`
	ClosedAt  *time.Time `json:"closed_at"`
}

// NewPosSessionClosedEvent creates a new PosSessionClosedEvent
func NewPosSessionClosedEvent(session *PosSession) *PosSessionClosedEvent {
	return &PosSessionClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePosSessionClosed, AggregateTypePosSession, session.ID),
		SessionID:       session.ID,
		Terminal:        session.Terminal,
		ClosedAt:        session.ClosedAt,
	}
}

// EventType returns the event type name
func (e *PosSessionClosedEvent) EventType() string {
	return EventTypePosSessionClosed
}
