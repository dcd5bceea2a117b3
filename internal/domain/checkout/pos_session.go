package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/retailpos/backend/internal/domain/shared"
)

// SessionStatus represents the status of a POS session
type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "OPEN"
	SessionStatusClosed SessionStatus = "CLOSED"
)

// IsValid checks if the status is a valid SessionStatus
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusOpen, SessionStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of SessionStatus
func (s SessionStatus) String() string {
	return string(s)
}

// PosSession is the backend record of one cashier shift on one terminal.
// Captured orders reference the session they were submitted under; the
// session itself only tracks the shift lifecycle
type PosSession struct {
	shared.BaseAggregateRoot
	Terminal string        `gorm:"type:varchar(100);not null;index"`
	Cashier  string        `gorm:"type:varchar(100);not null"`
	Status   SessionStatus `gorm:"type:varchar(20);not null;default:'OPEN'"`
	OpenedAt time.Time     `gorm:"not null"`
	ClosedAt *time.Time
}

// TableName returns the table name for GORM
func (PosSession) TableName() string {
	return "pos_sessions"
}

// NewPosSession opens a new session for a terminal
func NewPosSession(terminal, cashier string) (*PosSession, error) {
	terminal = strings.TrimSpace(terminal)
	cashier = strings.TrimSpace(cashier)
	if terminal == "" {
		return nil, shared.NewDomainError("INVALID_TERMINAL", "Terminal name cannot be empty")
	}
	if len(terminal) > 100 {
		return nil, shared.NewDomainError("INVALID_TERMINAL", "Terminal name cannot exceed 100 characters")
	}
	if cashier == "" {
		return nil, shared.NewDomainError("INVALID_CASHIER", "Cashier name cannot be empty")
	}

	session := &PosSession{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Terminal:          terminal,
		Cashier:           cashier,
		Status:            SessionStatusOpen,
		OpenedAt:          time.Now(),
	}

	session.AddDomainEvent(NewPosSessionOpenedEvent(session))

	return session, nil
}

// Close ends the session. Closing an already closed session fails
func (s *PosSession) Close() error {
	if s.Status != SessionStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot close session in %s status", s.Status))
	}

	now := time.Now()
	s.Status = SessionStatusClosed
	s.ClosedAt = &now
	s.UpdatedAt = now

	s.AddDomainEvent(NewPosSessionClosedEvent(s))

	return nil
}

// IsOpen returns true if the session is accepting orders
func (s *PosSession) IsOpen() bool {
	return s.Status == SessionStatusOpen
}
