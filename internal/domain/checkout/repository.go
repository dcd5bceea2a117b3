package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// PosOrderRepository defines the interface for captured order persistence
type PosOrderRepository interface {
	// FindByID finds a captured order by its ID, lines included
	FindByID(ctx context.Context, id uuid.UUID) (*PosOrder, error)

	// FindByClientUID finds a captured order by the client order uid.
	// Returns shared.ErrNotFound when no capture landed yet; the capture
	// service uses that miss to decide between create and patch
	FindByClientUID(ctx context.Context, clientUID uuid.UUID) (*PosOrder, error)

	// FindAll finds all captured orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]PosOrder, error)

	// FindBySession finds all orders captured under a session
	FindBySession(ctx context.Context, sessionID uuid.UUID, filter shared.Filter) ([]PosOrder, error)

	// Save creates or updates a captured order together with its lines
	Save(ctx context.Context, order *PosOrder) error

	// Count counts captured orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// PosSessionRepository defines the interface for POS session persistence
type PosSessionRepository interface {
	// FindByID finds a session by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*PosSession, error)

	// FindOpenByTerminal finds the open session for a terminal, if any
	FindOpenByTerminal(ctx context.Context, terminal string) (*PosSession, error)

	// FindAll finds all sessions matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]PosSession, error)

	// Save creates or updates a session
	Save(ctx context.Context, session *PosSession) error

	// Count counts sessions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
