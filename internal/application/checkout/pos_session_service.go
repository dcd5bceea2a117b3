package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/checkout"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/telemetry"
)

// PosSessionService manages terminal session lifecycle
type PosSessionService struct {
	sessionRepo     checkout.PosSessionRepository
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
	logger          *zap.Logger
}

// NewPosSessionService creates a new PosSessionService
func NewPosSessionService(sessionRepo checkout.PosSessionRepository, logger *zap.Logger) *PosSessionService {
	return &PosSessionService{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PosSessionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *PosSessionService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// OpenSession opens a new session for a terminal. A terminal holds at
// most one open session at a time
func (s *PosSessionService) OpenSession(ctx context.Context, req OpenPosSessionRequest) (*PosSessionResponse, error) {
	existing, err := s.sessionRepo.FindOpenByTerminal(ctx, req.Terminal)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("SESSION_ALREADY_OPEN", "Terminal already has an open session")
	}

	session, err := checkout.NewPosSession(req.Terminal, req.Cashier)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordSessionOpened(ctx, session.Terminal)
	}

	s.publishEvents(ctx, session)

	response := ToPosSessionResponse(session)
	return &response, nil
}

// CloseSession closes an open session. Orders already captured into the
// session stay readable; new captures are rejected
func (s *PosSessionService) CloseSession(ctx context.Context, id uuid.UUID) (*PosSessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := session.Close(); err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, session)

	response := ToPosSessionResponse(session)
	return &response, nil
}

// GetByID retrieves a session by id
func (s *PosSessionService) GetByID(ctx context.Context, id uuid.UUID) (*PosSessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPosSessionResponse(session)
	return &response, nil
}

// publishEvents publishes the aggregate's pending domain events
func (s *PosSessionService) publishEvents(ctx context.Context, session *checkout.PosSession) {
	if s.eventPublisher == nil {
		return
	}
	events := session.GetDomainEvents()
	for _, event := range events {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			// Log error but don't fail the operation - event handling is async
			s.logger.Warn("failed to publish session event",
				zap.String("event_type", event.EventType()),
				zap.Error(err),
			)
		}
	}
	session.ClearDomainEvents()
}
