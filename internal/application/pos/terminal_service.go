// Package pos orchestrates the terminal side of checkout: session
// bootstrap against the backend catalog, order submission, and receipt
// rendering through a pluggable render engine.
package pos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/pos"
	"github.com/retailpos/backend/internal/domain/printing"
	"github.com/retailpos/backend/internal/domain/shared"
)

// TerminalServiceConfig holds configuration for the terminal service
type TerminalServiceConfig struct {
	BootstrapAttempts int
	BootstrapBackoff  time.Duration
	SubmitAttempts    int
	SubmitBackoff     time.Duration
}

// DefaultTerminalServiceConfig returns default configuration
func DefaultTerminalServiceConfig() TerminalServiceConfig {
	return TerminalServiceConfig{
		BootstrapAttempts: 3,
		BootstrapBackoff:  500 * time.Millisecond,
		SubmitAttempts:    3,
		SubmitBackoff:     500 * time.Millisecond,
	}
}

// TerminalService drives terminal sessions. The domain session aborts a
// bootstrap on the first fetch failure; the retry policy for getting a
// terminal interactive lives here
type TerminalService struct {
	registry  *attribute.Registry
	fetcher   pos.CatalogFetcher
	submitter pos.OrderSubmitter
	formatter *printing.Formatter
	config    TerminalServiceConfig
	logger    *zap.Logger
}

// NewTerminalService creates a new TerminalService
func NewTerminalService(
	registry *attribute.Registry,
	fetcher pos.CatalogFetcher,
	submitter pos.OrderSubmitter,
	formatter *printing.Formatter,
	config TerminalServiceConfig,
	logger *zap.Logger,
) *TerminalService {
	return &TerminalService{
		registry:  registry,
		fetcher:   fetcher,
		submitter: submitter,
		formatter: formatter,
		config:    config,
		logger:    logger,
	}
}

// StartSession creates a session for an opened backend shift and
// bootstraps its catalog store. The session is returned only once it is
// READY; transient fetch failures are retried with backoff before the
// start is abandoned
func (s *TerminalService) StartSession(ctx context.Context, sessionID uuid.UUID, cashier string) (*pos.Session, error) {
	session, err := pos.NewSession(sessionID, cashier, s.registry, s.fetcher, s.submitter)
	if err != nil {
		return nil, err
	}

	backoff := s.config.BootstrapBackoff
	var lastErr error
	for attempt := 1; attempt <= s.config.BootstrapAttempts; attempt++ {
		lastErr = session.Bootstrap(ctx)
		if lastErr == nil {
			s.logger.Info("terminal session ready",
				zap.String("session_id", sessionID.String()),
				zap.String("cashier", cashier),
				zap.Int("attempt", attempt),
			)
			return session, nil
		}

		s.logger.Warn("session bootstrap failed",
			zap.String("session_id", sessionID.String()),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)
		if attempt == s.config.BootstrapAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, fmt.Errorf("session bootstrap failed after %d attempts: %w", s.config.BootstrapAttempts, lastErr)
}

// SubmitOrder sends the order's capture envelope to the backend through
// the session. The order stays locked across failed attempts, so each
// retry resubmits the same envelope under the same order uid and the
// backend deduplicates. Domain rejections are returned without retrying
func (s *TerminalService) SubmitOrder(ctx context.Context, session *pos.Session, order *pos.Order) error {
	if session == nil {
		return shared.NewDomainError("INVALID_SESSION", "Session is required")
	}

	backoff := s.config.SubmitBackoff
	var lastErr error
	for attempt := 1; attempt <= s.config.SubmitAttempts; attempt++ {
		lastErr = session.SubmitOrder(ctx, order)
		if lastErr == nil {
			s.logger.Info("order captured",
				zap.String("order_uid", order.ID.String()),
				zap.String("session_id", session.ID.String()),
				zap.Int("lines", order.LineCount()),
				zap.Int("attempt", attempt),
			)
			return nil
		}

		var domainErr *shared.DomainError
		if errors.As(lastErr, &domainErr) {
			return lastErr
		}

		s.logger.Warn("order submission failed",
			zap.String("order_uid", order.ID.String()),
			zap.String("session_id", session.ID.String()),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)
		if attempt == s.config.SubmitAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return fmt.Errorf("order submission failed after %d attempts: %w", s.config.SubmitAttempts, lastErr)
}

// LiveReceipt formats the order for printing against the session's
// catalog store
func (s *TerminalService) LiveReceipt(session *pos.Session, order *pos.Order) (*printing.RenderDocument, error) {
	if session == nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session is required")
	}
	if order == nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order is required")
	}

	doc := s.formatter.FormatLive(order, session.Store())
	return &doc, nil
}

// PrintReceipt renders the live receipt on the given engine. A captured
// order that has been printed once becomes a reprint source; further
// copies go through the backend export path
func (s *TerminalService) PrintReceipt(ctx context.Context, session *pos.Session, order *pos.Order, renderer printing.Renderer) error {
	if renderer == nil {
		return shared.NewDomainError("INVALID_RENDERER", "Render engine is required")
	}

	doc, err := s.LiveReceipt(session, order)
	if err != nil {
		return err
	}

	if err := renderer.Render(ctx, doc); err != nil {
		return fmt.Errorf("failed to render receipt for order %s: %w", order.ID, err)
	}

	if order.IsCaptured() {
		return order.MarkReprintSource()
	}
	return nil
}
