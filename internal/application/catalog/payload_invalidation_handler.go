package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
)

// PayloadInvalidationHandler drops cached bulk-load payloads whenever a
// catalog aggregate changes. Any brand or product write can alter an
// unknown number of cached projections, so the whole kind is
// invalidated rather than individual keys
type PayloadInvalidationHandler struct {
	cache  catalog.PayloadCache
	logger *zap.Logger
}

// NewPayloadInvalidationHandler creates a new handler for catalog change events
func NewPayloadInvalidationHandler(cache catalog.PayloadCache, logger *zap.Logger) *PayloadInvalidationHandler {
	return &PayloadInvalidationHandler{
		cache:  cache,
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PayloadInvalidationHandler) EventTypes() []string {
	return []string{
		catalog.EventTypeBrandCreated,
		catalog.EventTypeBrandUpdated,
		catalog.EventTypeBrandStatusChanged,
		catalog.EventTypeBrandDeleted,
		catalog.EventTypeProductCreated,
		catalog.EventTypeProductUpdated,
		catalog.EventTypeProductStatusChanged,
		catalog.EventTypeProductPriceChanged,
		catalog.EventTypeProductDeleted,
	}
}

// Handle invalidates the cached payloads of the changed entity kind
func (h *PayloadInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	kind, ok := kindForAggregate(event.AggregateType())
	if !ok {
		h.logger.Warn("catalog change event for unexpected aggregate type",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_type", event.AggregateType()),
		)
		return nil
	}

	if err := h.cache.InvalidateKind(ctx, kind); err != nil {
		h.logger.Error("failed to invalidate cached payloads",
			zap.String("entity_kind", string(kind)),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return err
	}

	h.logger.Debug("invalidated cached payloads",
		zap.String("entity_kind", string(kind)),
		zap.String("event_type", event.EventType()),
	)
	return nil
}

// kindForAggregate maps a catalog aggregate type to its bulk-load kind
func kindForAggregate(aggregateType string) (attribute.EntityKind, bool) {
	switch aggregateType {
	case catalog.AggregateTypeBrand:
		return attribute.KindBrand, true
	case catalog.AggregateTypeProduct:
		return attribute.KindProduct, true
	default:
		return "", false
	}
}

// Ensure PayloadInvalidationHandler implements shared.EventHandler
var _ shared.EventHandler = (*PayloadInvalidationHandler)(nil)
