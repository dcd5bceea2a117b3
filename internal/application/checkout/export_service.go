package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/checkout"
	"github.com/retailpos/backend/internal/domain/pos"
	"github.com/retailpos/backend/internal/domain/printing"
	"github.com/retailpos/backend/internal/domain/shared"
)

// ExportService reads captured orders back out as print envelopes and
// rendered receipt documents. Reprints resolve from the stored line
// snapshots, so a receipt regenerated months later shows the brand names
// that were current when the order was captured
type ExportService struct {
	orderRepo checkout.PosOrderRepository
	brandRepo catalog.BrandRepository
	registry  *attribute.Registry
	formatter *printing.Formatter
	logger    *zap.Logger
}

// NewExportService creates a new ExportService
func NewExportService(
	orderRepo checkout.PosOrderRepository,
	brandRepo catalog.BrandRepository,
	registry *attribute.Registry,
	formatter *printing.Formatter,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		orderRepo: orderRepo,
		brandRepo: brandRepo,
		registry:  registry,
		formatter: formatter,
		logger:    logger,
	}
}

// Export rebuilds the print envelope for a captured order
func (s *ExportService) Export(ctx context.Context, orderID uuid.UUID) (*pos.PrintEnvelope, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	envelope := order.ExportEnvelope(s.registry)
	return &envelope, nil
}

// Receipt renders the reprint receipt document for a captured order.
// Lines missing a snapshot name fall back to a live brand lookup, and
// brands deleted since capture render as a placeholder rather than
// failing the reprint
func (s *ExportService) Receipt(ctx context.Context, orderID uuid.UUID) (*printing.RenderDocument, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	envelope := order.ExportEnvelope(s.registry)
	doc := s.formatter.FormatReprint(envelope, &repoBrandResolver{ctx: ctx, brandRepo: s.brandRepo, logger: s.logger})
	return &doc, nil
}

// findOrder resolves an order by server id first, then client order UID
func (s *ExportService) findOrder(ctx context.Context, id uuid.UUID) (*checkout.PosOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return s.orderRepo.FindByClientUID(ctx, id)
}

// repoBrandResolver adapts the brand repository to the formatter's
// resolver port for the lifetime of one request
type repoBrandResolver struct {
	ctx       context.Context
	brandRepo catalog.BrandRepository
	logger    *zap.Logger
}

func (r *repoBrandResolver) BrandName(id uuid.UUID) (string, bool) {
	brand, err := r.brandRepo.FindByID(r.ctx, id)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			r.logger.Warn("brand lookup failed during reprint",
				zap.String("brand_id", id.String()),
				zap.Error(err),
			)
		}
		return "", false
	}
	return brand.Name, true
}

var _ printing.BrandResolver = (*repoBrandResolver)(nil)
