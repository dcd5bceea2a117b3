package checkout

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/checkout"
	"github.com/retailpos/backend/internal/domain/printing"
	"github.com/retailpos/backend/internal/domain/shared"
)

func newExportServiceForTest(orderRepo *MockPosOrderRepository, brandRepo *MockBrandRepository) *ExportService {
	registry := attribute.DefaultRegistry()
	formatter := printing.NewFormatter(registry)
	return NewExportService(orderRepo, brandRepo, registry, formatter, zap.NewNop())
}

// capturedTestOrder builds a persisted order straight from a capture
// request, without touching any repository
func capturedTestOrder(t *testing.T, req CaptureOrderRequest) *checkout.PosOrder {
	envelope, _, err := req.ToEnvelope(attribute.DefaultRegistry())
	require.NoError(t, err)
	order, err := checkout.NewPosOrderFromEnvelope(envelope, attribute.DefaultRegistry())
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

// ============================================
// Export Tests
// ============================================

func TestExportService_Export_RebuildsPrintEnvelope(t *testing.T) {
	orderRepo := new(MockPosOrderRepository)
	brandRepo := new(MockBrandRepository)
	service := newExportServiceForTest(orderRepo, brandRepo)

	brandID := uuid.New()
	order := capturedTestOrder(t, captureRequest(t, uuid.New(), uuid.New(), brandID))
	order.Lines[0].BrandName = "Acme"

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	envelope, err := service.Export(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, order.ClientOrderUID, envelope.OrderUID)
	require.Len(t, envelope.Lines, 1)
	id, _ := envelope.Lines[0].Brand.ID()
	assert.Equal(t, brandID, id)
	name, _ := envelope.Lines[0].Brand.Name()
	assert.Equal(t, "Acme", name)

	// Every declared order key appears, carried keys and defaults alike
	keys := envelope.Attributes.Keys()
	assert.Equal(t, []string{
		attribute.KeyOrderNumber,
		attribute.KeyPriority,
		attribute.KeySpecialInstructions,
		attribute.KeyDeliveryDate,
	}, keys)
}

func TestExportService_Export_FallsBackToClientUID(t *testing.T) {
	orderRepo := new(MockPosOrderRepository)
	brandRepo := new(MockBrandRepository)
	service := newExportServiceForTest(orderRepo, brandRepo)

	order := capturedTestOrder(t, captureRequest(t, uuid.New(), uuid.New(), uuid.New()))

	orderRepo.On("FindByID", mock.Anything, order.ClientOrderUID).Return(nil, shared.ErrNotFound)
	orderRepo.On("FindByClientUID", mock.Anything, order.ClientOrderUID).Return(order, nil)

	envelope, err := service.Export(context.Background(), order.ClientOrderUID)

	require.NoError(t, err)
	assert.Equal(t, order.ClientOrderUID, envelope.OrderUID)
	orderRepo.AssertExpectations(t)
}

func TestExportService_Export_NotFound(t *testing.T) {
	orderRepo := new(MockPosOrderRepository)
	brandRepo := new(MockBrandRepository)
	service := newExportServiceForTest(orderRepo, brandRepo)

	id := uuid.New()
	orderRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)
	orderRepo.On("FindByClientUID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	envelope, err := service.Export(context.Background(), id)

	assert.Nil(t, envelope)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

// ============================================
// Receipt Tests
// ============================================

func TestExportService_Receipt_RendersFromSnapshotNotCatalog(t *testing.T) {
	orderRepo := new(MockPosOrderRepository)
	brandRepo := new(MockBrandRepository)
	service := newExportServiceForTest(orderRepo, brandRepo)

	order := capturedTestOrder(t, captureRequest(t, uuid.New(), uuid.New(), uuid.New()))
	order.Lines[0].BrandName = "Acme"

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	doc, err := service.Receipt(context.Background(), order.ID)

	require.NoError(t, err)
	assert.True(t, doc.Reprint)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "Acme", doc.Lines[0].Brand)
	// The snapshot satisfied the lookup, no catalog round trip happened
	brandRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestExportService_Receipt_ResolvesMissingSnapshotLive(t *testing.T) {
	orderRepo := new(MockPosOrderRepository)
	brandRepo := new(MockBrandRepository)
	service := newExportServiceForTest(orderRepo, brandRepo)

	brand, err := catalog.NewBrand("Acme", "", "")
	require.NoError(t, err)

	order := capturedTestOrder(t, captureRequest(t, uuid.New(), uuid.New(), brand.ID))
	require.Equal(t, "", order.Lines[0].BrandName)

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	brandRepo.On("FindByID", mock.Anything, brand.ID).Return(brand, nil)

	doc, err := service.Receipt(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, "Acme", doc.Lines[0].Brand)
	brandRepo.AssertExpectations(t)
}

func TestExportService_Receipt_DeletedBrandRendersPlaceholder(t *testing.T) {
	orderRepo := new(MockPosOrderRepository)
	brandRepo := new(MockBrandRepository)
	service := newExportServiceForTest(orderRepo, brandRepo)

	brandID := uuid.New()
	order := capturedTestOrder(t, captureRequest(t, uuid.New(), uuid.New(), brandID))

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	brandRepo.On("FindByID", mock.Anything, brandID).Return(nil, shared.ErrNotFound)

	doc, err := service.Receipt(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, printing.UnknownBrandLabel, doc.Lines[0].Brand)
}

func TestExportService_Receipt_NormalPrioritySuppressed(t *testing.T) {
	orderRepo := new(MockPosOrderRepository)
	brandRepo := new(MockBrandRepository)
	service := newExportServiceForTest(orderRepo, brandRepo)

	req := captureRequest(t, uuid.New(), uuid.New(), uuid.New())
	req.Attributes = map[string]json.RawMessage{
		"priority": json.RawMessage(`"normal"`),
	}
	order := capturedTestOrder(t, req)
	order.Lines[0].BrandName = "Acme"

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	doc, err := service.Receipt(context.Background(), order.ID)

	require.NoError(t, err)
	assert.False(t, doc.HasSection(attribute.KeyPriority))
}

func TestExportService_Receipt_UrgentPriorityRendered(t *testing.T) {
	orderRepo := new(MockPosOrderRepository)
	brandRepo := new(MockBrandRepository)
	service := newExportServiceForTest(orderRepo, brandRepo)

	req := captureRequest(t, uuid.New(), uuid.New(), uuid.New())
	req.Attributes = map[string]json.RawMessage{
		"priority": json.RawMessage(`"urgent"`),
	}
	order := capturedTestOrder(t, req)
	order.Lines[0].BrandName = "Acme"

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	doc, err := service.Receipt(context.Background(), order.ID)

	require.NoError(t, err)
	section, ok := doc.SectionByKey(attribute.KeyPriority)
	require.True(t, ok)
	assert.Equal(t, "urgent", section.Value)
}
