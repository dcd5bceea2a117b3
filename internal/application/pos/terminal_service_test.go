package pos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/pos"
	"github.com/retailpos/backend/internal/domain/printing"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// MockCatalogFetcher is a mock implementation of pos.CatalogFetcher
type MockCatalogFetcher struct {
	mock.Mock
}

func (m *MockCatalogFetcher) Fetch(ctx context.Context, params catalog.LoadParams) ([]catalog.FlatRecord, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.FlatRecord), args.Error(1)
}

// MockOrderSubmitter is a mock implementation of pos.OrderSubmitter
type MockOrderSubmitter struct {
	mock.Mock
}

func (m *MockOrderSubmitter) Submit(ctx context.Context, envelope pos.CaptureEnvelope) error {
	args := m.Called(ctx, envelope)
	return args.Error(0)
}

// MockRenderer is a mock implementation of printing.Renderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, doc *printing.RenderDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRenderer) Close() error {
	args := m.Called()
	return args.Error(0)
}

// ============================================
// Test helpers
// ============================================

var testBrandID = uuid.MustParse("0bc5e627-6017-4b9c-bd3d-0c1b42c4f51a")

func brandRecords() []catalog.FlatRecord {
	return []catalog.FlatRecord{
		{"id": testBrandID.String(), "name": "Acme", "status": "active"},
	}
}

func productRecords() []catalog.FlatRecord {
	return []catalog.FlatRecord{
		{
			"id":        uuid.NewString(),
			"name":      "Espresso Beans 1kg",
			"unit":      "each",
			"price":     9.5,
			"brand_ref": testBrandID.String(),
			"code":      "SKU-001",
			"status":    "active",
		},
	}
}

func kindParams(kind attribute.EntityKind) interface{} {
	return mock.MatchedBy(func(p catalog.LoadParams) bool {
		return p.Kind == kind
	})
}

func stubWorkingFetcher(fetcher *MockCatalogFetcher) {
	fetcher.On("Fetch", mock.Anything, kindParams(attribute.KindBrand)).Return(brandRecords(), nil)
	fetcher.On("Fetch", mock.Anything, kindParams(attribute.KindProduct)).Return(productRecords(), nil)
}

func newTerminalServiceForTest(fetcher *MockCatalogFetcher, submitter *MockOrderSubmitter) *TerminalService {
	config := DefaultTerminalServiceConfig()
	config.BootstrapBackoff = time.Millisecond
	config.SubmitBackoff = time.Millisecond
	registry := attribute.DefaultRegistry()
	return NewTerminalService(registry, fetcher, submitter, printing.NewFormatter(registry), config, zap.NewNop())
}

func testProduct(name string, price float64) pos.ProductRecord {
	attrs := attribute.NewSet()
	attrs.Put(attribute.KeyCode, attribute.String("SKU-001"))
	return pos.ProductRecord{
		ID:         uuid.New(),
		Name:       name,
		Unit:       valueobject.UnitEach,
		Price:      valueobject.NewMoneyUSDFromFloat(price),
		Brand:      pos.BrandRefFromID(testBrandID),
		Attributes: attrs,
	}
}

func testQuantity(t *testing.T, value int64) valueobject.Quantity {
	quantity, err := valueobject.NewQuantityFromInt(value, valueobject.UnitEach)
	require.NoError(t, err)
	return quantity
}

// startedSession bootstraps a READY session with an open order holding
// one line
func startedSession(t *testing.T, service *TerminalService) (*pos.Session, *pos.Order) {
	session, err := service.StartSession(context.Background(), uuid.New(), "alice")
	require.NoError(t, err)

	order, err := session.OpenOrder()
	require.NoError(t, err)
	_, err = order.AddLine(testProduct("Espresso Beans 1kg", 9.5), testQuantity(t, 2), "")
	require.NoError(t, err)
	return session, order
}

// ============================================
// StartSession Tests
// ============================================

func TestTerminalService_StartSession_BootstrapsCatalog(t *testing.T) {
	fetcher := new(MockCatalogFetcher)
	submitter := new(MockOrderSubmitter)
	service := newTerminalServiceForTest(fetcher, submitter)
	stubWorkingFetcher(fetcher)

	session, err := service.StartSession(context.Background(), uuid.New(), "alice")

	require.NoError(t, err)
	assert.True(t, session.Ready())
	name, ok := session.Store().BrandName(testBrandID)
	require.True(t, ok)
	assert.Equal(t, "Acme", name)
	fetcher.AssertExpectations(t)
}

func TestTerminalService_StartSession_RetriesTransientFetchFailure(t *testing.T) {
	fetcher := new(MockCatalogFetcher)
	submitter := new(MockOrderSubmitter)
	service := newTerminalServiceForTest(fetcher, submitter)

	fetcher.On("Fetch", mock.Anything, kindParams(attribute.KindBrand)).
		Return(nil, errors.New("connection refused")).Once()
	fetcher.On("Fetch", mock.Anything, kindParams(attribute.KindBrand)).Return(brandRecords(), nil)
	fetcher.On("Fetch", mock.Anything, kindParams(attribute.KindProduct)).Return(productRecords(), nil)

	session, err := service.StartSession(context.Background(), uuid.New(), "alice")

	require.NoError(t, err)
	assert.True(t, session.Ready())
	fetcher.AssertExpectations(t)
}

func TestTerminalService_StartSession_GivesUpAfterMaxAttempts(t *testing.T) {
	fetcher := new(MockCatalogFetcher)
	submitter := new(MockOrderSubmitter)
	service := newTerminalServiceForTest(fetcher, submitter)

	fetchErr := errors.New("connection refused")
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(nil, fetchErr)

	session, err := service.StartSession(context.Background(), uuid.New(), "alice")

	assert.Nil(t, session)
	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)
	assert.Contains(t, err.Error(), "after 3 attempts")
	fetcher.AssertNumberOfCalls(t, "Fetch", 3)
}

func TestTerminalService_StartSession_CancelledContextStopsRetrying(t *testing.T) {
	fetcher := new(MockCatalogFetcher)
	submitter := new(MockOrderSubmitter)
	service := newTerminalServiceForTest(fetcher, submitter)

	ctx, cancel := context.WithCancel(context.Background())
	fetcher.On("Fetch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { cancel() }).
		Return(nil, errors.New("connection refused"))

	session, err := service.StartSession(ctx, uuid.New(), "alice")

	assert.Nil(t, session)
	assert.ErrorIs(t, err, context.Canceled)
	fetcher.AssertNumberOfCalls(t, "Fetch", 1)
}

// ============================================
// SubmitOrder Tests
// ============================================

func TestTerminalService_SubmitOrder_DeliversEnvelope(t *testing.T) {
	fetcher := new(MockCatalogFetcher)
	submitter := new(MockOrderSubmitter)
	service := newTerminalServiceForTest(fetcher, submitter)
	stubWorkingFetcher(fetcher)

	session, order := startedSession(t, service)

	var captured pos.CaptureEnvelope
	submitter.On("Submit", mock.Anything, mock.AnythingOfType("pos.CaptureEnvelope")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(pos.CaptureEnvelope) }).
		Return(nil)

	err := service.SubmitOrder(context.Background(), session, order)

	require.NoError(t, err)
	assert.True(t, order.IsCaptured())
	assert.Equal(t, order.ID, captured.OrderUID)
	assert.Equal(t, session.ID, captured.SessionID)
	require.Len(t, captured.Lines, 1)
	assert.Equal(t, "Espresso Beans 1kg", captured.Lines[0].ProductName)
}

func TestTerminalService_SubmitOrder_RetriesTransientFailure(t *testing.T) {
	fetcher := new(MockCatalogFetcher)
	submitter := new(MockOrderSubmitter)
	service := newTerminalServiceForTest(fetcher, submitter)
	stubWorkingFetcher(fetcher)

	session, order := startedSession(t, service)

	var uids []uuid.UUID
	collect := func(args mock.Arguments) { uids = append(uids, args.Get(1).(pos.CaptureEnvelope).OrderUID) }
	submitter.On("Submit", mock.Anything, mock.AnythingOfType("pos.CaptureEnvelope")).
		Run(collect).Return(errors.New("connection reset")).Once()
	submitter.On("Submit", mock.Anything, mock.AnythingOfType("pos.CaptureEnvelope")).
		Run(collect).Return(nil)

	err := service.SubmitOrder(context.Background(), session, order)

	require.NoError(t, err)
	assert.True(t, order.IsCaptured())
	require.Len(t, uids, 2)
	assert.Equal(t, uids[0], uids[1])
}

func TestTerminalService_SubmitOrder_ExhaustedRetriesLeaveOrderLocked(t *testing.T) {
	fetcher := new(MockCatalogFetcher)
	submitter := new(MockOrderSubmitter)
	service := newTerminalServiceForTest(fetcher, submitter)
	stubWorkingFetcher(fetcher)

	session, order := startedSession(t, service)

	var uids []uuid.UUID
	collect := func(args mock.Arguments) { uids = append(uids, args.Get(1).(pos.CaptureEnvelope).OrderUID) }
	submitErr := errors.New("connection reset")
	submitter.On("Submit", mock.Anything, mock.AnythingOfType("pos.CaptureEnvelope")).
		Run(collect).Return(submitErr).Times(3)
	submitter.On("Submit", mock.Anything, mock.AnythingOfType("pos.CaptureEnvelope")).
		Run(collect).Return(nil)

	err := service.SubmitOrder(context.Background(), session, order)

	require.Error(t, err)
	assert.ErrorIs(t, err, submitErr)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.True(t, order.IsLocked())
	assert.False(t, order.IsCaptured())

	// The order stayed locked, so a later call resubmits the same
	// envelope once the backend is reachable again
	err = service.SubmitOrder(context.Background(), session, order)

	require.NoError(t, err)
	assert.True(t, order.IsCaptured())
	require.Len(t, uids, 4)
	for _, uid := range uids[1:] {
		assert.Equal(t, uids[0], uid)
	}
}

func TestTerminalService_SubmitOrder_DomainRejectionNotRetried(t *testing.T) {
	fetcher := new(MockCatalogFetcher)
	submitter := new(MockOrderSubmitter)
	service := newTerminalServiceForTest(fetcher, submitter)
	stubWorkingFetcher(fetcher)

	session, order := startedSession(t, service)
	submitter.On("Submit", mock.Anything, mock.AnythingOfType("pos.CaptureEnvelope")).Return(nil)
	require.NoError(t, service.SubmitOrder(context.Background(), session, order))

	err := service.SubmitOrder(context.Background(), session, order)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	submitter.AssertNumberOfCalls(t, "Submit", 1)
}

func TestTerminalService_SubmitOrder_CancelledContextStopsRetrying(t *testing.T) {
	fetcher := new(MockCatalogFetcher)
	submitter := new(MockOrderSubmitter)
	service := newTerminalServiceForTest(fetcher, submitter)
	stubWorkingFetcher(fetcher)

	session, order := startedSession(t, service)

	ctx, cancel := context.WithCancel(context.Background())
	submitter.On("Submit", mock.Anything, mock.AnythingOfType("pos.CaptureEnvelope")).
		Run(func(args mock.Arguments) { cancel() }).
		Return(errors.New("connection reset"))

	err := service.SubmitOrder(ctx, session, order)

	assert.ErrorIs(t, err, context.Canceled)
	submitter.AssertNumberOfCalls(t, "Submit", 1)
}

func TestTerminalService_SubmitOrder_NilSessionRejected(t *testing.T) {
	service := newTerminalServiceForTest(new(MockCatalogFetcher), new(MockOrderSubmitter))

	err := service.SubmitOrder(context.Background(), nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Session is required")
}

// ============================================
// Receipt Tests
// ============================================

func TestTerminalService_LiveReceipt_RendersResolvedBrand(t *testing.T) {
	fetcher := new(MockCatalogFetcher)
	submitter := new(MockOrderSubmitter)
	service := newTerminalServiceForTest(fetcher, submitter)
	stubWorkingFetcher(fetcher)

	session, order := startedSession(t, service)

	doc, err := service.LiveReceipt(session, order)

	require.NoError(t, err)
	assert.False(t, doc.Reprint)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "Acme", doc.Lines[0].Brand)
	assert.Equal(t, "19.00", doc.Total)
}

func TestTerminalService_PrintReceipt_MarksCapturedOrderReprintSource(t *testing.T) {
	fetcher := new(MockCatalogFetcher)
	submitter := new(MockOrderSubmitter)
	service := newTerminalServiceForTest(fetcher, submitter)
	stubWorkingFetcher(fetcher)

	session, order := startedSession(t, service)
	submitter.On("Submit", mock.Anything, mock.AnythingOfType("pos.CaptureEnvelope")).Return(nil)
	require.NoError(t, service.SubmitOrder(context.Background(), session, order))

	renderer := new(MockRenderer)
	renderer.On("Render", mock.Anything, mock.AnythingOfType("*printing.RenderDocument")).Return(nil)

	err := service.PrintReceipt(context.Background(), session, order, renderer)

	require.NoError(t, err)
	assert.Equal(t, pos.OrderStatusReprintSource, order.Status)
	renderer.AssertExpectations(t)
}

func TestTerminalService_PrintReceipt_RenderFailureKeepsOrderCaptured(t *testing.T) {
	fetcher := new(MockCatalogFetcher)
	submitter := new(MockOrderSubmitter)
	service := newTerminalServiceForTest(fetcher, submitter)
	stubWorkingFetcher(fetcher)

	session, order := startedSession(t, service)
	submitter.On("Submit", mock.Anything, mock.AnythingOfType("pos.CaptureEnvelope")).Return(nil)
	require.NoError(t, service.SubmitOrder(context.Background(), session, order))

	renderer := new(MockRenderer)
	renderErr := printing.NewRenderError(printing.ErrCodeDeviceOffline, "printer offline", nil)
	renderer.On("Render", mock.Anything, mock.AnythingOfType("*printing.RenderDocument")).Return(renderErr)

	err := service.PrintReceipt(context.Background(), session, order, renderer)

	require.Error(t, err)
	assert.ErrorIs(t, err, renderErr)
	assert.Equal(t, pos.OrderStatusCaptured, order.Status)
}
