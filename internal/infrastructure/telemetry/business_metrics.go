// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the POS backend.
// It tracks order capture, session lifecycle, and catalog load activity.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	orderCapturedTotal *Counter
	orderAmountTotal   *Counter
	sessionOpenedTotal *Counter
	catalogLoadTotal   *Counter

	// Gauge metrics (point-in-time values)
	openSessionCount   *Gauge
	catalogEntityCount *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	posProvider PosMetricsProvider
}

// PosMetricsProvider provides POS data for periodic metrics collection.
// This interface allows the telemetry layer to query session and catalog
// state without depending on the domain packages directly.
type PosMetricsProvider interface {
	// GetOpenSessionCount returns the number of currently open POS sessions
	GetOpenSessionCount(ctx context.Context) (int64, error)

	// GetActiveEntityCounts returns the number of active catalog entities per kind
	// (e.g., {"brand": 12, "product": 340})
	GetActiveEntityCounts(ctx context.Context) (map[string]int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	PosProvider     PosMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:       cfg.Meter,
		logger:      logger,
		stopChan:    make(chan struct{}),
		posProvider: cfg.PosProvider,
	}

	// Initialize counter metrics
	var err error

	// Order metrics
	bm.orderCapturedTotal, err = NewCounter(
		cfg.Meter,
		"pos_order_captured_total",
		"Total number of POS orders captured",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"pos_order_amount_total",
		"Total captured order amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Session metrics
	bm.sessionOpenedTotal, err = NewCounter(
		cfg.Meter,
		"pos_session_opened_total",
		"Total number of POS sessions opened",
		"{sessions}",
	)
	if err != nil {
		return nil, err
	}

	// Catalog metrics
	bm.catalogLoadTotal, err = NewCounter(
		cfg.Meter,
		"pos_catalog_load_total",
		"Total number of bulk catalog load requests",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	// Gauge metrics
	bm.openSessionCount, err = NewGauge(
		cfg.Meter,
		"pos_session_open_count",
		"Number of currently open POS sessions",
		"{sessions}",
	)
	if err != nil {
		return nil, err
	}

	bm.catalogEntityCount, err = NewGauge(
		cfg.Meter,
		"pos_catalog_entity_count",
		"Number of active catalog entities by kind",
		"{entities}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Order Metrics
// =============================================================================

// RecordOrderCaptured records an order capture event.
// This should be called from the application layer when an order is captured.
func (bm *BusinessMetrics) RecordOrderCaptured(ctx context.Context, priority string) {
	bm.orderCapturedTotal.Inc(ctx,
		AttrPriority.String(priority),
	)
}

// RecordOrderAmount records the captured order amount.
// Amount should be in the smallest currency unit (cents).
func (bm *BusinessMetrics) RecordOrderAmount(ctx context.Context, priority string, amountCents int64) {
	bm.orderAmountTotal.Add(ctx, amountCents,
		AttrPriority.String(priority),
	)
}

// RecordOrderWithAmount is a convenience method that records both order count and amount.
func (bm *BusinessMetrics) RecordOrderWithAmount(ctx context.Context, priority string, amount decimal.Decimal) {
	bm.RecordOrderCaptured(ctx, priority)

	// Convert to cents (multiply by 100)
	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordOrderAmount(ctx, priority, amountCents)
}

// =============================================================================
// Session Metrics
// =============================================================================

// RecordSessionOpened records a session open event.
func (bm *BusinessMetrics) RecordSessionOpened(ctx context.Context, terminal string) {
	bm.sessionOpenedTotal.Inc(ctx,
		AttrTerminalID.String(terminal),
	)
}

// =============================================================================
// Catalog Metrics
// =============================================================================

// CacheResult represents the cache outcome of a catalog load for metrics labeling.
type CacheResult string

const (
	CacheResultHit  CacheResult = "hit"
	CacheResultMiss CacheResult = "miss"
)

// RecordCatalogLoad records a bulk catalog load request.
// This should be called when a load request is served, labeled with the
// entity kind and whether the payload cache answered it.
func (bm *BusinessMetrics) RecordCatalogLoad(ctx context.Context, kind string, result CacheResult) {
	bm.catalogLoadTotal.Inc(ctx,
		AttrEntityKind.String(kind),
		AttrCacheResult.String(string(result)),
	)
}

// RecordOpenSessionCount records the current number of open sessions.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOpenSessionCount(ctx context.Context, count int64) {
	bm.openSessionCount.Record(ctx, count)
}

// RecordActiveEntityCount records the number of active catalog entities for a kind.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordActiveEntityCount(ctx context.Context, kind string, count int64) {
	bm.catalogEntityCount.Record(ctx, count,
		AttrEntityKind.String(kind),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects session and catalog metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectPosMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectPosMetrics(ctx)
		}
	}
}

// collectPosMetrics collects session and catalog gauge metrics.
func (bm *BusinessMetrics) collectPosMetrics(ctx context.Context) {
	if bm.posProvider == nil {
		bm.logger.Debug("No POS provider configured, skipping gauge metrics collection")
		return
	}

	// Collect open session count
	openSessions, err := bm.posProvider.GetOpenSessionCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get open session count", zap.Error(err))
	} else {
		bm.RecordOpenSessionCount(ctx, openSessions)
	}

	// Collect active entity counts per kind
	entityCounts, err := bm.posProvider.GetActiveEntityCounts(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get active entity counts", zap.Error(err))
	} else {
		for kind, count := range entityCounts {
			bm.RecordActiveEntityCount(ctx, kind, count)
		}
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
