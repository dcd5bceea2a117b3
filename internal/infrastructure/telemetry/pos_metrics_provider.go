// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormPosMetricsProvider implements PosMetricsProvider using GORM.
// It queries the pos_sessions and catalog tables directly for aggregated counts.
type GormPosMetricsProvider struct {
	db *gorm.DB
}

// NewGormPosMetricsProvider creates a new GormPosMetricsProvider.
func NewGormPosMetricsProvider(db *gorm.DB) *GormPosMetricsProvider {
	return &GormPosMetricsProvider{db: db}
}

// GetOpenSessionCount returns the number of currently open POS sessions.
func (p *GormPosMetricsProvider) GetOpenSessionCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("pos_sessions").
		Where("status = ?", "OPEN").
		Count(&count).Error

	return count, err
}

// GetActiveEntityCounts returns the number of active catalog entities per kind.
// The keys match the entity kind names used by the bulk load endpoint.
func (p *GormPosMetricsProvider) GetActiveEntityCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, 2)

	var brands int64
	if err := p.db.WithContext(ctx).
		Table("brands").
		Where("status = ?", "active").
		Count(&brands).Error; err != nil {
		return nil, err
	}
	counts["brand"] = brands

	var products int64
	if err := p.db.WithContext(ctx).
		Table("products").
		Where("status = ?", "active").
		Count(&products).Error; err != nil {
		return nil, err
	}
	counts["product"] = products

	return counts, nil
}
