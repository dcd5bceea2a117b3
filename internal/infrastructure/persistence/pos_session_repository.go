package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/checkout"
	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPosSessionRepository implements PosSessionRepository using GORM
type GormPosSessionRepository struct {
	db *gorm.DB
}

// NewGormPosSessionRepository creates a new GormPosSessionRepository
func NewGormPosSessionRepository(db *gorm.DB) *GormPosSessionRepository {
	return &GormPosSessionRepository{db: db}
}

// FindByID finds a session by its ID
func (r *GormPosSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.PosSession, error) {
	var session checkout.PosSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// FindOpenByTerminal finds the open session for a terminal, if any
func (r *GormPosSessionRepository) FindOpenByTerminal(ctx context.Context, terminal string) (*checkout.PosSession, error) {
	var session checkout.PosSession
	if err := r.db.WithContext(ctx).
		Where("terminal = ? AND status = ?", strings.TrimSpace(terminal), checkout.SessionStatusOpen).
		Order("opened_at DESC").
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// FindAll finds all sessions matching the filter
func (r *GormPosSessionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]checkout.PosSession, error) {
	var sessions []checkout.PosSession
	query := r.applyFilter(r.db.WithContext(ctx).Model(&checkout.PosSession{}), filter)

	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// Save creates or updates a session
func (r *GormPosSessionRepository) Save(ctx context.Context, session *checkout.PosSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

// Count counts sessions matching the filter
func (r *GormPosSessionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&checkout.PosSession{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPosSessionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering with whitelist validation to prevent SQL injection
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, PosSessionSortFields, "")
		if sortField != "" {
			sortOrder := ValidateSortOrder(filter.OrderDir)
			query = query.Order(sortField + " " + sortOrder)
		} else {
			// Default ordering if invalid field
			query = query.Order("created_at DESC")
		}
	} else {
		// Default ordering
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPosSessionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("terminal ILIKE ? OR cashier ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "terminal":
			query = query.Where("terminal = ?", value)
		case "cashier":
			query = query.Where("cashier = ?", value)
		}
	}

	return query
}

// Ensure GormPosSessionRepository implements PosSessionRepository
var _ checkout.PosSessionRepository = (*GormPosSessionRepository)(nil)
