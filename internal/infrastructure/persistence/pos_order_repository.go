package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/checkout"
	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPosOrderRepository implements PosOrderRepository using GORM
type GormPosOrderRepository struct {
	db *gorm.DB
}

// NewGormPosOrderRepository creates a new GormPosOrderRepository
func NewGormPosOrderRepository(db *gorm.DB) *GormPosOrderRepository {
	return &GormPosOrderRepository{db: db}
}

// FindByID finds a captured order by its ID, lines included
func (r *GormPosOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.PosOrder, error) {
	var order checkout.PosOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByClientUID finds a captured order by the client order uid
func (r *GormPosOrderRepository) FindByClientUID(ctx context.Context, clientUID uuid.UUID) (*checkout.PosOrder, error) {
	var order checkout.PosOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("client_order_uid = ?", clientUID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds all captured orders matching the filter
func (r *GormPosOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]checkout.PosOrder, error) {
	var orders []checkout.PosOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&checkout.PosOrder{}).Preload("Lines"),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindBySession finds all orders captured under a session
func (r *GormPosOrderRepository) FindBySession(ctx context.Context, sessionID uuid.UUID, filter shared.Filter) ([]checkout.PosOrder, error) {
	var orders []checkout.PosOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&checkout.PosOrder{}).Preload("Lines").Where("session_id = ?", sessionID),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a captured order together with its lines.
// Capture retries carry the full line set, so lines absent from the
// aggregate are removed and the rest upserted in one transaction
func (r *GormPosOrderRepository) Save(ctx context.Context, order *checkout.PosOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Save the order
		if err := tx.Omit("Lines").Save(order).Error; err != nil {
			return err
		}

		// Handle lines: delete removed lines and save/update existing ones
		if order.ID != uuid.Nil {
			currentLineIDs := make([]uuid.UUID, len(order.Lines))
			for i, line := range order.Lines {
				currentLineIDs[i] = line.ID
			}

			// Delete lines not in the current list
			if len(currentLineIDs) > 0 {
				if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentLineIDs).
					Delete(&checkout.PosOrderLine{}).Error; err != nil {
					return err
				}
			} else {
				// Delete all lines if no lines remain
				if err := tx.Where("order_id = ?", order.ID).
					Delete(&checkout.PosOrderLine{}).Error; err != nil {
					return err
				}
			}

			// Save/update remaining lines
			for i := range order.Lines {
				order.Lines[i].OrderID = order.ID
				if err := tx.Save(&order.Lines[i]).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// Count counts captured orders matching the filter
func (r *GormPosOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&checkout.PosOrder{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPosOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering with whitelist validation to prevent SQL injection
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, PosOrderSortFields, "")
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
func (r *GormPosOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("custom_order_number ILIKE ? OR cashier ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "session_id":
			query = query.Where("session_id = ?", value)
		case "cashier":
			query = query.Where("cashier = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		case "captured_from":
			query = query.Where("captured_at >= ?", value)
		case "captured_to":
			query = query.Where("captured_at <= ?", value)
		}
	}

	return query
}

// Ensure GormPosOrderRepository implements PosOrderRepository
var _ checkout.PosOrderRepository = (*GormPosOrderRepository)(nil)
