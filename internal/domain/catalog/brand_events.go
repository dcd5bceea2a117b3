package catalog

import (
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeBrand = "Brand"

// Event type constants
const (
	EventTypeBrandCreated       = "BrandCreated"
	EventTypeBrandUpdated       = "BrandUpdated"
	EventTypeBrandStatusChanged = "BrandStatusChanged"
	EventTypeBrandDeleted       = "BrandDeleted"
)

// BrandCreatedEvent is published when a new brand is created
type BrandCreatedEvent struct {
	shared.BaseDomainEvent
	BrandID uuid.UUID `json:"brand_id"`
	Name    string    `json:"name"`
}

// NewBrandCreatedEvent creates a new BrandCreatedEvent
func NewBrandCreatedEvent(brand *Brand) *BrandCreatedEvent {
	return &BrandCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBrandCreated, AggregateTypeBrand, brand.ID),
		BrandID:         brand.ID,
		Name:            brand.Name,
	}
}

// BrandUpdatedEvent is published when a brand's display information changes
type BrandUpdatedEvent struct {
	shared.BaseDomainEvent
	BrandID     uuid.UUID `json:"brand_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
}

// NewBrandUpdatedEvent creates a new BrandUpdatedEvent
func NewBrandUpdatedEvent(brand *Brand) *BrandUpdatedEvent {
	return &BrandUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBrandUpdated, AggregateTypeBrand, brand.ID),
		BrandID:         brand.ID,
		Name:            brand.Name,
		Description:     brand.Description,
		LogoURL:         brand.LogoURL,
	}
}

// BrandStatusChangedEvent is published when a brand's status changes
type BrandStatusChangedEvent struct {
	shared.BaseDomainEvent
	BrandID   uuid.UUID   `json:"brand_id"`
	Name      string      `json:"name"`
	OldStatus BrandStatus `json:"old_status"`
	NewStatus BrandStatus `json:"new_status"`
}

// NewBrandStatusChangedEvent creates a new BrandStatusChangedEvent
func NewBrandStatusChangedEvent(brand *Brand, oldStatus, newStatus BrandStatus) *BrandStatusChangedEvent {
	return &BrandStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBrandStatusChanged, AggregateTypeBrand, brand.ID),
		BrandID:         brand.ID,
		Name:            brand.Name,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// BrandDeletedEvent is published when a brand is deleted
type BrandDeletedEvent struct {
	shared.BaseDomainEvent
	BrandID uuid.UUID `json:"brand_id"`
	Name    string    `json:"name"`
}

// NewBrandDeletedEvent creates a new BrandDeletedEvent
func NewBrandDeletedEvent(brand *Brand) *BrandDeletedEvent {
	return &BrandDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBrandDeleted, AggregateTypeBrand, brand.ID),
		BrandID:         brand.ID,
		Name:            brand.Name,
	}
}
