package catalog

import (
	"strings"
	"time"

	"github.com/retailpos/backend/internal/domain/shared"
)

// BrandStatus represents the status of a brand
type BrandStatus string

const (
	BrandStatusActive   BrandStatus = "active"
	BrandStatusInactive BrandStatus = "inactive"
)

// Brand is a reference-data catalog entity. POS sessions load brands
// read-only at start; products point at a brand through BrandID
type Brand struct {
	shared.BaseAggregateRoot
	Name        string      `gorm:"type:varchar(120);not null;uniqueIndex:idx_brand_name"`
	Description string      `gorm:"type:text"`
	LogoURL     string      `gorm:"type:varchar(500)"`
	Status      BrandStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates a new brand
func NewBrand(name, description, logoURL string) (*Brand, error) {
	if err := validateBrandName(name); err != nil {
		return nil, err
	}
	if err := validateLogoURL(logoURL); err != nil {
		return nil, err
	}

	brand := &Brand{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Description:       description,
		LogoURL:           logoURL,
		Status:            BrandStatusActive,
	}

	brand.AddDomainEvent(NewBrandCreatedEvent(brand))

	return brand, nil
}

// Update updates the brand's display information
func (b *Brand) Update(name, description string) error {
	if err := validateBrandName(name); err != nil {
		return err
	}

	b.Name = strings.TrimSpace(name)
	b.Description = description
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBrandUpdatedEvent(b))

	return nil
}

// SetLogo sets the brand logo URL
func (b *Brand) SetLogo(logoURL string) error {
	if err := validateLogoURL(logoURL); err != nil {
		return err
	}

	b.LogoURL = logoURL
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBrandUpdatedEvent(b))

	return nil
}

// Activate activates the brand
func (b *Brand) Activate() error {
	if b.Status == BrandStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Brand is already active")
	}

	oldStatus := b.Status
	b.Status = BrandStatusActive
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBrandStatusChangedEvent(b, oldStatus, BrandStatusActive))

	return nil
}

// Deactivate deactivates the brand
// Deactivated brands are excluded from session catalog loads; orders already
// holding the brand id keep printing through their per-line snapshot
func (b *Brand) Deactivate() error {
	if b.Status == BrandStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Brand is already inactive")
	}

	oldStatus := b.Status
	b.Status = BrandStatusInactive
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBrandStatusChangedEvent(b, oldStatus, BrandStatusInactive))

	return nil
}

// IsActive returns true if the brand is active
func (b *Brand) IsActive() bool {
	return b.Status == BrandStatusActive
}

// validateBrandName validates the brand name
func validateBrandName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_NAME", "Brand name cannot be empty")
	}
	if len(trimmed) > 120 {
		return shared.NewDomainError("INVALID_NAME", "Brand name cannot exceed 120 characters")
	}
	return nil
}

// validateLogoURL validates the logo URL
func validateLogoURL(logoURL string) error {
	if len(logoURL) > 500 {
		return shared.NewDomainError("INVALID_LOGO", "Logo URL cannot exceed 500 characters")
	}
	return nil
}
