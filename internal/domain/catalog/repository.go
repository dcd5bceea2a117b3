package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// BrandRepository defines the interface for brand persistence
type BrandRepository interface {
	// FindByID finds a brand by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)

	// FindByName finds a brand by its exact name
	FindByName(ctx context.Context, name string) (*Brand, error)

	// FindAll finds all brands matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Brand, error)

	// Save creates or updates a brand
	Save(ctx context.Context, brand *Brand) error

	// Delete deletes a brand
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts brands matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByName checks if a brand with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its code
	FindByCode(ctx context.Context, code string) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByBrand finds all products referencing a brand
	FindByBrand(ctx context.Context, brandID uuid.UUID, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a product with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// Projector executes a bulk-load request against durable storage, returning
// flat records that carry exactly the requested fields plus id. This is the
// fetch half of the catalog loader; LoadParamsFor defines the request half
type Projector interface {
	LoadRecords(ctx context.Context, params LoadParams) ([]FlatRecord, error)
}
