package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
)

// BrandService handles brand-related business operations
type BrandService struct {
	brandRepo      catalog.BrandRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewBrandService creates a new BrandService
func NewBrandService(
	brandRepo catalog.BrandRepository,
	productRepo catalog.ProductRepository,
) *BrandService {
	return &BrandService{
		brandRepo:   brandRepo,
		productRepo: productRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *BrandService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new brand
func (s *BrandService) Create(ctx context.Context, req CreateBrandRequest) (*BrandResponse, error) {
	// Check if name already exists
	exists, err := s.brandRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Brand with this name already exists")
	}

	brand, err := catalog.NewBrand(req.Name, req.Description, req.LogoURL)
	if err != nil {
		return nil, err
	}

	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, brand)

	response := ToBrandResponse(brand)
	return &response, nil
}

// GetByID retrieves a brand by ID
func (s *BrandService) GetByID(ctx context.Context, id uuid.UUID) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBrandResponse(brand)
	return &response, nil
}

// List retrieves brands with filtering and pagination
func (s *BrandService) List(ctx context.Context, filter BrandListFilter) ([]BrandResponse, int64, error) {
	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	brands, err := s.brandRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.brandRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BrandResponse, len(brands))
	for i := range brands {
		responses[i] = ToBrandResponse(&brands[i])
	}

	return responses, total, nil
}

// Update updates a brand's display information
func (s *BrandService) Update(ctx context.Context, id uuid.UUID, req UpdateBrandRequest) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Check name uniqueness when it changes
	if req.Name != nil && *req.Name != brand.Name {
		exists, err := s.brandRepo.ExistsByName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Brand with this name already exists")
		}
	}

	name := brand.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := brand.Description
	if req.Description != nil {
		description = *req.Description
	}

	if err := brand.Update(name, description); err != nil {
		return nil, err
	}

	if req.LogoURL != nil {
		if err := brand.SetLogo(*req.LogoURL); err != nil {
			return nil, err
		}
	}

	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, brand)

	response := ToBrandResponse(brand)
	return &response, nil
}

// Activate activates a brand
func (s *BrandService) Activate(ctx context.Context, id uuid.UUID) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := brand.Activate(); err != nil {
		return nil, err
	}

	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, brand)

	response := ToBrandResponse(brand)
	return &response, nil
}

// Deactivate deactivates a brand. Products keep their brand reference;
// already printed orders keep their per-line snapshots
func (s *BrandService) Deactivate(ctx context.Context, id uuid.UUID) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := brand.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, brand)

	response := ToBrandResponse(brand)
	return &response, nil
}

// Delete deletes a brand
func (s *BrandService) Delete(ctx context.Context, id uuid.UUID) error {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// Check if products still reference the brand
	count, err := s.productRepo.Count(ctx, shared.Filter{
		Filters: map[string]interface{}{"brand_id": brand.ID},
	})
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("BRAND_IN_USE", "Cannot delete brand with associated products")
	}

	if err := s.brandRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		event := catalog.NewBrandDeletedEvent(brand)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			// Log error but don't fail the operation - the delete already happened
		}
	}

	return nil
}

// publishEvents publishes the aggregate's pending domain events
func (s *BrandService) publishEvents(ctx context.Context, brand *catalog.Brand) {
	if s.eventPublisher == nil {
		return
	}
	events := brand.GetDomainEvents()
	for _, event := range events {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			// Log error but don't fail the operation - event handling is async
			continue
		}
	}
	brand.ClearDomainEvents()
}
