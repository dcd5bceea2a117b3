package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/catalog"
)

// CreateBrandRequest represents a request to create a new brand
type CreateBrandRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=120"`
	Description string `json:"description" binding:"max=2000"`
	LogoURL     string `json:"logo_url" binding:"max=500"`
}

// UpdateBrandRequest represents a request to update a brand
type UpdateBrandRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=120"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	LogoURL     *string `json:"logo_url" binding:"omitempty,max=500"`
}

// BrandResponse represents a brand in API responses
type BrandResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LogoURL     string    `json:"logo_url"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// BrandListFilter represents filter options for brand list
type BrandListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToBrandResponse converts a domain Brand to BrandResponse
func ToBrandResponse(b *catalog.Brand) BrandResponse {
	return BrandResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		LogoURL:     b.LogoURL,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		Version:     b.Version,
	}
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code         string           `json:"code" binding:"required,min=1,max=50"`
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	Barcode      string           `json:"barcode" binding:"max=50"`
	BrandID      *uuid.UUID       `json:"brand_id"`
	Unit         string           `json:"unit" binding:"max=20"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	Grade        string           `json:"grade" binding:"max=20"`
	Featured     bool             `json:"featured"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Barcode      *string          `json:"barcode" binding:"omitempty,max=50"`
	BrandID      *uuid.UUID       `json:"brand_id"`
	ClearBrand   bool             `json:"clear_brand"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	Grade        *string          `json:"grade" binding:"omitempty,max=20"`
	Featured     *bool            `json:"featured"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Barcode      string          `json:"barcode"`
	BrandID      *uuid.UUID      `json:"brand_id"`
	Unit         string          `json:"unit"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Grade        string          `json:"grade"`
	Featured     bool            `json:"featured"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=active inactive"`
	BrandID  *uuid.UUID `form:"brand_id"`
	Featured *bool      `form:"featured"`
	Page     int        `form:"page" binding:"min=0"`
	PageSize int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Barcode:      p.Barcode,
		BrandID:      p.BrandID,
		Unit:         p.Unit,
		SellingPrice: p.SellingPrice,
		Grade:        p.Grade,
		Featured:     p.Featured,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// BulkLoadRequest is a session bulk-load request as received over the
// wire. A terminal asks for one entity kind with a domain filter and an
// explicit field projection
type BulkLoadRequest struct {
	EntityKind   string                 `json:"entity_kind" binding:"required"`
	DomainFilter []BulkLoadFilterClause `json:"domain_filter" binding:"omitempty,dive"`
	Fields       []string               `json:"fields" binding:"required,min=1"`
}

// BulkLoadFilterClause is one clause of a bulk-load domain filter
type BulkLoadFilterClause struct {
	Field    string `json:"field" binding:"required"`
	Operator string `json:"operator" binding:"required,oneof== != in"`
	Value    any    `json:"value"`
}

// BulkLoadResponse carries the flat records for one bulk-load request
type BulkLoadResponse struct {
	EntityKind string               `json:"entity_kind"`
	Records    []catalog.FlatRecord `json:"records"`
	Count      int                  `json:"count"`
}

// ToLoadParams converts the wire request into domain load params
func (r BulkLoadRequest) ToLoadParams() catalog.LoadParams {
	clauses := make([]catalog.FilterClause, len(r.DomainFilter))
	for i, clause := range r.DomainFilter {
		clauses[i] = catalog.FilterClause{
			Field:    clause.Field,
			Operator: clause.Operator,
			Value:    clause.Value,
		}
	}
	return catalog.LoadParams{
		Kind:   attribute.EntityKind(r.EntityKind),
		Filter: clauses,
		Fields: r.Fields,
	}
}
