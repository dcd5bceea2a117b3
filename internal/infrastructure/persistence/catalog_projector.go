package persistence

import (
	"context"
	"fmt"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// Wire-level load field names to database columns, per entity kind.
// The load vocabulary is stable toward clients; column names are not
var brandLoadColumns = map[string]string{
	"name":        "name",
	"description": "description",
	"logo":        "logo_url",
	"status":      "status",
}

var productLoadColumns = map[string]string{
	"code":     "code",
	"barcode":  "barcode",
	"name":     "name",
	"brand_id": "brand_id",
	"unit":     "unit",
	"price":    "selling_price",
	"grade":    "grade",
	"featured": "featured",
	"status":   "status",
}

// GormCatalogProjector executes bulk-load requests against the catalog
// tables. Each response row carries exactly the requested fields plus id
type GormCatalogProjector struct {
	db *gorm.DB
}

// NewGormCatalogProjector creates a new GormCatalogProjector
func NewGormCatalogProjector(db *gorm.DB) *GormCatalogProjector {
	return &GormCatalogProjector{db: db}
}

// LoadRecords validates the request and projects matching rows into flat
// records. Field names are translated to columns on the way in and back
// to the wire vocabulary on the way out
func (p *GormCatalogProjector) LoadRecords(ctx context.Context, params catalog.LoadParams) ([]catalog.FlatRecord, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	switch params.Kind {
	case attribute.KindBrand:
		return p.loadBrands(ctx, params)
	case attribute.KindProduct:
		return p.loadProducts(ctx, params)
	default:
		return nil, fmt.Errorf("entity kind %q is not bulk-loadable", params.Kind)
	}
}

func (p *GormCatalogProjector) loadBrands(ctx context.Context, params catalog.LoadParams) ([]catalog.FlatRecord, error) {
	query := p.db.WithContext(ctx).Model(&catalog.Brand{})
	query = applyLoadFilter(query, params.Filter, brandLoadColumns)
	query = query.Select(projectedColumns(params.Fields, brandLoadColumns)).Order("name ASC")

	var brands []catalog.Brand
	if err := query.Find(&brands).Error; err != nil {
		return nil, err
	}

	records := make([]catalog.FlatRecord, 0, len(brands))
	for i := range brands {
		records = append(records, brandRecord(&brands[i], params.Fields))
	}
	return records, nil
}

func (p *GormCatalogProjector) loadProducts(ctx context.Context, params catalog.LoadParams) ([]catalog.FlatRecord, error) {
	query := p.db.WithContext(ctx).Model(&catalog.Product{})
	query = applyLoadFilter(query, params.Filter, productLoadColumns)
	query = query.Select(projectedColumns(params.Fields, productLoadColumns)).Order("name ASC")

	var products []catalog.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}

	records := make([]catalog.FlatRecord, 0, len(products))
	for i := range products {
		records = append(records, productRecord(&products[i], params.Fields))
	}
	return records, nil
}

// applyLoadFilter translates domain filter clauses into WHERE conditions.
// Fields and operators were whitelisted by Validate before this runs
func applyLoadFilter(query *gorm.DB, clauses []catalog.FilterClause, columns map[string]string) *gorm.DB {
	for _, clause := range clauses {
		column, ok := columns[clause.Field]
		if !ok {
			continue
		}
		switch clause.Operator {
		case catalog.OpEq:
			query = query.Where(column+" = ?", clause.Value)
		case catalog.OpNeq:
			query = query.Where(column+" <> ?", clause.Value)
		case catalog.OpIn:
			query = query.Where(column+" IN ?", clause.Value)
		}
	}
	return query
}

// projectedColumns returns the SELECT list for a field projection. The id
// column is always first; unselected entity fields scan as zero values
// and are never copied into the response
func projectedColumns(fields []string, columns map[string]string) []string {
	cols := make([]string, 0, len(fields)+1)
	cols = append(cols, "id")
	for _, field := range fields {
		if field == "id" {
			continue
		}
		if col, ok := columns[field]; ok {
			cols = append(cols, col)
		}
	}
	return cols
}

func brandRecord(b *catalog.Brand, fields []string) catalog.FlatRecord {
	rec := catalog.FlatRecord{"id": b.ID.String()}
	for _, field := range fields {
		switch field {
		case "name":
			rec["name"] = b.Name
		case "description":
			rec["description"] = b.Description
		case "logo":
			rec["logo"] = b.LogoURL
		case "status":
			rec["status"] = string(b.Status)
		}
	}
	return rec
}

func productRecord(p *catalog.Product, fields []string) catalog.FlatRecord {
	rec := catalog.FlatRecord{"id": p.ID.String()}
	for _, field := range fields {
		switch field {
		case "code":
			rec["code"] = p.Code
		case "barcode":
			rec["barcode"] = p.Barcode
		case "name":
			rec["name"] = p.Name
		case "brand_id":
			// Products without a brand omit the key entirely
			if p.BrandID != nil {
				rec["brand_id"] = p.BrandID.String()
			}
		case "unit":
			rec["unit"] = p.Unit
		case "price":
			rec["price"] = p.SellingPrice.String()
		case "grade":
			rec["grade"] = p.Grade
		case "featured":
			rec["featured"] = p.Featured
		case "status":
			rec["status"] = string(p.Status)
		}
	}
	return rec
}

// Ensure GormCatalogProjector implements Projector
var _ catalog.Projector = (*GormCatalogProjector)(nil)
