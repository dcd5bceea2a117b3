package catalog

import (
	"fmt"

	"github.com/retailpos/backend/internal/domain/attribute"
)

// Filter operators accepted in bulk-load requests
const (
	OpEq  = "="
	OpNeq = "!="
	OpIn  = "in"
)

// FilterClause is one (field, operator, value) triplet of a bulk-load
// domain filter
type FilterClause struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// LoadParams defines what a session bulk-load fetches for one entity kind:
// a domain filter and an ordered field projection. Projecting only the
// fields the client needs keeps the payload bounded
type LoadParams struct {
	Kind   attribute.EntityKind `json:"entity_kind"`
	Filter []FilterClause       `json:"domain_filter"`
	Fields []string             `json:"fields"`
}

// FlatRecord is one row of a bulk-load response: the requested fields
// plus id
type FlatRecord map[string]any

// loadableFields lists the wire-level field names a client may request
// per entity kind. The id field is always returned and never requested
var loadableFields = map[attribute.EntityKind]map[string]struct{}{
	attribute.KindBrand: {
		"name":        {},
		"description": {},
		"logo":        {},
		"status":      {},
	},
	attribute.KindProduct: {
		"code":     {},
		"barcode":  {},
		"name":     {},
		"brand_id": {},
		"unit":     {},
		"price":    {},
		"grade":    {},
		"featured": {},
		"status":   {},
	},
}

// LoadParamsFor returns the canonical bulk-load request for an entity kind:
// an active-only filter plus the field projection the POS client consumes.
// ok is false for kinds that are not bulk-loaded into sessions
func LoadParamsFor(kind attribute.EntityKind) (LoadParams, bool) {
	switch kind {
	case attribute.KindBrand:
		return LoadParams{
			Kind:   attribute.KindBrand,
			Filter: []FilterClause{{Field: "status", Operator: OpEq, Value: string(BrandStatusActive)}},
			Fields: []string{"name", "description", "logo"},
		}, true
	case attribute.KindProduct:
		return LoadParams{
			Kind:   attribute.KindProduct,
			Filter: []FilterClause{{Field: "status", Operator: OpEq, Value: string(ProductStatusActive)}},
			Fields: []string{"code", "name", "brand_id", "price", "grade", "featured"},
		}, true
	default:
		return LoadParams{}, false
	}
}

// Validate checks a bulk-load request against the loadable field and
// operator whitelists. The projector relies on this before building SQL
func (p LoadParams) Validate() error {
	allowed, ok := loadableFields[p.Kind]
	if !ok {
		return fmt.Errorf("entity kind %q is not bulk-loadable", p.Kind)
	}
	if len(p.Fields) == 0 {
		return fmt.Errorf("field projection cannot be empty")
	}
	for _, field := range p.Fields {
		if field == "id" {
			// id is implicit in every response
			continue
		}
		if _, ok := allowed[field]; !ok {
			return fmt.Errorf("field %q is not loadable for kind %q", field, p.Kind)
		}
	}
	for _, clause := range p.Filter {
		if _, ok := allowed[clause.Field]; !ok {
			return fmt.Errorf("filter field %q is not filterable for kind %q", clause.Field, p.Kind)
		}
		switch clause.Operator {
		case OpEq, OpNeq, OpIn:
		default:
			return fmt.Errorf("unsupported filter operator %q", clause.Operator)
		}
	}
	return nil
}
