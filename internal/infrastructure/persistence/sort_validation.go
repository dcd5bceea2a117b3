package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// BrandSortFields contains allowed sort fields for brands
var BrandSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"status":     true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"barcode":       true,
	"name":          true,
	"brand_id":      true,
	"unit":          true,
	"selling_price": true,
	"grade":         true,
	"featured":      true,
	"status":        true,
}

// PosSessionSortFields contains allowed sort fields for POS sessions
var PosSessionSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"terminal":   true,
	"cashier":    true,
	"status":     true,
	"opened_at":  true,
	"closed_at":  true,
}

// PosOrderSortFields contains allowed sort fields for captured POS orders
var PosOrderSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"client_order_uid":    true,
	"session_id":          true,
	"cashier":             true,
	"placed_at":           true,
	"captured_at":         true,
	"total":               true,
	"custom_order_number": true,
	"priority":            true,
	"delivery_date":       true,
}
