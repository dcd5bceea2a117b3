package attribute

import (
	"fmt"
)

// EntityKind identifies which entity a set of custom attributes belongs to
type EntityKind string

const (
	KindBrand     EntityKind = "brand"
	KindProduct   EntityKind = "product"
	KindOrder     EntityKind = "order"
	KindOrderLine EntityKind = "order_line"
)

// IsValid checks if the entity kind is one of the declared kinds
func (k EntityKind) IsValid() bool {
	switch k {
	case KindBrand, KindProduct, KindOrder, KindOrderLine:
		return true
	}
	return false
}

// String returns the string representation
func (k EntityKind) String() string {
	return string(k)
}

// Registered attribute keys. These constants are the declaration site used
// to seed DefaultRegistry; pipeline stages iterate the registry, never these
const (
	KeyOrderNumber         = "custom_order_number"
	KeyPriority            = "priority"
	KeySpecialInstructions = "special_instructions"
	KeyDeliveryDate        = "delivery_date"

	KeyBrandRef = "brand_ref"
	KeyCode     = "code"
	KeyGrade    = "grade"
	KeyFeatured = "featured"

	KeyDescription = "description"
	KeyLogo        = "logo"

	KeyLineBrandID   = "brand_id"
	KeyLineBrandName = "brand_name"
)

// Priority levels for the order priority attribute
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// IsValidPriority checks if the string is an allowed priority level
func IsValidPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Spec declares one custom attribute: its key, scalar kind, and the default
// every consumer sees when the attribute was never set
type Spec struct {
	Key     string
	Kind    ValueKind
	Default Value
}

// Registry holds the declared attributes per entity kind. It is the single
// source of truth consulted by the order aggregate, the capture bridge, and
// the receipt formatter
type Registry struct {
	specs map[EntityKind][]Spec
	index map[EntityKind]map[string]Spec
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		specs: make(map[EntityKind][]Spec),
		index: make(map[EntityKind]map[string]Spec),
	}
}

// Declare registers attributes for an entity kind, preserving declaration
// order. Re-declaring an existing key is rejected
func (r *Registry) Declare(kind EntityKind, specs ...Spec) error {
	if !kind.IsValid() {
		return fmt.Errorf("cannot declare attributes for unknown entity kind %q", kind)
	}
	idx := r.index[kind]
	if idx == nil {
		idx = make(map[string]Spec)
		r.index[kind] = idx
	}
	for _, spec := range specs {
		if spec.Key == "" {
			return fmt.Errorf("attribute key cannot be empty for kind %q", kind)
		}
		if spec.Default.Kind() != spec.Kind {
			return fmt.Errorf("default for %q has kind %q, declared %q", spec.Key, spec.Default.Kind(), spec.Kind)
		}
		if _, exists := idx[spec.Key]; exists {
			return fmt.Errorf("attribute %q already declared for kind %q", spec.Key, kind)
		}
		idx[spec.Key] = spec
		r.specs[kind] = append(r.specs[kind], spec)
	}
	return nil
}

// DeclaredAttributes returns the ordered attribute specs for an entity kind.
// Unknown kinds yield an empty slice, never an error: absence of custom
// attributes is a valid configuration
func (r *Registry) DeclaredAttributes(kind EntityKind) []Spec {
	specs := r.specs[kind]
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

// Lookup returns the spec for a single key of an entity kind
func (r *Registry) Lookup(kind EntityKind, key string) (Spec, bool) {
	spec, ok := r.index[kind][key]
	return spec, ok
}

// DefaultRegistry returns the registry seeded with the add-on's built-in
// attribute declarations
func DefaultRegistry() *Registry {
	r := NewRegistry()

	// Declarations are infallible here; Declare only rejects duplicates
	// and kind mismatches, both impossible with these literals
	mustDeclare(r, KindOrder,
		Spec{Key: KeyOrderNumber, Kind: ValueString, Default: String("")},
		Spec{Key: KeyPriority, Kind: ValueString, Default: String(PriorityNormal)},
		Spec{Key: KeySpecialInstructions, Kind: ValueString, Default: String("")},
		Spec{Key: KeyDeliveryDate, Kind: ValueDate, Default: NullDate()},
	)
	mustDeclare(r, KindProduct,
		Spec{Key: KeyBrandRef, Kind: ValueRef, Default: NullRef()},
		Spec{Key: KeyCode, Kind: ValueString, Default: String("")},
		Spec{Key: KeyGrade, Kind: ValueString, Default: String("")},
		Spec{Key: KeyFeatured, Kind: ValueBool, Default: Bool(false)},
	)
	mustDeclare(r, KindBrand,
		Spec{Key: KeyDescription, Kind: ValueString, Default: String("")},
		Spec{Key: KeyLogo, Kind: ValueString, Default: String("")},
	)
	mustDeclare(r, KindOrderLine,
		Spec{Key: KeyLineBrandID, Kind: ValueRef, Default: NullRef()},
		Spec{Key: KeyLineBrandName, Kind: ValueString, Default: String("")},
	)

	return r
}

func mustDeclare(r *Registry, kind EntityKind, specs ...Spec) {
	if err := r.Declare(kind, specs...); err != nil {
		panic(err)
	}
}
