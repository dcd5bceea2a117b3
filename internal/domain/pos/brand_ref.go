// Package pos holds the terminal-resident half of the add-on: the
// session-scoped catalog store, the draft order aggregate, and the
// envelopes an order serializes into for capture and printing.
package pos

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// BrandRef is the canonical shape of a product's brand reference. The wire
// carries it either as a bare id (catalog loads) or as a denormalized
// (id, name) pair (export payloads and print snapshots); both forms
// normalize to this type so resolvers never have to guess the shape.
// The zero BrandRef means the product has no brand
type BrandRef struct {
	id    uuid.UUID
	name  string
	named bool
	set   bool
}

// BrandRefFromID creates an unnamed reference from a bare id
func BrandRefFromID(id uuid.UUID) BrandRef {
	return BrandRef{id: id, set: true}
}

// BrandRefFromPair creates a named reference from a denormalized pair
func BrandRefFromPair(id uuid.UUID, name string) BrandRef {
	return BrandRef{id: id, name: name, named: true, set: true}
}

// ID returns the referenced brand id; ok is false for the zero BrandRef
func (r BrandRef) ID() (uuid.UUID, bool) {
	return r.id, r.set
}

// Name returns the display name; ok is false until the reference has been
// resolved or arrived as a pair
func (r BrandRef) Name() (string, bool) {
	if !r.named {
		return "", false
	}
	return r.name, true
}

// IsZero reports whether the product carries no brand at all
func (r BrandRef) IsZero() bool {
	return !r.set
}

// Named reports whether the display name is known
func (r BrandRef) Named() bool {
	return r.named
}

// WithName returns a named copy of the reference
func (r BrandRef) WithName(name string) BrandRef {
	if !r.set {
		return r
	}
	return BrandRef{id: r.id, name: name, named: true, set: true}
}

// Equal reports whether two references point at the same brand with the
// same resolution state
func (r BrandRef) Equal(other BrandRef) bool {
	return r.set == other.set && r.id == other.id && r.named == other.named && r.name == other.name
}

type brandRefJSON struct {
	ID   uuid.UUID `json:"id"`
	Name *string   `json:"name,omitempty"`
}

// MarshalJSON emits null for no brand, {"id"} for an unnamed reference,
// and {"id","name"} for a resolved pair
func (r BrandRef) MarshalJSON() ([]byte, error) {
	if !r.set {
		return []byte("null"), nil
	}
	out := brandRefJSON{ID: r.id}
	if r.named {
		name := r.name
		out.Name = &name
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts every wire shape the reference appears in:
// null, a bare id string, or an {"id","name"} object
func (r *BrandRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = BrandRef{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid brand reference id: %w", err)
		}
		*r = BrandRefFromID(id)
		return nil
	}
	var obj brandRefJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid brand reference: %w", err)
	}
	if obj.Name != nil {
		*r = BrandRefFromPair(obj.ID, *obj.Name)
	} else {
		*r = BrandRefFromID(obj.ID)
	}
	return nil
}
