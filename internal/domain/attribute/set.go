package attribute

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Set is an ordered key to Value collection with explicit presence. A key
// absent from the Set is the sparse-patch signal: the capture bridge leaves
// the target untouched for keys a Set does not carry
type Set struct {
	keys   []string
	values map[string]Value
}

// NewSet creates an empty attribute set
func NewSet() Set {
	return Set{values: make(map[string]Value)}
}

// Put stores a value, preserving first-insertion order for existing keys
func (s *Set) Put(key string, v Value) {
	if s.values == nil {
		s.values = make(map[string]Value)
	}
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
}

// Get returns the value for a key and whether the key is present
func (s Set) Get(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether the key is present
func (s Set) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns the keys in insertion order
func (s Set) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of present keys
func (s Set) Len() int {
	return len(s.keys)
}

// Equal reports whether two sets carry the same keys and values
// Insertion order does not participate in equality
func (s Set) Equal(other Set) bool {
	if len(s.keys) != len(other.keys) {
		return false
	}
	for key, v := range s.values {
		ov, ok := other.values[key]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// MarshalJSON emits a JSON object in insertion order
func (s Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := s.values[key].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeSet types a raw JSON attribute object against the registry for an
// entity kind. Known keys decode by their declared kind and keep their
// presence; unknown keys are ignored and reported back, never an error.
// Decoded keys follow the registry's declaration order so downstream
// serialization is deterministic
func DecodeSet(reg *Registry, kind EntityKind, raw map[string]json.RawMessage) (Set, []string, error) {
	set := NewSet()
	var ignored []string

	for key := range raw {
		if _, ok := reg.Lookup(kind, key); !ok {
			ignored = append(ignored, key)
		}
	}
	sort.Strings(ignored)

	for _, spec := range reg.DeclaredAttributes(kind) {
		data, present := raw[spec.Key]
		if !present {
			continue
		}
		v, err := DecodeJSON(spec.Kind, data)
		if err != nil {
			return Set{}, nil, err
		}
		set.Put(spec.Key, v)
	}
	return set, ignored, nil
}
