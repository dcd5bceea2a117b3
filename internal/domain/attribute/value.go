// Package attribute declares the custom attributes the POS add-on threads
// through catalog sync, order capture, and receipt formatting. The registry
// in this package is the single source of truth for which keys exist; every
// pipeline stage iterates it instead of carrying its own key list.
package attribute

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ValueKind identifies the scalar shape of an attribute value
type ValueKind string

const (
	ValueString ValueKind = "string"
	ValueBool   ValueKind = "bool"
	ValueDate   ValueKind = "date"
	ValueRef    ValueKind = "ref"
)

// Value is an immutable sum type over the scalar shapes an attribute can
// take. Date and ref values have an explicit null state; strings and bools
// do not (their empty forms are "" and false).
type Value struct {
	kind ValueKind
	str  string
	flag bool
	date *time.Time
	ref  *uuid.UUID
}

// String creates a string value
func String(s string) Value {
	return Value{kind: ValueString, str: s}
}

// Bool creates a boolean value
func Bool(b bool) Value {
	return Value{kind: ValueBool, flag: b}
}

// Date creates a date value
func Date(t time.Time) Value {
	u := t.UTC()
	return Value{kind: ValueDate, date: &u}
}

// NullDate creates a date value in its null state
func NullDate() Value {
	return Value{kind: ValueDate}
}

// Ref creates a reference value pointing at a catalog entity
func Ref(id uuid.UUID) Value {
	return Value{kind: ValueRef, ref: &id}
}

// NullRef creates a reference value in its null state
func NullRef() Value {
	return Value{kind: ValueRef}
}

// Kind returns the scalar shape of the value
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsZero reports whether the value is the uninitialized zero Value
func (v Value) IsZero() bool {
	return v.kind == ""
}

// IsNull reports whether a date or ref value is in its null state
// String and bool values are never null
func (v Value) IsNull() bool {
	switch v.kind {
	case ValueDate:
		return v.date == nil
	case ValueRef:
		return v.ref == nil
	default:
		return false
	}
}

// StringVal returns the string payload; ok is false for other kinds
func (v Value) StringVal() (string, bool) {
	if v.kind != ValueString {
		return "", false
	}
	return v.str, true
}

// BoolVal returns the bool payload; ok is false for other kinds
func (v Value) BoolVal() (bool, bool) {
	if v.kind != ValueBool {
		return false, false
	}
	return v.flag, true
}

// DateVal returns the date payload; ok is false for other kinds or null dates
func (v Value) DateVal() (time.Time, bool) {
	if v.kind != ValueDate || v.date == nil {
		return time.Time{}, false
	}
	return *v.date, true
}

// RefVal returns the reference payload; ok is false for other kinds or null refs
func (v Value) RefVal() (uuid.UUID, bool) {
	if v.kind != ValueRef || v.ref == nil {
		return uuid.Nil, false
	}
	return *v.ref, true
}

// Equal reports whether two values share kind and payload
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueString:
		return v.str == other.str
	case ValueBool:
		return v.flag == other.flag
	case ValueDate:
		if v.date == nil || other.date == nil {
			return v.date == nil && other.date == nil
		}
		return v.date.Equal(*other.date)
	case ValueRef:
		if v.ref == nil || other.ref == nil {
			return v.ref == nil && other.ref == nil
		}
		return *v.ref == *other.ref
	default:
		return true
	}
}

// String returns a plain technical rendering of the payload
// Null dates and refs render as the empty string
func (v Value) String() string {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueBool:
		return strconv.FormatBool(v.flag)
	case ValueDate:
		if v.date == nil {
			return ""
		}
		return v.date.Format(time.RFC3339)
	case ValueRef:
		if v.ref == nil {
			return ""
		}
		return v.ref.String()
	default:
		return ""
	}
}

// MarshalJSON emits the scalar-or-null wire form
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueString:
		return json.Marshal(v.str)
	case ValueBool:
		return json.Marshal(v.flag)
	case ValueDate:
		if v.date == nil {
			return []byte("null"), nil
		}
		return json.Marshal(v.date.Format(time.RFC3339))
	case ValueRef:
		if v.ref == nil {
			return []byte("null"), nil
		}
		return json.Marshal(v.ref.String())
	default:
		return []byte("null"), nil
	}
}

// DecodeJSON decodes a raw scalar into a Value of the declared kind.
// Null decodes to the kind's empty form (empty string, false, null date,
// null ref), so the decode is total over well-formed payloads
func DecodeJSON(kind ValueKind, data json.RawMessage) (Value, error) {
	if len(data) == 0 || string(data) == "null" {
		switch kind {
		case ValueString:
			return String(""), nil
		case ValueBool:
			return Bool(false), nil
		case ValueDate:
			return NullDate(), nil
		case ValueRef:
			return NullRef(), nil
		default:
			return Value{}, fmt.Errorf("unknown value kind %q", kind)
		}
	}

	switch kind {
	case ValueString:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return Value{}, fmt.Errorf("invalid string value: %w", err)
		}
		return String(s), nil
	case ValueBool:
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return Value{}, fmt.Errorf("invalid bool value: %w", err)
		}
		return Bool(b), nil
	case ValueDate:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return Value{}, fmt.Errorf("invalid date value: %w", err)
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return Value{}, fmt.Errorf("invalid date value: %w", err)
		}
		return Date(t), nil
	case ValueRef:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return Value{}, fmt.Errorf("invalid ref value: %w", err)
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return Value{}, fmt.Errorf("invalid ref value: %w", err)
		}
		return Ref(id), nil
	default:
		return Value{}, fmt.Errorf("unknown value kind %q", kind)
	}
}
