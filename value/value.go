// Package value defines the raw tree produced by sources and consumed by
// decoding containers, and the tree produced by encoding containers.
//
// A tree is built from nil, bool, Go integers, floats, string, []any,
// *Object and map[string]any. Readers in this module produce int64 for
// integral numbers and float64 for everything else.
package value

import (
	"math"
	"sort"
)

// Kind classifies a raw value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Sequence
	Mapping
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	}
	return "invalid"
}

// KindOf reports the kind of a raw value. Values outside the tree vocabulary
// report Invalid.
func KindOf(v any) Kind {
	switch t := v.(type) {
	case nil:
		return Null
	case bool:
		return Bool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Int
	case float32, float64:
		return Float
	case string:
		return String
	case []any:
		return Sequence
	case *Object:
		if t == nil {
			return Null
		}
		return Mapping
	case map[string]any:
		return Mapping
	}
	return Invalid
}

// AsInt64 converts any Go integer to int64. Unsigned values above
// math.MaxInt64 are rejected.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

// AsFloat64 converts float32 and float64 values.
func AsFloat64(v any) (float64, bool) {
	switch f := v.(type) {
	case float32:
		return float64(f), true
	case float64:
		return f, true
	}
	return 0, false
}

// Fields returns the keys and values of a mapping in iteration order.
// *Object keeps insertion order; map[string]any is visited in sorted key
// order so that results are deterministic.
func Fields(v any) ([]string, []any, bool) {
	switch m := v.(type) {
	case *Object:
		if m == nil {
			return nil, nil, false
		}
		vals := make([]any, len(m.keys))
		for i, k := range m.keys {
			vals[i] = m.values[k]
		}
		return m.Keys(), vals, true
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		vals := make([]any, len(keys))
		for i, k := range keys {
			vals[i] = m[k]
		}
		return keys, vals, true
	}
	return nil, nil, false
}

// Field looks up a property of a mapping.
func Field(v any, name string) (any, bool) {
	switch m := v.(type) {
	case *Object:
		return m.Get(name)
	case map[string]any:
		x, ok := m[name]
		return x, ok
	}
	return nil, false
}

// Equal compares two trees structurally. Integers compare by value
// regardless of their Go type, as do floats. A *Object and a map[string]any
// with the same entries are equal; key order is not significant.
func Equal(a, b any) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case Null:
		return true
	case Bool:
		return a.(bool) == b.(bool)
	case Int:
		x, okx := AsInt64(a)
		y, oky := AsInt64(b)
		if !okx || !oky {
			return a == b
		}
		return x == y
	case Float:
		x, _ := AsFloat64(a)
		y, _ := AsFloat64(b)
		return x == y
	case String:
		return a.(string) == b.(string)
	case Sequence:
		sa, sb := a.([]any), b.([]any)
		if len(sa) != len(sb) {
			return false
		}
		for i := range sa {
			if !Equal(sa[i], sb[i]) {
				return false
			}
		}
		return true
	case Mapping:
		keys, vals, _ := Fields(a)
		bkeys, _, _ := Fields(b)
		if len(keys) != len(bkeys) {
			return false
		}
		for i, k := range keys {
			bv, ok := Field(b, k)
			if !ok || !Equal(vals[i], bv) {
				return false
			}
		}
		return true
	}
	return false
}
