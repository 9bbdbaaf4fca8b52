package codable

import (
	"reflect"

	"github.com/reoring/codable/value"
)

// Enum is implemented by types with a closed set of cases. EnumCases must
// work on the zero value and return values of the implementing type.
// Plain enums are matched by CaseName.
type Enum interface {
	EnumCases() []Enum
	CaseName() string
}

// BackedEnum is an Enum whose cases carry a string or integer backing value.
// The backing kind is taken from the first case.
type BackedEnum interface {
	Enum
	BackingValue() any
}

var (
	enumType       = reflect.TypeFor[Enum]()
	backedEnumType = reflect.TypeFor[BackedEnum]()
)

func isEnumType(t reflect.Type) bool {
	return t != nil && t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface && t.Implements(enumType)
}

func enumCases(t reflect.Type) []Enum {
	zero, _ := reflect.Zero(t).Interface().(Enum)
	if zero == nil {
		return nil
	}
	var out []Enum
	for _, c := range zero.EnumCases() {
		if c != nil && reflect.TypeOf(c) == t {
			out = append(out, c)
		}
	}
	return out
}

// backingKind returns value.String or value.Int, or value.Invalid when the
// first case has no usable backing value.
func backingKind(cases []Enum) value.Kind {
	if len(cases) == 0 {
		return value.Invalid
	}
	b, ok := cases[0].(BackedEnum)
	if !ok {
		return value.Invalid
	}
	switch k := value.KindOf(b.BackingValue()); k {
	case value.String, value.Int:
		return k
	}
	return value.Invalid
}

// backingOf normalizes a backing value to string or int64.
func backingOf(e Enum) (any, bool) {
	b, ok := e.(BackedEnum)
	if !ok {
		return nil, false
	}
	v := b.BackingValue()
	if n, ok := value.AsInt64(v); ok {
		return n, true
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return nil, false
}
