package codable

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/reoring/codable/value"
)

// Decodable is implemented (on the pointer receiver) by types that decode
// themselves from a container.
type Decodable interface {
	DecodeCodable(c *DecodingContainer) error
}

var (
	anyType       = reflect.TypeFor[any]()
	timeType      = reflect.TypeFor[time.Time]()
	objectType    = reflect.TypeFor[*value.Object]()
	mapAnyType    = reflect.TypeFor[map[string]any]()
	decodableType = reflect.TypeFor[Decodable]()
)

// DecodeValue decodes the node as t. A nil t (or the empty interface)
// returns the raw value: scalars as-is with integers widened to int64 and
// floats to float64, sequences as []any and mappings unchanged.
func (c *DecodingContainer) DecodeValue(t reflect.Type) (any, error) {
	if err := c.ValidateExists(); err != nil {
		return nil, err
	}
	if t == nil || t == anyType {
		return c.decodeRaw()
	}
	rv, err := c.decodeReflect(t, reflect.Value{})
	if err != nil {
		return nil, err
	}
	return rv.Interface(), nil
}

func (c *DecodingContainer) DecodeValueIfExists(t reflect.Type) (any, error) {
	return deref(ifExists(c, func() (any, error) { return c.DecodeValue(t) }))
}

func (c *DecodingContainer) DecodeValueIfPresent(t reflect.Type) (any, error) {
	return deref(ifPresent(c, func() (any, error) { return c.DecodeValue(t) }))
}

func deref(p *any, err error) (any, error) {
	if p == nil {
		return nil, err
	}
	return *p, err
}

func (c *DecodingContainer) decodeRaw() (any, error) {
	switch value.KindOf(c.raw) {
	case value.Null:
		return nil, nil
	case value.Bool, value.String:
		return c.raw, nil
	case value.Int:
		return c.DecodeInt()
	case value.Float:
		return c.DecodeFloat()
	case value.Sequence:
		arr, err := c.DecodeArray(nil)
		if err != nil {
			return nil, err
		}
		return arr.Values, nil
	case value.Mapping:
		return c.DecodeObject(nil, nil)
	}
	return nil, c.typeMismatch("value")
}

// DecodeObject decodes the node as t, optionally filling into (a *t, or a
// t when t is itself a pointer). The first applicable rule wins:
//
//  1. enum types decode through DecodeEnum;
//  2. the node must exist and be non-null, and be a mapping under Strict;
//  3. a delegate registered for t;
//  4. t implementing Decodable;
//  5. a non-mapping node is a type mismatch;
//  6. a nil t returns the raw mapping unchanged;
//  7. dynamic maps receive a copy of every property and structs are
//     decoded property by property.
func (c *DecodingContainer) DecodeObject(t reflect.Type, into any, opts ...Option) (any, error) {
	if isEnumType(t) {
		return c.DecodeEnum(t)
	}
	if err := c.ValidateExistsAndPresent(); err != nil {
		return nil, err
	}
	if collectOptions(opts).isStrict(false) && value.KindOf(c.raw) != value.Mapping {
		return nil, c.typeMismatch("mapping")
	}
	if v, ok, err := c.decodeWithDecoder(t, into); ok {
		return v, err
	}
	if value.KindOf(c.raw) != value.Mapping {
		return nil, c.typeMismatch("mapping")
	}
	if t == nil {
		return c.raw, nil
	}
	return c.decodeMapping(t, into)
}

func (c *DecodingContainer) DecodeObjectIfExists(t reflect.Type, into any, opts ...Option) (any, error) {
	return deref(ifExists(c, func() (any, error) { return c.DecodeObject(t, into, opts...) }))
}

func (c *DecodingContainer) DecodeObjectIfPresent(t reflect.Type, into any, opts ...Option) (any, error) {
	return deref(ifPresent(c, func() (any, error) { return c.DecodeObject(t, into, opts...) }))
}

// DecodeEnum decodes the node as the enum type t. Backed enums match the
// raw string or integer against each case's backing value; plain enums
// match the raw string against case names. No match is an invalid value.
func (c *DecodingContainer) DecodeEnum(t reflect.Type) (any, error) {
	if err := c.ValidateExistsAndPresent(); err != nil {
		return nil, err
	}
	if v, ok, err := c.decodeWithDecoder(t, nil); ok {
		return v, err
	}
	if !isEnumType(t) {
		return nil, invalidValue(c.Path(), c.raw, t, errors.New("not an enum type"))
	}
	cases := enumCases(t)
	if !t.Implements(backedEnumType) {
		name, err := c.DecodeString()
		if err != nil {
			return nil, err
		}
		for _, e := range cases {
			if e.CaseName() == name {
				return e, nil
			}
		}
		return nil, invalidValue(c.Path(), c.raw, t, nil)
	}
	var want any
	switch backingKind(cases) {
	case value.String:
		s, err := c.DecodeString()
		if err != nil {
			return nil, err
		}
		want = s
	case value.Int:
		n, err := c.DecodeInt()
		if err != nil {
			return nil, err
		}
		want = n
	default:
		return nil, invalidValue(c.Path(), c.raw, t, errors.New("enum has no string or int backing value"))
	}
	for _, e := range cases {
		if b, ok := backingOf(e); ok && b == want {
			return e, nil
		}
	}
	return nil, invalidValue(c.Path(), c.raw, t, nil)
}

func (c *DecodingContainer) DecodeEnumIfExists(t reflect.Type) (any, error) {
	return deref(ifExists(c, func() (any, error) { return c.DecodeEnum(t) }))
}

func (c *DecodingContainer) DecodeEnumIfPresent(t reflect.Type) (any, error) {
	return deref(ifPresent(c, func() (any, error) { return c.DecodeEnum(t) }))
}

// decodeWithDecoder runs a registered delegate or the type's own Decodable
// implementation. ok is false when neither applies.
func (c *DecodingContainer) decodeWithDecoder(t reflect.Type, into any) (v any, ok bool, err error) {
	if t == nil {
		return nil, false, nil
	}
	if d, found := c.ctx.decodeDelegate(t); found {
		c.ctx.Logger().Debug("decode via delegate", "type", t.String(), "path", c.Path().String())
		v, err := d.Decode(t, c, into)
		if err != nil {
			return nil, true, err
		}
		if v != nil && !reflect.TypeOf(v).AssignableTo(t) {
			return nil, true, &Error{Code: CodeValueTypeMismatch, Path: c.Path(), Actual: reflect.TypeOf(v).String(), Expected: t.String()}
		}
		return v, true, nil
	}
	ptr := intoPointer(t, into)
	switch {
	case t.Kind() == reflect.Pointer && t.Implements(decodableType):
		inst := reflect.New(t.Elem())
		if ptr.IsValid() && !ptr.Elem().IsNil() {
			inst = ptr.Elem()
		}
		c.ctx.Logger().Debug("decode via Decodable", "type", t.String(), "path", c.Path().String())
		err := inst.Interface().(Decodable).DecodeCodable(c)
		return inst.Interface(), true, err
	case t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(decodableType):
		if !ptr.IsValid() {
			ptr = reflect.New(t)
		}
		c.ctx.Logger().Debug("decode via Decodable", "type", t.String(), "path", c.Path().String())
		err := ptr.Interface().(Decodable).DecodeCodable(c)
		return ptr.Elem().Interface(), true, err
	}
	return nil, false, nil
}

func (c *DecodingContainer) hasDecoder(t reflect.Type) bool {
	if _, ok := c.ctx.decodeDelegate(t); ok {
		return true
	}
	return t.Implements(decodableType) || reflect.PointerTo(t).Implements(decodableType)
}

// intoPointer returns into as a non-nil *t, or an invalid Value when into
// cannot receive a t.
func intoPointer(t reflect.Type, into any) reflect.Value {
	if into == nil {
		return reflect.Value{}
	}
	rv := reflect.ValueOf(into)
	switch {
	case rv.Type() == reflect.PointerTo(t):
		if rv.IsNil() {
			return reflect.Value{}
		}
		return rv
	case t.Kind() == reflect.Pointer && rv.Type() == t:
		if rv.IsNil() {
			return reflect.Value{}
		}
		p := reflect.New(t)
		p.Elem().Set(rv)
		return p
	}
	return reflect.Value{}
}

func (c *DecodingContainer) decodeMapping(t reflect.Type, into any) (any, error) {
	ptr := intoPointer(t, into)
	keys, vals, _ := value.Fields(c.raw)
	switch {
	case t == objectType:
		obj := value.NewObject(len(keys))
		if ptr.IsValid() && !ptr.Elem().IsNil() {
			obj = ptr.Elem().Interface().(*value.Object)
		}
		for i, k := range keys {
			obj.Set(k, vals[i])
		}
		return obj, nil
	case t == mapAnyType:
		m := make(map[string]any, len(keys))
		if ptr.IsValid() && !ptr.Elem().IsNil() {
			m = ptr.Elem().Interface().(map[string]any)
		}
		for i, k := range keys {
			m[k] = vals[i]
		}
		return m, nil
	case t.Kind() == reflect.Struct:
		if !ptr.IsValid() {
			ptr = reflect.New(t)
		}
		if err := c.decodeProperties(ptr.Elem()); err != nil {
			return nil, err
		}
		return ptr.Elem().Interface(), nil
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		inst := reflect.New(t.Elem())
		if ptr.IsValid() && !ptr.Elem().IsNil() {
			inst = ptr.Elem()
		}
		if err := c.decodeProperties(inst.Elem()); err != nil {
			return nil, err
		}
		return inst.Interface(), nil
	}
	return nil, c.typeMismatch(t.String())
}

// decodeReflect decodes the node into a new value of type t. into, when
// valid, is a non-nil *t whose current value is updated in place where the
// target kind supports it.
func (c *DecodingContainer) decodeReflect(t reflect.Type, into reflect.Value) (reflect.Value, error) {
	if t.Kind() == reflect.Interface && t.NumMethod() == 0 && !c.hasDecoder(t) {
		v, err := c.decodeRaw()
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		if v != nil {
			out.Set(reflect.ValueOf(v))
		}
		return out, nil
	}
	if isEnumType(t) || c.hasDecoder(t) || t == objectType || t == mapAnyType {
		var existing any
		if into.IsValid() {
			existing = into.Interface()
		}
		v, err := c.DecodeObject(t, existing)
		if err != nil {
			return reflect.Value{}, err
		}
		return c.asType(t, v)
	}
	if t == timeType {
		tm, err := c.DecodeDateTime()
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(tm), nil
	}

	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		s, err := c.DecodeString()
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetString(s)
	case reflect.Bool:
		b, err := c.DecodeBool()
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := c.DecodeInt()
		if err != nil {
			return reflect.Value{}, err
		}
		if out.OverflowInt(n) {
			return reflect.Value{}, invalidValue(c.Path(), c.raw, t, errors.New("out of range"))
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := c.DecodeInt()
		if err != nil {
			return reflect.Value{}, err
		}
		if n < 0 || out.OverflowUint(uint64(n)) {
			return reflect.Value{}, invalidValue(c.Path(), c.raw, t, errors.New("out of range"))
		}
		out.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		f, err := c.decodeFloatTarget()
		if err != nil {
			return reflect.Value{}, err
		}
		if out.OverflowFloat(f) {
			return reflect.Value{}, invalidValue(c.Path(), c.raw, t, errors.New("out of range"))
		}
		out.SetFloat(f)
	case reflect.Pointer:
		var elemInto reflect.Value
		if into.IsValid() && !into.Elem().IsNil() {
			elemInto = into.Elem()
		}
		ev, err := c.decodeReflect(t.Elem(), elemInto)
		if err != nil {
			return reflect.Value{}, err
		}
		p := elemInto
		if !p.IsValid() {
			p = reflect.New(t.Elem())
		}
		p.Elem().Set(ev)
		out.Set(p)
	case reflect.Slice:
		arr, err := c.decodeReflectItems(t.Elem(), KeyKindAny)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Set(reflect.MakeSlice(t, len(arr.Values), len(arr.Values)))
		for i, v := range arr.Values {
			out.Index(i).Set(v)
		}
	case reflect.Array:
		arr, err := c.decodeReflectItems(t.Elem(), KeyKindAny)
		if err != nil {
			return reflect.Value{}, err
		}
		if len(arr.Values) != t.Len() {
			return reflect.Value{}, invalidValue(c.Path(), c.raw, t, fmt.Errorf("want %d elements, got %d", t.Len(), len(arr.Values)))
		}
		for i, v := range arr.Values {
			out.Index(i).Set(v)
		}
	case reflect.Map:
		return c.decodeMap(t, into)
	case reflect.Struct:
		var existing any
		if into.IsValid() {
			existing = into.Interface()
		}
		v, err := c.DecodeObject(t, existing)
		if err != nil {
			return reflect.Value{}, err
		}
		return c.asType(t, v)
	default:
		if err := c.ValidateExistsAndPresent(); err != nil {
			return reflect.Value{}, err
		}
		return reflect.Value{}, c.typeMismatch(t.String())
	}
	return out, nil
}

func (c *DecodingContainer) decodeReflectItems(elem reflect.Type, k KeyKind) (Array[reflect.Value], error) {
	return DecodeArrayWith(c, func(ic *DecodingContainer) (reflect.Value, error) {
		return ic.decodeReflect(elem, reflect.Value{})
	}, WithKeyKind(k))
}

// decodeMap fills a Go map. String-keyed maps need string keys and
// integer-keyed maps need sequence indices.
func (c *DecodingContainer) decodeMap(t reflect.Type, into reflect.Value) (reflect.Value, error) {
	var kk KeyKind
	switch t.Key().Kind() {
	case reflect.String:
		kk = KeyKindString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		kk = KeyKindInt
	default:
		if err := c.ValidateExistsAndPresent(); err != nil {
			return reflect.Value{}, err
		}
		return reflect.Value{}, c.typeMismatch(t.String())
	}
	arr, err := c.decodeReflectItems(t.Elem(), kk)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.MakeMapWithSize(t, len(arr.Values))
	if into.IsValid() && !into.Elem().IsNil() {
		out = into.Elem()
	}
	for i, k := range arr.Keys {
		kv := reflect.New(t.Key()).Elem()
		if kk == KeyKindString {
			kv.SetString(k.name)
		} else if kv.CanInt() {
			if kv.OverflowInt(int64(k.index)) {
				return reflect.Value{}, invalidValue(c.Path(), c.raw, t, fmt.Errorf("key %d out of range", k.index))
			}
			kv.SetInt(int64(k.index))
		} else {
			if kv.OverflowUint(uint64(k.index)) {
				return reflect.Value{}, invalidValue(c.Path(), c.raw, t, fmt.Errorf("key %d out of range", k.index))
			}
			kv.SetUint(uint64(k.index))
		}
		out.SetMapIndex(kv, arr.Values[i])
	}
	return out, nil
}

func (c *DecodingContainer) asType(t reflect.Type, v any) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	if v == nil {
		return out, nil
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, &Error{Code: CodeValueTypeMismatch, Path: c.Path(), Actual: rv.Type().String(), Expected: t.String()}
	}
	out.Set(rv)
	return out, nil
}

// decodeFloatTarget reads a Go float target; integer raw values are
// widened. DecodeFloat itself stays kind-strict.
func (c *DecodingContainer) decodeFloatTarget() (float64, error) {
	if value.KindOf(c.raw) == value.Int {
		if n, ok := value.AsInt64(c.raw); ok {
			return float64(n), nil
		}
	}
	return c.DecodeFloat()
}
