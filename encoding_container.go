package codable

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/reoring/codable/value"
)

// Encodable is implemented by types that encode themselves into a
// container.
type Encodable interface {
	EncodeCodable(c *EncodingContainer) error
}

var encodableType = reflect.TypeFor[Encodable]()

type shape uint8

const (
	shapeNone shape = iota
	shapeScalar
	shapeMapping
	shapeSequence
)

// EncodingContainer builds one node of an output tree. Child containers are
// created with NestedContainer and attached under their key; a child that
// never receives a value is left out of the result.
type EncodingContainer struct {
	ctx    *EncodingContext
	parent *EncodingContainer
	key    Key

	shape    shape
	scalar   any
	children []*EncodingContainer
	index    map[Key]int
}

// NewEncodingContainer returns an empty root container. A nil ctx gets a
// fresh EncodingContext.
func NewEncodingContainer(ctx *EncodingContext) *EncodingContainer {
	if ctx == nil {
		ctx = NewEncodingContext()
	}
	return &EncodingContainer{ctx: ctx}
}

// Context returns the encoding context of this container.
func (c *EncodingContainer) Context() *EncodingContext { return c.ctx }

// Parent returns the enclosing container, nil at the root.
func (c *EncodingContainer) Parent() *EncodingContainer { return c.parent }

// Root returns the top-most container.
func (c *EncodingContainer) Root() *EncodingContainer {
	r := c
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Key returns the key under which this container was created.
func (c *EncodingContainer) Key() (Key, bool) { return c.key, c.key.IsValid() }

// Path returns the keys from the root to this container.
func (c *EncodingContainer) Path() Path {
	var p Path
	for x := c; x.parent != nil; x = x.parent {
		p = append(p, x.key)
	}
	slices.Reverse(p)
	return p
}

// IsSet reports whether the container holds a value, null included.
func (c *EncodingContainer) IsSet() bool { return c.shape != shapeNone }

func (c *EncodingContainer) reset() {
	c.shape, c.scalar, c.children, c.index = shapeNone, nil, nil, nil
}

func (c *EncodingContainer) become(s shape) {
	switch {
	case c.shape == s:
		return
	case s == shapeScalar || s == shapeNone:
		c.children, c.index = nil, nil
	case c.shape == shapeScalar || c.shape == shapeNone:
		c.scalar, c.children, c.index = nil, nil, map[Key]int{}
	}
	c.shape = s
}

func (c *EncodingContainer) setScalar(v any) {
	c.become(shapeScalar)
	c.scalar = v
}

// NestedContainer returns the child for k, creating it on first use. An
// integer key turns an empty container into a sequence and a string key
// into a mapping; a sequence that receives a string key becomes a mapping.
func (c *EncodingContainer) NestedContainer(k Key) *EncodingContainer {
	switch c.shape {
	case shapeMapping:
	case shapeSequence:
		if k.Kind() == KeyKindString {
			c.shape = shapeMapping
		}
	default:
		if k.Kind() == KeyKindInt {
			c.become(shapeSequence)
		} else {
			c.become(shapeMapping)
		}
	}
	if i, ok := c.index[k]; ok {
		return c.children[i]
	}
	child := &EncodingContainer{ctx: c.ctx, parent: c, key: k}
	c.index[k] = len(c.children)
	c.children = append(c.children, child)
	return child
}

// Field is NestedContainer(StringKey(name)).
func (c *EncodingContainer) Field(name string) *EncodingContainer {
	return c.NestedContainer(StringKey(name))
}

// Index is NestedContainer(IndexKey(i)).
func (c *EncodingContainer) Index(i int) *EncodingContainer {
	return c.NestedContainer(IndexKey(i))
}

func (c *EncodingContainer) EncodeString(s string) { c.setScalar(s) }

func (c *EncodingContainer) EncodeInt(n int64) { c.setScalar(n) }

func (c *EncodingContainer) EncodeFloat(f float64) { c.setScalar(f) }

func (c *EncodingContainer) EncodeBool(b bool) { c.setScalar(b) }

func (c *EncodingContainer) EncodeNull() { c.setScalar(nil) }

// EncodeDateTime writes t formatted with the layout from WithFormat or the
// context, in the zone from WithLocation or the context. A nil t is null.
func (c *EncodingContainer) EncodeDateTime(t *time.Time, opts ...Option) error {
	if t == nil {
		c.EncodeNull()
		return nil
	}
	o := collectOptions(opts)
	layout := o.format
	if layout == "" {
		layout = c.ctx.DateTimeFormat()
	}
	loc := o.location
	if loc == nil {
		loc = c.ctx.Location()
	}
	c.setScalar(formatDateTime(*t, layout, loc))
	return nil
}

// Encode writes v. A delegate registered for v's type wins, then v's own
// Encodable implementation, then the built-in rules: enums by backing
// value or case name, time.Time as a formatted string, slices and arrays
// as sequences, maps as mappings, structs property by property.
func (c *EncodingContainer) Encode(v any) error {
	if v == nil {
		c.EncodeNull()
		return nil
	}
	rv := reflect.ValueOf(v)
	t := rv.Type()
	if d, ok := c.ctx.encodeDelegate(t); ok {
		c.ctx.Logger().Debug("encode via delegate", "type", t.String(), "path", c.Path().String())
		return d.Encode(t, c, v)
	}
	if e, ok := asEncodable(rv); ok {
		c.ctx.Logger().Debug("encode via Encodable", "type", t.String(), "path", c.Path().String())
		return e.EncodeCodable(c)
	}
	return c.encodeBuiltin(rv)
}

func asEncodable(rv reflect.Value) (Encodable, bool) {
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, false
	}
	if e, ok := rv.Interface().(Encodable); ok {
		return e, true
	}
	if rv.Kind() != reflect.Pointer && reflect.PointerTo(rv.Type()).Implements(encodableType) {
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		return p.Interface().(Encodable), true
	}
	return nil, false
}

func (c *EncodingContainer) encodeBuiltin(rv reflect.Value) error {
	t := rv.Type()
	if rv.Kind() != reflect.Pointer && rv.Kind() != reflect.Interface {
		if e, ok := rv.Interface().(Enum); ok {
			if b, ok := backingOf(e); ok {
				c.setScalar(b)
			} else {
				c.setScalar(e.CaseName())
			}
			return nil
		}
	}
	switch t {
	case timeType:
		tm := rv.Interface().(time.Time)
		return c.EncodeDateTime(&tm)
	case objectType:
		obj := rv.Interface().(*value.Object)
		if obj == nil {
			c.EncodeNull()
			return nil
		}
		c.reset()
		c.become(shapeMapping)
		for k, x := range obj.All() {
			if err := c.NestedContainer(StringKey(k)).Encode(x); err != nil {
				return err
			}
		}
		return nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		c.setScalar(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		c.setScalar(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return encodingFailure(c.Path(), t, errors.New("value overflows int64"))
		}
		c.setScalar(int64(u))
	case reflect.Float32, reflect.Float64:
		c.setScalar(rv.Float())
	case reflect.String:
		c.setScalar(rv.String())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			c.EncodeNull()
			return nil
		}
		return c.Encode(rv.Elem().Interface())
	case reflect.Slice, reflect.Array, reflect.Map:
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map) && rv.IsNil() {
			c.EncodeNull()
			return nil
		}
		return c.encodeItems(rv)
	case reflect.Struct:
		return c.encodeProperties(rv)
	default:
		return encodingFailure(c.Path(), t, fmt.Errorf("unsupported kind %s", rv.Kind()))
	}
	return nil
}

// EncodeArray writes a slice or array as a sequence and a map as a
// mapping with keys in sorted order.
func (c *EncodingContainer) EncodeArray(v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return c.encodeItems(rv)
	}
	return encodingFailure(c.Path(), reflect.TypeOf(v), errors.New("not a slice, array or map"))
}

// EncodeObject writes the exported fields of a struct (or pointer to
// struct) as a mapping.
func (c *EncodingContainer) EncodeObject(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return encodingFailure(c.Path(), reflect.TypeOf(v), errors.New("not a struct"))
	}
	return c.encodeProperties(rv)
}

func (c *EncodingContainer) encodeItems(rv reflect.Value) error {
	c.reset()
	if rv.Kind() != reflect.Map {
		c.become(shapeSequence)
		for i := 0; i < rv.Len(); i++ {
			if err := c.NestedContainer(IndexKey(i)).Encode(rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	}
	c.become(shapeMapping)
	for _, mk := range sortedMapKeys(rv) {
		if err := c.NestedContainer(StringKey(mk.name)).Encode(rv.MapIndex(mk.key).Interface()); err != nil {
			return err
		}
	}
	return nil
}

type mapKey struct {
	key   reflect.Value
	name  string
	num   int64
	isInt bool
}

// sortedMapKeys orders integer keys numerically and everything else by
// string form.
func sortedMapKeys(rv reflect.Value) []mapKey {
	keys := make([]mapKey, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		mk := mapKey{key: k}
		switch k.Kind() {
		case reflect.String:
			mk.name = k.String()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			mk.num, mk.isInt = k.Int(), true
			mk.name = strconv.FormatInt(mk.num, 10)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			mk.num, mk.isInt = int64(k.Uint()), true
			mk.name = strconv.FormatUint(k.Uint(), 10)
		default:
			mk.name = fmt.Sprint(k.Interface())
		}
		keys = append(keys, mk)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].isInt && keys[j].isInt {
			return keys[i].num < keys[j].num
		}
		return keys[i].name < keys[j].name
	})
	return keys
}

// Value returns the tree built so far. Mappings are *value.Object unless
// the context asks for map[string]any. A sequence whose keys are not
// exactly 0..n-1 in order is returned as a mapping. Sequence items that
// were never written are null so later items keep their index.
func (c *EncodingContainer) Value() any {
	switch c.shape {
	case shapeScalar:
		return c.scalar
	case shapeSequence:
		if c.dense() {
			out := make([]any, 0, len(c.children))
			for _, ch := range c.children {
				if ch.IsSet() {
					out = append(out, ch.Value())
				} else {
					out = append(out, nil)
				}
			}
			return out
		}
		fallthrough
	case shapeMapping:
		if c.ctx.UseMapsForObjects() {
			m := make(map[string]any, len(c.children))
			for _, ch := range c.children {
				if ch.IsSet() {
					m[ch.key.String()] = ch.Value()
				}
			}
			return m
		}
		obj := value.NewObject(len(c.children))
		for _, ch := range c.children {
			if ch.IsSet() {
				obj.Set(ch.key.String(), ch.Value())
			}
		}
		return obj
	}
	return nil
}

func (c *EncodingContainer) dense() bool {
	for i, ch := range c.children {
		if ch.key != IndexKey(i) {
			return false
		}
	}
	return true
}

// EncodeCodable writes the array back in its original shape.
func (a Array[T]) EncodeCodable(c *EncodingContainer) error {
	c.reset()
	if a.Mapping {
		c.become(shapeMapping)
	} else {
		c.become(shapeSequence)
	}
	for i, k := range a.Keys {
		if err := c.NestedContainer(k).Encode(a.Values[i]); err != nil {
			return err
		}
	}
	return nil
}
