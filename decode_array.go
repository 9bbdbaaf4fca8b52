package codable

import (
	"iter"
	"reflect"

	"github.com/reoring/codable/value"
)

// Array is the result of decoding a sequence or mapping item by item.
// Keys and Values are parallel; Mapping records the raw node's shape so that
// a mapping stays a mapping when re-encoded.
type Array[T any] struct {
	Keys    []Key
	Values  []T
	Mapping bool
}

func (a Array[T]) Len() int { return len(a.Values) }

func (a Array[T]) Get(k Key) (T, bool) {
	for i, x := range a.Keys {
		if x == k {
			return a.Values[i], true
		}
	}
	var zero T
	return zero, false
}

// All iterates items in source order.
func (a Array[T]) All() iter.Seq2[Key, T] {
	return func(yield func(Key, T) bool) {
		for i, k := range a.Keys {
			if !yield(k, a.Values[i]) {
				return
			}
		}
	}
}

// Map returns the items keyed by Key.String().
func (a Array[T]) Map() map[string]T {
	m := make(map[string]T, len(a.Keys))
	for i, k := range a.Keys {
		m[k.String()] = a.Values[i]
	}
	return m
}

// DecodeCodable lets an Array be decoded as a struct field or through
// Decode.
func (a *Array[T]) DecodeCodable(c *DecodingContainer) error {
	arr, err := DecodeArrayOf[T](c)
	if err != nil {
		return err
	}
	*a = arr
	return nil
}

// items lists the child keys and values of the node. Mappings are only
// accepted when strict is false.
func (c *DecodingContainer) items(strict bool) ([]Key, []any, bool, bool) {
	switch value.KindOf(c.raw) {
	case value.Sequence:
		seq := c.raw.([]any)
		keys := make([]Key, len(seq))
		for i := range seq {
			keys[i] = IndexKey(i)
		}
		return keys, seq, false, true
	case value.Mapping:
		if strict {
			return nil, nil, true, false
		}
		names, vals, _ := value.Fields(c.raw)
		keys := make([]Key, len(names))
		for i, n := range names {
			keys[i] = StringKey(n)
		}
		return keys, vals, true, true
	}
	return nil, nil, false, false
}

// DecodeArrayWith decodes every item of the node with item. Without Strict a
// mapping is accepted as well as a sequence. WithKeyKind makes every item
// key be checked first; a mismatch is reported at the item's path.
func DecodeArrayWith[T any](c *DecodingContainer, item func(*DecodingContainer) (T, error), opts ...Option) (Array[T], error) {
	o := collectOptions(opts)
	if err := c.ValidateExistsAndPresent(); err != nil {
		return Array[T]{}, err
	}
	keys, vals, mapping, ok := c.items(o.isStrict(false))
	if !ok {
		return Array[T]{}, c.typeMismatch("sequence")
	}
	out := Array[T]{Keys: keys, Values: make([]T, len(vals)), Mapping: mapping}
	for i, k := range keys {
		ic := c.child(k, vals[i], true)
		if _, err := ic.DecodeKey(o.keyKind); err != nil {
			return Array[T]{}, err
		}
		v, err := item(ic)
		if err != nil {
			return Array[T]{}, err
		}
		out.Values[i] = v
	}
	return out, nil
}

// DecodeArray decodes every item as elem; a nil elem keeps raw values.
func (c *DecodingContainer) DecodeArray(elem reflect.Type, opts ...Option) (Array[any], error) {
	return DecodeArrayWith(c, func(ic *DecodingContainer) (any, error) {
		return ic.DecodeValue(elem)
	}, opts...)
}

func (c *DecodingContainer) DecodeArrayIfExists(elem reflect.Type, opts ...Option) (*Array[any], error) {
	return ifExists(c, func() (Array[any], error) { return c.DecodeArray(elem, opts...) })
}

func (c *DecodingContainer) DecodeArrayIfPresent(elem reflect.Type, opts ...Option) (*Array[any], error) {
	return ifPresent(c, func() (Array[any], error) { return c.DecodeArray(elem, opts...) })
}

// DecodeArrayFunc decodes every item with fn.
func (c *DecodingContainer) DecodeArrayFunc(fn func(*DecodingContainer) (any, error), opts ...Option) (Array[any], error) {
	return DecodeArrayWith(c, fn, opts...)
}

// DecodeArrayKeys returns the item keys of a sequence or mapping.
func (c *DecodingContainer) DecodeArrayKeys(opts ...Option) ([]Key, error) {
	arr, err := DecodeArrayWith(c, func(*DecodingContainer) (struct{}, error) {
		return struct{}{}, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return arr.Keys, nil
}

func (c *DecodingContainer) DecodeArrayKeysIfExists(opts ...Option) ([]Key, error) {
	return derefSlice(ifExists(c, func() ([]Key, error) { return c.DecodeArrayKeys(opts...) }))
}

func (c *DecodingContainer) DecodeArrayKeysIfPresent(opts ...Option) ([]Key, error) {
	return derefSlice(ifPresent(c, func() ([]Key, error) { return c.DecodeArrayKeys(opts...) }))
}

func derefSlice[T any](p *[]T, err error) ([]T, error) {
	if p == nil {
		return nil, err
	}
	return *p, err
}
