package codable

import (
	"errors"
	"reflect"
	"sync"
)

// DecodeDelegate decodes values of a registered type. into is the existing
// instance to fill, or nil.
type DecodeDelegate interface {
	Decode(t reflect.Type, c *DecodingContainer, into any) (any, error)
}

// EncodeDelegate encodes values of a registered type into c.
type EncodeDelegate interface {
	Encode(t reflect.Type, c *EncodingContainer, v any) error
}

// DecodeDelegateFunc adapts a function to DecodeDelegate.
type DecodeDelegateFunc func(c *DecodingContainer, into any) (any, error)

func (f DecodeDelegateFunc) Decode(_ reflect.Type, c *DecodingContainer, into any) (any, error) {
	return f(c, into)
}

// EncodeDelegateFunc adapts a function to EncodeDelegate.
type EncodeDelegateFunc func(c *EncodingContainer, v any) error

func (f EncodeDelegateFunc) Encode(_ reflect.Type, c *EncodingContainer, v any) error {
	return f(c, v)
}

// Delegates maps exact types to delegates. Registering a type again
// replaces the earlier delegate.
type Delegates struct {
	mu sync.RWMutex
	m  map[reflect.Type]any
}

func NewDelegates() *Delegates { return &Delegates{m: map[reflect.Type]any{}} }

var errNotDelegate = errors.New("codable: delegate implements neither DecodeDelegate nor EncodeDelegate")

// Register stores d for t. d must implement DecodeDelegate, EncodeDelegate
// or both.
func (d *Delegates) Register(t reflect.Type, delegate any) error {
	if t == nil {
		return errors.New("codable: delegate type is nil")
	}
	_, dec := delegate.(DecodeDelegate)
	_, enc := delegate.(EncodeDelegate)
	if !dec && !enc {
		return errNotDelegate
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.m == nil {
		d.m = map[reflect.Type]any{}
	}
	d.m[t] = delegate
	return nil
}

func (d *Delegates) Lookup(t reflect.Type) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	x, ok := d.m[t]
	return x, ok
}

func (d *Delegates) Remove(t reflect.Type) {
	d.mu.Lock()
	delete(d.m, t)
	d.mu.Unlock()
}

type delegateRegistrar interface {
	RegisterDelegate(t reflect.Type, d any) error
}

// RegisterDelegate registers d for type T on a decoding or encoding context.
func RegisterDelegate[T any](ctx delegateRegistrar, d any) error {
	return ctx.RegisterDelegate(reflect.TypeFor[T](), d)
}

// Delegate combines a decode and an encode function into one delegate.
// A nil function leaves that direction to the regular dispatch.
type Delegate struct {
	DecodeFunc DecodeDelegateFunc
	EncodeFunc EncodeDelegateFunc
}

func (d Delegate) Decode(t reflect.Type, c *DecodingContainer, into any) (any, error) {
	return d.DecodeFunc.Decode(t, c, into)
}

func (d Delegate) Encode(t reflect.Type, c *EncodingContainer, v any) error {
	return d.EncodeFunc.Encode(t, c, v)
}

type partialDelegate interface {
	canDecode() bool
	canEncode() bool
}

func (d Delegate) canDecode() bool { return d.DecodeFunc != nil }
func (d Delegate) canEncode() bool { return d.EncodeFunc != nil }
