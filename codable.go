package codable

import (
	"fmt"
	"reflect"

	"github.com/reoring/codable/value"
)

// Decoder decodes raw trees into Go values with a shared DecodingContext.
type Decoder struct {
	ctx *DecodingContext
}

// NewDecoder returns a Decoder; a nil ctx gets a fresh context.
func NewDecoder(ctx *DecodingContext) *Decoder {
	if ctx == nil {
		ctx = NewDecodingContext()
	}
	return &Decoder{ctx: ctx}
}

func (d *Decoder) Context() *DecodingContext { return d.ctx }

// Container returns the root container for tree.
func (d *Decoder) Container(tree any) *DecodingContainer {
	return NewDecodingContainer(tree, d.ctx)
}

// Decode decodes tree into the value target points to. A non-nil existing
// value is updated in place where its kind allows it.
func (d *Decoder) Decode(tree any, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("codable: Decode target must be a non-nil pointer, got %T", target)
	}
	v, err := d.Container(tree).decodeReflect(rv.Elem().Type(), rv)
	if err != nil {
		return err
	}
	rv.Elem().Set(v)
	return nil
}

// Encoder encodes Go values into raw trees with a shared EncodingContext.
type Encoder struct {
	ctx *EncodingContext
}

// NewEncoder returns an Encoder; a nil ctx gets a fresh context.
func NewEncoder(ctx *EncodingContext) *Encoder {
	if ctx == nil {
		ctx = NewEncodingContext()
	}
	return &Encoder{ctx: ctx}
}

func (e *Encoder) Context() *EncodingContext { return e.ctx }

// Encode returns the tree for v.
func (e *Encoder) Encode(v any) (any, error) {
	c := NewEncodingContainer(e.ctx)
	if err := c.Encode(v); err != nil {
		return nil, err
	}
	return c.Value(), nil
}

// Unmarshal reads a JSON document and decodes it into v.
func Unmarshal(data []byte, v any, opts ...ReadOpt) error {
	tree, err := ReadJSON(data, opts...)
	if err != nil {
		return err
	}
	return NewDecoder(nil).Decode(tree, v)
}

// UnmarshalYAML reads a YAML document and decodes it into v.
func UnmarshalYAML(data []byte, v any, opts ...ReadOpt) error {
	tree, err := ReadYAML(data, opts...)
	if err != nil {
		return err
	}
	return NewDecoder(nil).Decode(tree, v)
}

// Marshal encodes v and renders it as JSON. Struct properties keep their
// declaration order.
func Marshal(v any) ([]byte, error) {
	tree, err := NewEncoder(nil).Encode(v)
	if err != nil {
		return nil, err
	}
	return value.MarshalJSON(tree)
}

// MarshalIndent is Marshal with indentation.
func MarshalIndent(v any, indent string) ([]byte, error) {
	tree, err := NewEncoder(nil).Encode(v)
	if err != nil {
		return nil, err
	}
	return value.MarshalJSONIndent(tree, indent)
}

// MarshalYAML encodes v and renders it as YAML.
func MarshalYAML(v any) ([]byte, error) {
	tree, err := NewEncoder(nil).Encode(v)
	if err != nil {
		return nil, err
	}
	return value.MarshalYAML(tree)
}
