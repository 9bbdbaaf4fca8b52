package codable

import "reflect"

// Decode decodes the container's node as T.
func Decode[T any](c *DecodingContainer) (T, error) {
	var zero T
	v, err := c.DecodeValue(reflect.TypeFor[T]())
	if err != nil || v == nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, &Error{Code: CodeValueTypeMismatch, Path: c.Path(), Actual: reflect.TypeOf(v).String(), Expected: reflect.TypeFor[T]().String()}
	}
	return out, nil
}

// DecodeIfExists returns nil when the node is absent.
func DecodeIfExists[T any](c *DecodingContainer) (*T, error) {
	return ifExists(c, func() (T, error) { return Decode[T](c) })
}

// DecodeIfPresent returns nil when the node is absent or null.
func DecodeIfPresent[T any](c *DecodingContainer) (*T, error) {
	return ifPresent(c, func() (T, error) { return Decode[T](c) })
}

// DecodeInto decodes the node as an object into an existing value. Only
// the properties found in the node are overwritten.
func DecodeInto[T any](c *DecodingContainer, into *T, opts ...Option) error {
	v, err := c.DecodeObject(reflect.TypeFor[T](), into, opts...)
	if err != nil {
		return err
	}
	if x, ok := v.(T); ok {
		*into = x
	}
	return nil
}

// DecodeEnumOf decodes the node as the enum type T.
func DecodeEnumOf[T Enum](c *DecodingContainer) (T, error) {
	var zero T
	v, err := c.DecodeEnum(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	out, _ := v.(T)
	return out, nil
}

// DecodeArrayOf decodes every item as T.
func DecodeArrayOf[T any](c *DecodingContainer, opts ...Option) (Array[T], error) {
	return DecodeArrayWith(c, Decode[T], opts...)
}

// DecodeSliceOf decodes every item as T and drops the keys.
func DecodeSliceOf[T any](c *DecodingContainer, opts ...Option) ([]T, error) {
	arr, err := DecodeArrayOf[T](c, opts...)
	if err != nil {
		return nil, err
	}
	return arr.Values, nil
}

// DecodeMapOf decodes every item as T keyed by the item key's string form.
func DecodeMapOf[T any](c *DecodingContainer, opts ...Option) (map[string]T, error) {
	arr, err := DecodeArrayOf[T](c, opts...)
	if err != nil {
		return nil, err
	}
	return arr.Map(), nil
}
