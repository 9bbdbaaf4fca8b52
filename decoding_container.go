package codable

import (
	"errors"
	"reflect"
	"strconv"

	"github.com/reoring/codable/value"
)

// DecodingContainer is a read-only cursor over one node of a raw tree. It
// knows whether the node exists, how it was reached from the root, and the
// context of the decode run. Containers never modify the tree.
type DecodingContainer struct {
	raw      any
	presence Presence
	ctx      *DecodingContext
	parent   *DecodingContainer
	key      Key
}

// NewDecodingContainer returns the root container for tree. A nil ctx gets
// a fresh DecodingContext.
func NewDecodingContainer(tree any, ctx *DecodingContext) *DecodingContainer {
	if ctx == nil {
		ctx = NewDecodingContext()
	}
	return &DecodingContainer{raw: tree, presence: presenceOf(tree, true), ctx: ctx}
}

func (c *DecodingContainer) child(k Key, raw any, exists bool) *DecodingContainer {
	if !exists {
		raw = nil
	}
	return &DecodingContainer{raw: raw, presence: presenceOf(raw, exists), ctx: c.ctx.Child(), parent: c, key: k}
}

// Raw returns the node's raw value; nil when absent or null.
func (c *DecodingContainer) Raw() any { return c.raw }

// Presence returns whether the node is absent, null or holds a value.
func (c *DecodingContainer) Presence() Presence { return c.presence }

// Exists reports whether a node exists at this path, null or not.
func (c *DecodingContainer) Exists() bool { return c.presence.Exists() }

// IsPresent reports whether the node exists and is not null.
func (c *DecodingContainer) IsPresent() bool { return c.presence.IsPresent() }

// Kind returns the raw node's kind; absent nodes report value.Null.
func (c *DecodingContainer) Kind() value.Kind { return value.KindOf(c.raw) }

// Context returns the decoding context of this container.
func (c *DecodingContainer) Context() *DecodingContext { return c.ctx }

// Parent returns the enclosing container, nil at the root.
func (c *DecodingContainer) Parent() *DecodingContainer { return c.parent }

// Root returns the top-most container.
func (c *DecodingContainer) Root() *DecodingContainer {
	r := c
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Key returns the key under which this container was reached.
func (c *DecodingContainer) Key() (Key, bool) { return c.key, c.key.IsValid() }

// Path returns the keys from the root to this container.
func (c *DecodingContainer) Path() Path {
	n := 0
	for x := c; x.parent != nil; x = x.parent {
		n++
	}
	p := make(Path, n)
	for x := c; x.parent != nil; x = x.parent {
		n--
		p[n] = x.key
	}
	return p
}

// ValidateExists fails with ErrPathNotFound when the node is absent.
func (c *DecodingContainer) ValidateExists() error {
	if !c.Exists() {
		return pathNotFound(c.Path())
	}
	return nil
}

// ValidatePresent fails with ErrValueNotFound when the node is absent or null.
func (c *DecodingContainer) ValidatePresent() error {
	if !c.IsPresent() {
		return valueNotFound(c.Path())
	}
	return nil
}

// ValidateExistsAndPresent reports a missing path before a null value.
func (c *DecodingContainer) ValidateExistsAndPresent() error {
	if err := c.ValidateExists(); err != nil {
		return err
	}
	return c.ValidatePresent()
}

func (c *DecodingContainer) typeMismatch(expected string) error {
	return typeMismatch(c.Path(), c.raw, expected)
}

// raisedHere reports whether err is an *Error of one of kinds raised for
// this container's own path. Errors from deeper nodes are not matched.
func (c *DecodingContainer) raisedHere(err error, kinds ...error) bool {
	e, ok := AsError(err)
	if !ok || !e.Path.Equal(c.Path()) {
		return false
	}
	for _, k := range kinds {
		if errors.Is(e, k) {
			return true
		}
	}
	return false
}

func ifExists[T any](c *DecodingContainer, decode func() (T, error)) (*T, error) {
	if !c.Exists() {
		return nil, nil
	}
	v, err := decode()
	if err != nil {
		if c.raisedHere(err, ErrPathNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func ifPresent[T any](c *DecodingContainer, decode func() (T, error)) (*T, error) {
	if !c.IsPresent() {
		return nil, nil
	}
	v, err := decode()
	if err != nil {
		if c.raisedHere(err, ErrPathNotFound, ErrValueNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// ---- keys ----

// DecodeKey returns the key this container was reached by. k restricts the
// key kind; KeyKindAny accepts both.
func (c *DecodingContainer) DecodeKey(k KeyKind) (Key, error) {
	if err := c.ValidateExists(); err != nil {
		return Key{}, err
	}
	if !c.key.IsValid() {
		return Key{}, keyNotFound(c.Path())
	}
	if k != KeyKindAny && c.key.Kind() != k {
		return Key{}, keyTypeMismatch(c.Path(), c.key.Kind(), k)
	}
	return c.key, nil
}

func (c *DecodingContainer) DecodeKeyIfExists(k KeyKind) (*Key, error) {
	return ifExists(c, func() (Key, error) { return c.DecodeKey(k) })
}

// DecodeKeyIfPresent also returns nil when the container has no key.
func (c *DecodingContainer) DecodeKeyIfPresent(k KeyKind) (*Key, error) {
	if !c.key.IsValid() {
		return nil, nil
	}
	key, err := c.DecodeKey(k)
	if err != nil {
		if c.raisedHere(err, ErrPathNotFound, ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &key, nil
}

func (c *DecodingContainer) DecodeStringKey() (string, error) {
	k, err := c.DecodeKey(KeyKindString)
	return k.name, err
}

func (c *DecodingContainer) DecodeStringKeyIfExists() (*string, error) {
	return ifExists(c, c.DecodeStringKey)
}

func (c *DecodingContainer) DecodeStringKeyIfPresent() (*string, error) {
	k, err := c.DecodeKeyIfPresent(KeyKindString)
	if k == nil {
		return nil, err
	}
	return &k.name, err
}

func (c *DecodingContainer) DecodeIntKey() (int, error) {
	k, err := c.DecodeKey(KeyKindInt)
	return k.index, err
}

func (c *DecodingContainer) DecodeIntKeyIfExists() (*int, error) {
	return ifExists(c, c.DecodeIntKey)
}

func (c *DecodingContainer) DecodeIntKeyIfPresent() (*int, error) {
	k, err := c.DecodeKeyIfPresent(KeyKindInt)
	if k == nil {
		return nil, err
	}
	return &k.index, err
}

// ---- scalars ----

func (c *DecodingContainer) DecodeString() (string, error) {
	if err := c.ValidateExistsAndPresent(); err != nil {
		return "", err
	}
	s, ok := c.raw.(string)
	if !ok {
		return "", c.typeMismatch("string")
	}
	return s, nil
}

func (c *DecodingContainer) DecodeStringIfExists() (*string, error) {
	return ifExists(c, c.DecodeString)
}

func (c *DecodingContainer) DecodeStringIfPresent() (*string, error) {
	return ifPresent(c, c.DecodeString)
}

// DecodeInt accepts integral raw values only; floats are a type mismatch.
func (c *DecodingContainer) DecodeInt() (int64, error) {
	if err := c.ValidateExistsAndPresent(); err != nil {
		return 0, err
	}
	if value.KindOf(c.raw) != value.Int {
		return 0, c.typeMismatch("int")
	}
	n, ok := value.AsInt64(c.raw)
	if !ok {
		return 0, invalidValue(c.Path(), c.raw, reflect.TypeFor[int64](), nil)
	}
	return n, nil
}

func (c *DecodingContainer) DecodeIntIfExists() (*int64, error) {
	return ifExists(c, c.DecodeInt)
}

func (c *DecodingContainer) DecodeIntIfPresent() (*int64, error) {
	return ifPresent(c, c.DecodeInt)
}

// DecodeFloat accepts floating point raw values only; integers are a type
// mismatch.
func (c *DecodingContainer) DecodeFloat() (float64, error) {
	if err := c.ValidateExistsAndPresent(); err != nil {
		return 0, err
	}
	f, ok := value.AsFloat64(c.raw)
	if !ok {
		return 0, c.typeMismatch("float")
	}
	return f, nil
}

func (c *DecodingContainer) DecodeFloatIfExists() (*float64, error) {
	return ifExists(c, c.DecodeFloat)
}

func (c *DecodingContainer) DecodeFloatIfPresent() (*float64, error) {
	return ifPresent(c, c.DecodeFloat)
}

func (c *DecodingContainer) DecodeBool() (bool, error) {
	if err := c.ValidateExistsAndPresent(); err != nil {
		return false, err
	}
	b, ok := c.raw.(bool)
	if !ok {
		return false, c.typeMismatch("bool")
	}
	return b, nil
}

func (c *DecodingContainer) DecodeBoolIfExists() (*bool, error) {
	return ifExists(c, c.DecodeBool)
}

func (c *DecodingContainer) DecodeBoolIfPresent() (*bool, error) {
	return ifPresent(c, c.DecodeBool)
}

// DecodeNull succeeds when the node exists and is null.
func (c *DecodingContainer) DecodeNull() error {
	if err := c.ValidateExists(); err != nil {
		return err
	}
	if c.IsPresent() {
		return c.typeMismatch("null")
	}
	return nil
}

// DecodeNullIfExists succeeds when the node is absent or null.
func (c *DecodingContainer) DecodeNullIfExists() error {
	if !c.Exists() {
		return nil
	}
	return c.DecodeNull()
}

// ---- navigation ----

// Contains reports whether the node holds key. Mappings answer for string
// keys; sequences for indices, including canonical decimal strings.
func (c *DecodingContainer) Contains(k Key) bool {
	switch value.KindOf(c.raw) {
	case value.Mapping:
		if name, ok := k.Name(); ok {
			_, found := value.Field(c.raw, name)
			return found
		}
	case value.Sequence:
		i, ok := sequenceIndex(k, false)
		return ok && i < len(c.raw.([]any))
	}
	return false
}

// NestedContainer returns the child container for k. A missing child is
// returned as an absent container, never as an error. In strict mode (the
// default) a mapping only answers string keys and a sequence only integer
// keys; Lenient lets each side coerce the other kind of key.
func (c *DecodingContainer) NestedContainer(k Key, opts ...Option) *DecodingContainer {
	strict := collectOptions(opts).isStrict(true)
	switch value.KindOf(c.raw) {
	case value.Mapping:
		if k.Kind() == KeyKindString || (!strict && k.IsValid()) {
			v, ok := value.Field(c.raw, k.String())
			return c.child(k, v, ok)
		}
	case value.Sequence:
		if i, ok := sequenceIndex(k, strict); ok {
			seq := c.raw.([]any)
			if i < len(seq) {
				return c.child(k, seq[i], true)
			}
		}
	}
	return c.child(k, nil, false)
}

// Field is NestedContainer(StringKey(name)).
func (c *DecodingContainer) Field(name string) *DecodingContainer {
	return c.NestedContainer(StringKey(name))
}

// Index is NestedContainer(IndexKey(i)).
func (c *DecodingContainer) Index(i int) *DecodingContainer {
	return c.NestedContainer(IndexKey(i))
}

// NestedContainerForPath walks p from this container. Missing steps yield
// absent containers whose paths still reflect every key walked.
func (c *DecodingContainer) NestedContainerForPath(p Path) *DecodingContainer {
	cur := c
	for _, k := range p {
		cur = cur.NestedContainer(k)
	}
	return cur
}

// NestedContainerForPathIfExists walks p and reports false as soon as a step
// is missing.
func (c *DecodingContainer) NestedContainerForPathIfExists(p Path) (*DecodingContainer, bool) {
	cur := c
	for _, k := range p {
		if !cur.Contains(k) {
			return nil, false
		}
		cur = cur.NestedContainer(k, Lenient())
		if !cur.Exists() {
			return nil, false
		}
	}
	return cur, true
}

// Set always fails: decoding containers are read-only.
func (c *DecodingContainer) Set(Key, any) error {
	return readOnly(c.Path())
}

func sequenceIndex(k Key, strict bool) (int, bool) {
	if i, ok := k.Index(); ok {
		return i, i >= 0
	}
	if strict {
		return 0, false
	}
	name, ok := k.Name()
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(name)
	if err != nil || i < 0 || strconv.Itoa(i) != name {
		return 0, false
	}
	return i, true
}
