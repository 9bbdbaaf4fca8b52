package codable_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/codable"
	"github.com/reoring/codable/value"
)

// Slug decodes itself from a plain string.
type Slug string

func (s *Slug) DecodeCodable(c *codable.DecodingContainer) error {
	v, err := c.DecodeString()
	if err != nil {
		return err
	}
	*s = Slug(strings.ToLower(v))
	return nil
}

func personTree() map[string]any {
	return object(
		"firstName", "John",
		"surname", "Doe",
		"birthDate", "1990-05-17",
		"address", object("street", "Main 1", "country", "NL"),
		"favoriteFruit", "banana",
		"dislikedVegetables", []any{"Tomato", "Lettuce"},
		"Internal", "ignored",
	)
}

func TestDecodeObject_Struct(t *testing.T) {
	got, err := codable.Decode[Person](root(personTree()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := Person{
		FirstName:          "John",
		LastName:           "Doe",
		BirthDate:          time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Address:            Address{Street: "Main 1", Country: "NL"},
		FavoriteFruit:      Banana,
		DislikedVegetables: []Vegetable{Tomato, Lettuce},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("person (-want +got):\n%s", diff)
	}
}

func TestDecodeObject_NullableAndOptional(t *testing.T) {
	tree := personTree()
	tree["nickname"] = "JD"
	p, err := codable.Decode[Person](root(tree))
	if err != nil || p.Nickname == nil || *p.Nickname != "JD" {
		t.Fatalf("nickname: %v %v", p.Nickname, err)
	}

	tree["nickname"] = nil
	tree["dislikedVegetables"] = nil
	p, err = codable.Decode[Person](root(tree))
	if err != nil || p.Nickname != nil || p.DislikedVegetables != nil {
		t.Fatalf("null nullable fields: %+v %v", p, err)
	}

	// Non-nullable fields stay strict.
	tree["surname"] = nil
	_, err = codable.Decode[Person](root(tree))
	if !errors.Is(err, codable.ErrValueNotFound) {
		t.Fatalf("null surname: want ErrValueNotFound, got %v", err)
	}

	type draft struct {
		Title string `codable:"title,optional"`
		Count int    `codable:"count"`
	}
	d, err := codable.Decode[draft](root(object("count", int64(2))))
	if err != nil || d.Title != "" || d.Count != 2 {
		t.Fatalf("optional absent: %+v %v", d, err)
	}
}

func TestDecodeObject_BadDate(t *testing.T) {
	tree := personTree()
	tree["birthDate"] = "17-05-1990"
	_, err := codable.Decode[Person](root(tree))
	if !errors.Is(err, codable.ErrDateTimeFormat) {
		t.Fatalf("want ErrDateTimeFormat, got %v", err)
	}
	e, _ := codable.AsError(err)
	if e.Format != "2006-01-02" || e.Path.String() != "birthDate" {
		t.Fatalf("unexpected error details: %+v", e)
	}
}

func TestDecodeInto_UpdatesExistingInstance(t *testing.T) {
	nick := "Johnny"
	p := Person{FirstName: "old", Internal: "keep", Nickname: &nick}
	if err := codable.DecodeInto(root(personTree()), &p); err != nil {
		t.Fatalf("decode into: %v", err)
	}
	if p.FirstName != "John" || p.Internal != "keep" {
		t.Fatalf("unexpected result %+v", p)
	}
	if p.Nickname == nil || *p.Nickname != "Johnny" {
		t.Fatalf("absent nullable property must keep the existing value, got %v", p.Nickname)
	}

	var target Address
	d := codable.NewDecoder(nil)
	if err := d.Decode(object("street", "Elm"), &target); !errors.Is(err, codable.ErrPathNotFound) {
		t.Fatalf("missing country: want ErrPathNotFound, got %v", err)
	}
}

func TestDecodeObject_Dynamic(t *testing.T) {
	c := root(object("b", int64(2), "a", "x"))

	v, err := c.DecodeObject(reflect.TypeFor[map[string]any](), nil)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": "x", "b": int64(2)}, v); diff != "" {
		t.Fatalf("map (-want +got):\n%s", diff)
	}

	v, err = c.DecodeObject(reflect.TypeFor[*value.Object](), nil)
	if err != nil {
		t.Fatalf("object: %v", err)
	}
	obj := v.(*value.Object)
	if diff := cmp.Diff([]string{"a", "b"}, obj.Keys()); diff != "" {
		t.Fatalf("object keys (-want +got):\n%s", diff)
	}

	existing := map[string]any{"keep": true}
	v, err = c.DecodeObject(reflect.TypeFor[map[string]any](), &existing)
	if err != nil {
		t.Fatalf("into: %v", err)
	}
	if m := v.(map[string]any); m["keep"] != true || m["a"] != "x" {
		t.Fatalf("existing map should be extended, got %v", m)
	}

	v, err = c.DecodeObject(nil, nil)
	if err != nil || !value.Equal(v, c.Raw()) {
		t.Fatalf("nil type should return the raw mapping, got %v %v", v, err)
	}
}

func TestDecodeObject_Shape(t *testing.T) {
	c := root(object("list", []any{"a"}, "slug", "Hello-World", "n", nil))

	if _, err := c.Field("list").DecodeObject(nil, nil); !errors.Is(err, codable.ErrValueTypeMismatch) {
		t.Fatalf("sequence as object: want mismatch, got %v", err)
	}
	if _, err := c.Field("n").DecodeObject(nil, nil); !errors.Is(err, codable.ErrValueNotFound) {
		t.Fatalf("null object: want ErrValueNotFound, got %v", err)
	}

	// A Decodable may consume a scalar unless Strict demands a mapping.
	v, err := c.Field("slug").DecodeObject(reflect.TypeFor[Slug](), nil)
	if err != nil || v != Slug("hello-world") {
		t.Fatalf("decodable from scalar: %v %v", v, err)
	}
	_, err = c.Field("slug").DecodeObject(reflect.TypeFor[Slug](), nil, codable.Strict())
	if !errors.Is(err, codable.ErrValueTypeMismatch) {
		t.Fatalf("strict decodable from scalar: want mismatch, got %v", err)
	}
	e, _ := codable.AsError(err)
	if e.Expected != "mapping" || e.Actual != "string" {
		t.Fatalf("unexpected mismatch details %+v", e)
	}
}

func TestDecodeObject_Decodable(t *testing.T) {
	c := root(object("price", object("amount", int64(250), "currency", "EUR")))
	m, err := codable.Decode[Money](c.Field("price"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(Money{Amount: 250, Currency: "EUR", Source: "decodable"}, m); diff != "" {
		t.Fatalf("money (-want +got):\n%s", diff)
	}
	pm, err := codable.Decode[*Money](c.Field("price"))
	if err != nil || pm.Amount != 250 {
		t.Fatalf("pointer decode: %v %v", pm, err)
	}
}

func TestDecodeEnum(t *testing.T) {
	c := root(object(
		"fruit", "orange",
		"veg", "Cucumber",
		"prio", int64(10),
		"badFruit", "kiwi",
		"fruitNum", int64(1),
		"prioText", "High",
	))

	if f, err := codable.DecodeEnumOf[Fruit](c.Field("fruit")); f != Orange || err != nil {
		t.Fatalf("backed string: %v %v", f, err)
	}
	if v, err := codable.DecodeEnumOf[Vegetable](c.Field("veg")); v != Cucumber || err != nil {
		t.Fatalf("plain: %v %v", v, err)
	}
	if p, err := codable.Decode[Priority](c.Field("prio")); p != High || err != nil {
		t.Fatalf("backed int: %v %v", p, err)
	}
	if _, err := codable.DecodeEnumOf[Fruit](c.Field("badFruit")); !errors.Is(err, codable.ErrInvalidValue) {
		t.Fatalf("unknown case: want ErrInvalidValue, got %v", err)
	}
	if _, err := codable.DecodeEnumOf[Fruit](c.Field("fruitNum")); !errors.Is(err, codable.ErrValueTypeMismatch) {
		t.Fatalf("wrong kind: want mismatch, got %v", err)
	}
	if _, err := codable.DecodeEnumOf[Priority](c.Field("prioText")); !errors.Is(err, codable.ErrValueTypeMismatch) {
		t.Fatalf("case name on backed int enum: want mismatch, got %v", err)
	}
	if v, err := c.Field("none").DecodeEnumIfPresent(reflect.TypeFor[Fruit]()); v != nil || err != nil {
		t.Fatalf("absent IfPresent: %v %v", v, err)
	}

	// DecodeObject hands enums to DecodeEnum.
	v, err := c.Field("fruit").DecodeObject(reflect.TypeFor[Fruit](), nil)
	if err != nil || v != Orange {
		t.Fatalf("enum via DecodeObject: %v %v", v, err)
	}
}

func TestDecodeArray(t *testing.T) {
	c := root(object(
		"seq", []any{int64(1), int64(2), int64(3)},
		"map", object("x", int64(1), "y", int64(2)),
		"mixed", []any{int64(1), "two"},
	))

	arr, err := codable.DecodeArrayOf[int](c.Field("seq"))
	if err != nil || arr.Mapping || arr.Len() != 3 {
		t.Fatalf("sequence: %+v %v", arr, err)
	}
	if v, ok := arr.Get(codable.IndexKey(2)); !ok || v != 3 {
		t.Fatalf("Get(2) = %v %v", v, ok)
	}

	arr, err = codable.DecodeArrayOf[int](c.Field("map"))
	if err != nil || !arr.Mapping {
		t.Fatalf("mapping: %+v %v", arr, err)
	}
	if diff := cmp.Diff(map[string]int{"x": 1, "y": 2}, arr.Map()); diff != "" {
		t.Fatalf("mapping items (-want +got):\n%s", diff)
	}

	if _, err := codable.DecodeArrayOf[int](c.Field("map"), codable.Strict()); !errors.Is(err, codable.ErrValueTypeMismatch) {
		t.Fatalf("strict mapping: want mismatch, got %v", err)
	}

	_, err = codable.DecodeArrayOf[int](c.Field("map"), codable.WithKeyKind(codable.KeyKindInt))
	if !errors.Is(err, codable.ErrKeyTypeMismatch) {
		t.Fatalf("key kind: want ErrKeyTypeMismatch, got %v", err)
	}
	if e, _ := codable.AsError(err); e.Path.String() != "map.x" {
		t.Fatalf("key kind error should point at the item, got %q", e.Path)
	}

	_, err = codable.DecodeArrayOf[int](c.Field("mixed"))
	if e, _ := codable.AsError(err); e == nil || e.Path.String() != "mixed[1]" {
		t.Fatalf("item error should point at the item, got %v", err)
	}

	keys, err := c.Field("map").DecodeArrayKeys()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if diff := cmp.Diff([]codable.Key{codable.StringKey("x"), codable.StringKey("y")}, keys, cmp.Comparer(codable.Key.Equal)); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
	if keys, err := c.Field("none").DecodeArrayKeysIfExists(); keys != nil || err != nil {
		t.Fatalf("absent keys: %v %v", keys, err)
	}

	raw, err := c.Field("mixed").DecodeArray(nil)
	if err != nil {
		t.Fatalf("raw array: %v", err)
	}
	if diff := cmp.Diff([]any{int64(1), "two"}, raw.Values); diff != "" {
		t.Fatalf("raw values (-want +got):\n%s", diff)
	}
}

func TestDecode_Collections(t *testing.T) {
	c := root(object(
		"seq", []any{"a", "b"},
		"map", object("k", "v"),
		"pair", []any{int64(1), int64(2)},
	))

	if s, err := codable.DecodeSliceOf[string](c.Field("seq")); err != nil || len(s) != 2 || s[1] != "b" {
		t.Fatalf("slice: %v %v", s, err)
	}
	if m, err := codable.DecodeMapOf[string](c.Field("map")); err != nil || m["k"] != "v" {
		t.Fatalf("map: %v %v", m, err)
	}
	if m, err := codable.Decode[map[int]string](c.Field("seq")); err != nil || m[1] != "b" {
		t.Fatalf("int-keyed map: %v %v", m, err)
	}
	if _, err := codable.Decode[map[int]string](c.Field("map")); !errors.Is(err, codable.ErrKeyTypeMismatch) {
		t.Fatalf("int-keyed map from mapping: want ErrKeyTypeMismatch, got %v", err)
	}
	if a, err := codable.Decode[[2]int](c.Field("pair")); err != nil || a != [2]int{1, 2} {
		t.Fatalf("array: %v %v", a, err)
	}
	if _, err := codable.Decode[[3]int](c.Field("pair")); !errors.Is(err, codable.ErrInvalidValue) {
		t.Fatalf("short array: want ErrInvalidValue, got %v", err)
	}
}

func TestDecodeDateTime(t *testing.T) {
	c := root(object(
		"iso", "2024-02-29T10:30:00Z",
		"day", "2024-02-29",
		"bad", "yesterday",
	))

	got, err := c.Field("iso").DecodeDateTime()
	if err != nil || !got.Equal(time.Date(2024, 2, 29, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("iso: %v %v", got, err)
	}
	got, err = c.Field("day").DecodeDateTime()
	if err != nil || !got.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("lenient date: %v %v", got, err)
	}
	if _, err := c.Field("day").DecodeDateTime(codable.WithFormat(time.RFC3339)); !errors.Is(err, codable.ErrDateTimeFormat) {
		t.Fatalf("strict format: want ErrDateTimeFormat, got %v", err)
	}
	_, err = c.Field("bad").DecodeDateTime()
	if e, _ := codable.AsError(err); e == nil || e.Format != "<any>" {
		t.Fatalf("lenient failure should report <any>, got %v", err)
	}

	ams, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	got, err = c.Field("day").DecodeDateTime(codable.WithLocation(ams))
	if err != nil || got.Location() != ams {
		t.Fatalf("location option: %v %v", got, err)
	}
	ctx := codable.NewDecodingContext()
	ctx.SetLocation(ams)
	got, err = codable.NewDecodingContainer(c.Raw(), ctx).Field("day").DecodeDateTime()
	if err != nil || got.Location() != ams {
		t.Fatalf("context location: %v %v", got, err)
	}
	if v, err := c.Field("none").DecodeDateTimeIfExists(); v != nil || err != nil {
		t.Fatalf("absent: %v %v", v, err)
	}
}
