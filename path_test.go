package codable_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/codable"
)

var keyCmp = cmp.Comparer(codable.Key.Equal)

func TestPath_Render(t *testing.T) {
	p := codable.Path{
		codable.StringKey("items"),
		codable.IndexKey(2),
		codable.StringKey("a.b"),
		codable.StringKey("x/y~z"),
	}
	if got := p.String(); got != `items[2]."a.b".x/y~z` {
		t.Fatalf("String: %q", got)
	}
	if got := p.Pointer(); got != "/items/2/a.b/x~1y~0z" {
		t.Fatalf("Pointer: %q", got)
	}
	if got := (codable.Path{}).String(); got != "" {
		t.Fatalf("root String: %q", got)
	}
	if got := (codable.Path{}).Pointer(); got != "/" {
		t.Fatalf("root Pointer: %q", got)
	}
	if got := (codable.Path{codable.IndexKey(0), codable.StringKey("a")}).String(); got != "[0].a" {
		t.Fatalf("leading index: %q", got)
	}
}

func TestParsePath(t *testing.T) {
	for _, in := range []string{`items[2]."a.b"`, "/items/2/a.b"} {
		got, err := codable.ParsePath(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		want := codable.Path{codable.StringKey("items"), codable.IndexKey(2), codable.StringKey("a.b")}
		if diff := cmp.Diff(want, got, keyCmp); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", in, diff)
		}
	}

	got, err := codable.ParsePath("/a~1b/~0")
	if err != nil {
		t.Fatalf("pointer escapes: %v", err)
	}
	if diff := cmp.Diff(codable.Path{codable.StringKey("a/b"), codable.StringKey("~")}, got, keyCmp); diff != "" {
		t.Fatalf("pointer escapes (-want +got):\n%s", diff)
	}

	if p, err := codable.ParsePath(""); err != nil || len(p) != 0 {
		t.Fatalf("empty path: %v %v", p, err)
	}
	for _, bad := range []string{"a[", "a[x]", "a.", `"open`} {
		if _, err := codable.ParsePath(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestPath_StringRoundtrip(t *testing.T) {
	p := codable.Path{codable.StringKey("with space"), codable.IndexKey(10), codable.StringKey("")}
	got, err := codable.ParsePath(p.String())
	if err != nil {
		t.Fatalf("parse %q: %v", p.String(), err)
	}
	if !got.Equal(p) {
		t.Fatalf("roundtrip: want %v, got %v", p, got)
	}
}

func TestKey(t *testing.T) {
	s, i := codable.StringKey("a"), codable.IndexKey(3)
	if s.Kind() != codable.KeyKindString || i.Kind() != codable.KeyKindInt {
		t.Fatalf("kinds: %v %v", s.Kind(), i.Kind())
	}
	if _, ok := s.Index(); ok {
		t.Fatalf("string key has no index")
	}
	if n, ok := i.Index(); !ok || n != 3 {
		t.Fatalf("index: %d %v", n, ok)
	}
	if s.Interface() != "a" || i.Interface() != 3 {
		t.Fatalf("Interface: %v %v", s.Interface(), i.Interface())
	}
	if (codable.Key{}).IsValid() {
		t.Fatalf("zero key must be invalid")
	}
	if codable.StringKey("3").Equal(i) {
		t.Fatalf("keys of different kinds are never equal")
	}
}
