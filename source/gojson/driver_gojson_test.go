package gojson

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	eng "github.com/reoring/codable/internal/engine"
)

func kinds(t *testing.T, src eng.TokenSource) []eng.Token {
	t.Helper()
	var out []eng.Token
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tok.Offset = 0
		out = append(out, tok)
	}
}

func TestSource_Tokens(t *testing.T) {
	got := kinds(t, NewBytes([]byte(`{"a":[1,"x",true,null],"b":{"c":2.5}}`)))
	want := []eng.Token{
		{Kind: eng.KindBeginObject},
		{Kind: eng.KindKey, String: "a"},
		{Kind: eng.KindBeginArray},
		{Kind: eng.KindNumber, Number: "1"},
		{Kind: eng.KindString, String: "x"},
		{Kind: eng.KindBool, Bool: true},
		{Kind: eng.KindNull},
		{Kind: eng.KindEndArray},
		{Kind: eng.KindKey, String: "b"},
		{Kind: eng.KindBeginObject},
		{Kind: eng.KindKey, String: "c"},
		{Kind: eng.KindNumber, Number: "2.5"},
		{Kind: eng.KindEndObject},
		{Kind: eng.KindEndObject},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokens (-want +got):\n%s", diff)
	}
}

func TestSource_StringValueAfterKey(t *testing.T) {
	got := kinds(t, NewBytes([]byte(`{"k":"v","k2":"v2"}`)))
	if len(got) != 6 || got[3].Kind != eng.KindKey || got[3].String != "k2" {
		t.Fatalf("object state machine out of sync: %+v", got)
	}
}

func TestSource_BuildTree(t *testing.T) {
	tree, err := eng.BuildTree(NewBytes([]byte(`[1, 2.0, {"z": 1, "a": 2}]`)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seq := tree.([]any)
	if seq[0] != int64(1) || seq[1] != 2.0 {
		t.Fatalf("number classification wrong: %#v", seq)
	}
}

func TestSource_Location(t *testing.T) {
	src := NewBytes([]byte(`[1]`))
	if _, err := src.NextToken(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Location() <= 0 {
		t.Fatalf("expected a positive offset, got %d", src.Location())
	}
}
