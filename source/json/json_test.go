package json

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	eng "github.com/reoring/codable/internal/engine"
)

func tokens(t *testing.T, src eng.TokenSource) []eng.Token {
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
	got := tokens(t, Driver{}.NewBytes([]byte(`{"a":["x",1],"b":{"c":null},"d":false}`)))
	want := []eng.Token{
		{Kind: eng.KindBeginObject},
		{Kind: eng.KindKey, String: "a"},
		{Kind: eng.KindBeginArray},
		{Kind: eng.KindString, String: "x"},
		{Kind: eng.KindNumber, Number: "1"},
		{Kind: eng.KindEndArray},
		{Kind: eng.KindKey, String: "b"},
		{Kind: eng.KindBeginObject},
		{Kind: eng.KindKey, String: "c"},
		{Kind: eng.KindNull},
		{Kind: eng.KindEndObject},
		{Kind: eng.KindKey, String: "d"},
		{Kind: eng.KindBool},
		{Kind: eng.KindEndObject},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokens (-want +got):\n%s", diff)
	}
}

func TestSource_ExactOffsets(t *testing.T) {
	src := NewBytes([]byte(`{"key": "value"}`))
	var offsets []int64
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		offsets = append(offsets, tok.Offset)
	}
	if diff := cmp.Diff([]int64{1, 6, 15, 16}, offsets); diff != "" {
		t.Fatalf("offsets (-want +got):\n%s", diff)
	}
}

func TestSource_BuildTreeMatchesGoJSON(t *testing.T) {
	tree, err := eng.BuildTree(NewBytes([]byte(`{"z":1,"a":[2.5,"s"]}`)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, ok := tree.(interface{ Keys() []string })
	if !ok {
		t.Fatalf("want ordered object, got %T", tree)
	}
	if diff := cmp.Diff([]string{"z", "a"}, obj.Keys()); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
	if (Driver{}).Name() != "encoding/json" {
		t.Fatalf("unexpected driver name")
	}
}

func TestSource_Malformed(t *testing.T) {
	_, err := eng.BuildTree(NewBytes([]byte(`{"a":}`)))
	if err == nil {
		t.Fatalf("expected an error")
	}
}
