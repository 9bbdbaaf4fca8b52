package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/reoring/codable"
)

const doc = `{"name":"box","items":[{"id":1},{"id":2}],"meta":{"z":true,"a":null}}`

func mustPath(t *testing.T, s string) codable.Path {
	t.Helper()
	p, err := codable.ParsePath(s)
	if err != nil {
		t.Fatalf("parse path %q: %v", s, err)
	}
	return p
}

func TestGetPath(t *testing.T) {
	cfg := &MainConfig{}
	var out bytes.Buffer
	if err := getPath(cfg, &out, strings.NewReader(doc), mustPath(t, "items[1]")); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got, want := out.String(), "{\n  \"id\": 2\n}\n"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}

	out.Reset()
	if err := getPath(cfg, &out, strings.NewReader(doc), mustPath(t, "/meta")); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got, want := out.String(), "{\n  \"z\": true,\n  \"a\": null\n}\n"; got != want {
		t.Fatalf("source order lost: want %q, got %q", want, got)
	}

	err := getPath(cfg, &out, strings.NewReader(doc), mustPath(t, "items[5].id"))
	if !errors.Is(err, codable.ErrPathNotFound) {
		t.Fatalf("want ErrPathNotFound, got %v", err)
	}
}

func TestGetPath_YAML(t *testing.T) {
	cfg := &MainConfig{Y: true}
	var out bytes.Buffer
	in := "name: box\nitems:\n  - id: 1\n"
	if err := getPath(cfg, &out, strings.NewReader(in), mustPath(t, "items[0].id")); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := out.String(); got != "1\n" {
		t.Fatalf("want %q, got %q", "1\n", got)
	}
}

func TestListKeys(t *testing.T) {
	var out bytes.Buffer
	cfg := &KeysConfig{MainConfig: &MainConfig{}}
	if err := listKeys(cfg, &out, strings.NewReader(doc), codable.Path{}); err != nil {
		t.Fatalf("keys: %v", err)
	}
	if got := out.String(); got != "name\nitems\nmeta\n" {
		t.Fatalf("unexpected keys %q", got)
	}

	out.Reset()
	cfg.Pointer = true
	if err := listKeys(cfg, &out, strings.NewReader(doc), mustPath(t, "items")); err != nil {
		t.Fatalf("keys: %v", err)
	}
	if got := out.String(); got != "/items/0\n/items/1\n" {
		t.Fatalf("unexpected pointers %q", got)
	}

	err := listKeys(cfg, &out, strings.NewReader(doc), mustPath(t, "name"))
	if !errors.Is(err, codable.ErrValueTypeMismatch) {
		t.Fatalf("keys of a scalar: want mismatch, got %v", err)
	}
}

func TestReadTree_Strict(t *testing.T) {
	in := `{"a":1,"a":2}`
	if _, err := readTree(&MainConfig{Strict: true}, strings.NewReader(in)); !errors.Is(err, codable.ErrDuplicateKey) {
		t.Fatalf("strict: want ErrDuplicateKey, got %v", err)
	}
	tree, err := readTree(&MainConfig{}, strings.NewReader(in))
	if err != nil {
		t.Fatalf("lenient: %v", err)
	}
	if v, _ := codable.NewDecodingContainer(tree, nil).Field("a").DecodeInt(); v != 2 {
		t.Fatalf("last duplicate should win, got %d", v)
	}
	if _, err := readTree(&MainConfig{MaxDepth: 1}, strings.NewReader(`{"a":{"b":1}}`)); err == nil {
		t.Fatalf("depth limit not applied")
	}
}

func TestReportDuplicates(t *testing.T) {
	var out bytes.Buffer
	n, err := reportDuplicates(&out, "in.json", strings.NewReader(`{"a":1,"b":{"c":1,"c":2},"a":3}`))
	if err != nil {
		t.Fatalf("dups: %v", err)
	}
	if n != 2 {
		t.Fatalf("want 2 duplicates, got %d", n)
	}
	want := "in.json: duplicate key /b/c\nin.json: duplicate key /a\n"
	if out.String() != want {
		t.Fatalf("want %q, got %q", want, out.String())
	}
}

func TestWriteDiff(t *testing.T) {
	var out bytes.Buffer
	if writeDiff(&out, "a\nb\n", "a\nb\n", false) {
		t.Fatalf("equal inputs reported as different")
	}
	out.Reset()
	if !writeDiff(&out, "a\nb\nc\n", "a\nx\nc\n", false) {
		t.Fatalf("difference not reported")
	}
	if got, want := out.String(), "  a\n- b\n+ x\n  c\n"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRender_ConvertKeepsOrder(t *testing.T) {
	tree, err := readTree(&MainConfig{}, strings.NewReader(`{"z":1,"a":[true,"s"]}`))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out, err := render(tree, true)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "z: 1\na:\n    - true\n    - s\n"; out != want {
		t.Fatalf("want %q, got %q", want, out)
	}
}
