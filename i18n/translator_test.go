package i18n

import "testing"

func TestTranslator_DefaultAndDutch(t *testing.T) {
	// default is en
	if msg := T("key_not_found", nil); msg != "key not found" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("nl")
	defer SetLanguage("en")
	if msg := T("key_not_found", nil); msg != "sleutel niet gevonden" {
		t.Fatalf("expected dutch message, got %q", msg)
	}
}

func TestTranslator_Placeholders(t *testing.T) {
	got := T("value_type_mismatch", map[string]string{"expected": "string", "actual": "int"})
	if want := "type mismatch: expected string, got int"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestTranslator_UnknownCodeFallsBack(t *testing.T) {
	if got := T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("unknown codes should echo the code, got %q", got)
	}
	SetLanguage("xx")
	if got := T("read_only", nil); got != "container is read-only" {
		t.Fatalf("unknown language should fall back to en, got %q", got)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if got := T("read_only", nil); got != "X:read_only" {
		t.Fatalf("custom translator not used, got %q", got)
	}
}
