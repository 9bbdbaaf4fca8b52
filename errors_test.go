package codable_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reoring/codable"
	"github.com/reoring/codable/i18n"
)

func TestError_IsAndAs(t *testing.T) {
	_, err := root(object("n", "x")).Field("n").DecodeInt()
	wrapped := fmt.Errorf("loading config: %w", err)

	if !errors.Is(wrapped, codable.ErrValueTypeMismatch) {
		t.Fatalf("wrapped error should match its sentinel")
	}
	if errors.Is(wrapped, codable.ErrInvalidValue) {
		t.Fatalf("error must not match other sentinels")
	}
	var e *codable.Error
	if !errors.As(wrapped, &e) || e.Code != codable.CodeValueTypeMismatch {
		t.Fatalf("errors.As: %v", wrapped)
	}
	if _, ok := codable.AsError(nil); ok {
		t.Fatalf("AsError(nil) must fail")
	}
	if _, ok := codable.AsError(errors.New("plain")); ok {
		t.Fatalf("AsError on a foreign error must fail")
	}
}

func TestError_Messages(t *testing.T) {
	c := root(object("n", "x", "d", "soon"))
	for _, tc := range []struct {
		name string
		err  error
		want string
	}{
		{
			name: "mismatch",
			err:  func() error { _, err := c.Field("n").DecodeBool(); return err }(),
			want: "codable: type mismatch: expected bool, got string at n",
		},
		{
			name: "missing",
			err:  func() error { _, err := c.Field("zz").DecodeBool(); return err }(),
			want: "codable: path not found at zz",
		},
		{
			name: "read only",
			err:  c.Set(codable.StringKey("n"), 1),
			want: "codable: container is read-only",
		},
		{
			name: "date",
			err: func() error {
				_, err := c.Field("d").DecodeDateTime(codable.WithFormat("2006"))
				return errors.Unwrap(err)
			}(),
			want: `parsing time "soon" as "2006": cannot parse "soon" as "2006"`,
		},
	} {
		if tc.err == nil || tc.err.Error() != tc.want {
			t.Fatalf("%s: want %q, got %v", tc.name, tc.want, tc.err)
		}
	}
}

func TestError_Translated(t *testing.T) {
	i18n.SetLanguage("nl")
	defer i18n.SetLanguage("en")

	_, err := root(object("n", "x")).Field("n").DecodeInt()
	if got := err.Error(); got != "codable: verkeerd type: int verwacht, string ontvangen at n" {
		t.Fatalf("nl message: %q", got)
	}
}
