package codable

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/reoring/codable/i18n"
	"github.com/reoring/codable/value"
)

// Error codes carried by *Error.
const (
	CodePathNotFound      = "path_not_found"
	CodeValueNotFound     = "value_not_found"
	CodeValueTypeMismatch = "value_type_mismatch"
	CodeKeyNotFound       = "key_not_found"
	CodeKeyTypeMismatch   = "key_type_mismatch"
	CodeInvalidValue      = "invalid_value"
	CodeDateTimeFormat    = "date_time_format"
	CodeReadOnly          = "read_only"
	CodeEncodingFailure   = "encoding_failure"
	// Reader codes.
	CodeDuplicateKey = "duplicate_key"
	CodeParseError   = "parse_error"
	CodeTruncated    = "truncated"
)

// Sentinels for errors.Is. Every *Error matches the sentinel of its code.
var (
	ErrPathNotFound      = errors.New("codable: path not found")
	ErrValueNotFound     = errors.New("codable: value not found")
	ErrValueTypeMismatch = errors.New("codable: value type mismatch")
	ErrKeyNotFound       = errors.New("codable: key not found")
	ErrKeyTypeMismatch   = errors.New("codable: key type mismatch")
	ErrInvalidValue      = errors.New("codable: invalid value")
	ErrDateTimeFormat    = errors.New("codable: date/time format")
	ErrReadOnly          = errors.New("codable: read-only container")
	ErrEncodingFailure   = errors.New("codable: encoding failure")
	ErrDuplicateKey      = errors.New("codable: duplicate key")
	ErrMalformedInput    = errors.New("codable: malformed input")
)

var sentinels = map[string]error{
	CodePathNotFound:      ErrPathNotFound,
	CodeValueNotFound:     ErrValueNotFound,
	CodeValueTypeMismatch: ErrValueTypeMismatch,
	CodeKeyNotFound:       ErrKeyNotFound,
	CodeKeyTypeMismatch:   ErrKeyTypeMismatch,
	CodeInvalidValue:      ErrInvalidValue,
	CodeDateTimeFormat:    ErrDateTimeFormat,
	CodeReadOnly:          ErrReadOnly,
	CodeEncodingFailure:   ErrEncodingFailure,
	CodeDuplicateKey:      ErrDuplicateKey,
	CodeParseError:        ErrMalformedInput,
	CodeTruncated:         ErrMalformedInput,
}

// Error is the single error type raised by containers and readers.
// Fields other than Code and Path are filled depending on the code.
type Error struct {
	Code     string
	Path     Path
	Actual   string // kind found (type and key mismatches)
	Expected string // kind or type wanted
	Value    any    // offending raw value
	Type     string // target type name
	Format   string // date/time layout, "<any>" for lenient parsing
	Err      error  // underlying cause, if any
}

func (e *Error) Error() string {
	b := &strings.Builder{}
	b.WriteString("codable: ")
	b.WriteString(i18n.T(e.Code, e.params()))
	if len(e.Path) > 0 {
		fmt.Fprintf(b, " at %s", e.Path)
	}
	if e.Err != nil {
		fmt.Fprintf(b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) params() map[string]string {
	m := map[string]string{}
	if e.Actual != "" {
		m["actual"] = e.Actual
	}
	if e.Expected != "" {
		m["expected"] = e.Expected
	}
	if e.Type != "" {
		m["type"] = e.Type
	}
	if e.Format != "" {
		m["format"] = e.Format
	}
	if e.Value != nil {
		m["value"] = fmt.Sprintf("%#v", e.Value)
	}
	return m
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Code.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Code]
	return ok && s == target
}

// AsError extracts *Error from an error chain.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func pathNotFound(p Path) error  { return &Error{Code: CodePathNotFound, Path: p} }
func valueNotFound(p Path) error { return &Error{Code: CodeValueNotFound, Path: p} }
func keyNotFound(p Path) error   { return &Error{Code: CodeKeyNotFound, Path: p} }
func readOnly(p Path) error      { return &Error{Code: CodeReadOnly, Path: p} }

func typeMismatch(p Path, raw any, expected string) error {
	return &Error{Code: CodeValueTypeMismatch, Path: p, Actual: value.KindOf(raw).String(), Expected: expected}
}

func keyTypeMismatch(p Path, actual, expected KeyKind) error {
	return &Error{Code: CodeKeyTypeMismatch, Path: p, Actual: actual.String(), Expected: expected.String()}
}

func invalidValue(p Path, raw any, t reflect.Type, cause error) error {
	return &Error{Code: CodeInvalidValue, Path: p, Value: raw, Type: typeName(t), Err: cause}
}

func dateTimeFormat(p Path, raw any, format string, cause error) error {
	return &Error{Code: CodeDateTimeFormat, Path: p, Value: raw, Format: format, Err: cause}
}

func encodingFailure(p Path, t reflect.Type, cause error) error {
	return &Error{Code: CodeEncodingFailure, Path: p, Type: typeName(t), Err: cause}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "any"
	}
	return t.String()
}
