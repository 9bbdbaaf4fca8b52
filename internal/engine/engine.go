package engine

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/reoring/codable/value"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindBeginObject:
		return "begin-object"
	case KindEndObject:
		return "end-object"
	case KindBeginArray:
		return "begin-array"
	case KindEndArray:
		return "end-array"
	case KindKey:
		return "key"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	}
	return "unknown"
}

// Token represents a streaming token with approximate input offset.
// Numbers keep their source text.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ErrUnexpectedToken is returned when the token stream is not well formed.
var ErrUnexpectedToken = errors.New("unexpected token")

// BuildTree reads exactly one value from src and returns it as a raw tree:
// objects become *value.Object in document order, arrays []any, integral
// numbers int64 and other numbers float64. A repeated key keeps its first
// position and its last value. Trailing tokens are an error.
func BuildTree(src TokenSource) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	v, err := buildValue(src, tok)
	if err != nil {
		return nil, err
	}
	extra, err := src.NextToken()
	switch {
	case errors.Is(err, io.EOF):
		return v, nil
	case err != nil:
		return nil, err
	}
	return nil, fmt.Errorf("%w: trailing %s after value", ErrUnexpectedToken, extra.Kind)
}

func buildValue(src TokenSource, tok Token) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return buildObject(src)
	case KindBeginArray:
		return buildArray(src)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return ParseNumber(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnexpectedToken, tok.Kind)
}

func buildObject(src TokenSource) (any, error) {
	obj := value.NewObject(0)
	for {
		tok, err := next(src)
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return obj, nil
		}
		if tok.Kind != KindKey {
			return nil, fmt.Errorf("%w: %s where a key was expected", ErrUnexpectedToken, tok.Kind)
		}
		vt, err := next(src)
		if err != nil {
			return nil, err
		}
		v, err := buildValue(src, vt)
		if err != nil {
			return nil, err
		}
		obj.Set(tok.String, v)
	}
}

func buildArray(src TokenSource) (any, error) {
	arr := []any{}
	for {
		tok, err := next(src)
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := buildValue(src, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

// next treats EOF inside a container as truncation.
func next(src TokenSource) (Token, error) {
	tok, err := src.NextToken()
	if errors.Is(err, io.EOF) {
		return Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}

// ParseNumber returns int64 for integral literals that fit, float64
// otherwise.
func ParseNumber(s string) (any, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("bad number %q: %w", s, err)
	}
	return f, nil
}
