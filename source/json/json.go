// Package json turns JSON text into engine tokens using encoding/json.
// Offsets are exact, at the cost of a slower tokenizer than the go-json
// driver.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	eng "github.com/reoring/codable/internal/engine"
)

// Driver plugs this tokenizer into codable.SetJSONDriver.
type Driver struct{}

func (Driver) NewReader(r io.Reader) eng.TokenSource { return NewReader(r) }
func (Driver) NewBytes(b []byte) eng.TokenSource     { return NewBytes(b) }
func (Driver) Name() string                          { return "encoding/json" }

type frame struct {
	object       bool
	expectingKey bool
}

type jsonSource struct {
	dec   *json.Decoder
	stack []frame
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON.
func NewReader(r io.Reader) eng.TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *jsonSource) valueDone() {
	if n := len(s.stack); n > 0 && s.stack[n-1].object {
		s.stack[n-1].expectingKey = true
	}
}

func (s *jsonSource) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	t := eng.Token{Offset: s.dec.InputOffset()}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{object: true, expectingKey: true})
			t.Kind = eng.KindBeginObject
		case '[':
			s.stack = append(s.stack, frame{})
			t.Kind = eng.KindBeginArray
		case '}', ']':
			if n := len(s.stack); n > 0 {
				s.stack = s.stack[:n-1]
			}
			s.valueDone()
			t.Kind = eng.KindEndArray
			if v == '}' {
				t.Kind = eng.KindEndObject
			}
		}
		return t, nil
	case string:
		if n := len(s.stack); n > 0 && s.stack[n-1].object && s.stack[n-1].expectingKey {
			s.stack[n-1].expectingKey = false
			t.Kind, t.String = eng.KindKey, v
			return t, nil
		}
		t.Kind, t.String = eng.KindString, v
	case bool:
		t.Kind, t.Bool = eng.KindBool, v
	case json.Number:
		t.Kind, t.Number = eng.KindNumber, string(v)
	case nil:
		t.Kind = eng.KindNull
	default:
		return eng.Token{}, fmt.Errorf("json: unexpected token %T", tok)
	}
	s.valueDone()
	return t, nil
}

func (s *jsonSource) Location() int64 { return s.dec.InputOffset() }
