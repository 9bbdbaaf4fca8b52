// Package yaml turns YAML documents into engine tokens using gopkg.in/yaml.v3.
// Only the first document of a stream is read.
package yaml

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/codable/internal/engine"
)

type source struct {
	toks []eng.Token
	i    int
	size int64
	err  error
}

// NewBytes parses b and returns its tokens as an engine.TokenSource.
func NewBytes(b []byte) eng.TokenSource {
	return NewReader(bytes.NewReader(b))
}

// NewReader parses r and returns its tokens as an engine.TokenSource. Parse
// errors surface from the first NextToken call.
func NewReader(r io.Reader) eng.TokenSource {
	data, err := io.ReadAll(r)
	if err != nil {
		return &source{err: err}
	}
	s := &source{size: int64(len(data))}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		s.err = err
		return s
	}
	if doc.Kind == 0 {
		s.err = io.EOF
		return s
	}
	s.err = s.appendNode(&doc, 0)
	return s
}

func (s *source) NextToken() (eng.Token, error) {
	if s.err != nil {
		return eng.Token{}, s.err
	}
	if s.i >= len(s.toks) {
		return eng.Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

// Location reports the document size once parsed; YAML is materialized
// up front.
func (s *source) Location() int64 { return s.size }

const maxAliasDepth = 10000

func (s *source) appendNode(n *yaml.Node, depth int) error {
	if depth > maxAliasDepth {
		return fmt.Errorf("yaml: nesting too deep at line %d", n.Line)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return io.EOF
		}
		return s.appendNode(n.Content[0], depth+1)
	case yaml.AliasNode:
		return s.appendNode(n.Alias, depth+1)
	case yaml.SequenceNode:
		s.toks = append(s.toks, eng.Token{Kind: eng.KindBeginArray, Offset: -1})
		for _, c := range n.Content {
			if err := s.appendNode(c, depth+1); err != nil {
				return err
			}
		}
		s.toks = append(s.toks, eng.Token{Kind: eng.KindEndArray, Offset: -1})
	case yaml.MappingNode:
		s.toks = append(s.toks, eng.Token{Kind: eng.KindBeginObject, Offset: -1})
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind == yaml.AliasNode {
				k = k.Alias
			}
			if k.Kind != yaml.ScalarNode {
				return fmt.Errorf("yaml: unsupported non-scalar key at line %d", k.Line)
			}
			s.toks = append(s.toks, eng.Token{Kind: eng.KindKey, String: k.Value, Offset: -1})
			if err := s.appendNode(n.Content[i+1], depth+1); err != nil {
				return err
			}
		}
		s.toks = append(s.toks, eng.Token{Kind: eng.KindEndObject, Offset: -1})
	case yaml.ScalarNode:
		t, err := scalarToken(n)
		if err != nil {
			return err
		}
		s.toks = append(s.toks, t)
	default:
		return fmt.Errorf("yaml: unsupported node kind %d at line %d", n.Kind, n.Line)
	}
	return nil
}

func scalarToken(n *yaml.Node) (eng.Token, error) {
	switch n.ShortTag() {
	case "!!null":
		return eng.Token{Kind: eng.KindNull, Offset: -1}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return eng.Token{}, err
		}
		return eng.Token{Kind: eng.KindBool, Bool: b, Offset: -1}, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			var f float64
			if ferr := n.Decode(&f); ferr != nil {
				return eng.Token{}, err
			}
			return floatToken(f), nil
		}
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatInt(i, 10), Offset: -1}, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return eng.Token{}, err
		}
		return floatToken(f), nil
	}
	return eng.Token{Kind: eng.KindString, String: n.Value, Offset: -1}, nil
}

// floatToken renders f so that it is never read back as an integer.
func floatToken(f float64) eng.Token {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !math.IsInf(f, 0) && !math.IsNaN(f) {
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			s += ".0"
		}
	}
	return eng.Token{Kind: eng.KindNumber, Number: s, Offset: -1}
}
