package codable

import (
	"fmt"
	"strconv"
	"strings"
)

// KeyKind distinguishes string keys from integer indices.
type KeyKind uint8

const (
	KeyKindAny KeyKind = iota
	KeyKindString
	KeyKindInt
)

func (k KeyKind) String() string {
	switch k {
	case KeyKindString:
		return "string"
	case KeyKindInt:
		return "int"
	}
	return "any"
}

// Key addresses a child node: a property name or a sequence index.
// The zero Key is "no key" and is what the root container carries.
type Key struct {
	kind  KeyKind
	name  string
	index int
}

// StringKey returns a key naming a mapping property.
func StringKey(name string) Key { return Key{kind: KeyKindString, name: name} }

// IndexKey returns a key naming a sequence position.
func IndexKey(i int) Key { return Key{kind: KeyKindInt, index: i} }

// Kind returns KeyKindString or KeyKindInt, or KeyKindAny for the zero Key.
func (k Key) Kind() KeyKind { return k.kind }

// IsValid reports whether k names something.
func (k Key) IsValid() bool { return k.kind != KeyKindAny }

func (k Key) Name() (string, bool) { return k.name, k.kind == KeyKindString }

func (k Key) Index() (int, bool) { return k.index, k.kind == KeyKindInt }

// Interface returns the key as a string or an int.
func (k Key) Interface() any {
	switch k.kind {
	case KeyKindString:
		return k.name
	case KeyKindInt:
		return k.index
	}
	return nil
}

func (k Key) String() string {
	switch k.kind {
	case KeyKindString:
		return k.name
	case KeyKindInt:
		return strconv.Itoa(k.index)
	}
	return ""
}

func (k Key) Equal(o Key) bool { return k == o }

// Path is the sequence of keys from the root to a node.
type Path []Key

// Append returns a new path with k added; p is not modified.
func (p Path) Append(k Key) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, k)
}

func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// String renders the path as dotted names with bracketed indices, for
// example "items[2].price". Names that would not parse back are quoted.
// The root renders as "".
func (p Path) String() string {
	var b strings.Builder
	for i, k := range p {
		if k.kind == KeyKindInt {
			fmt.Fprintf(&b, "[%d]", k.index)
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		if needsQuote(k.name) {
			b.WriteString(strconv.Quote(k.name))
		} else {
			b.WriteString(k.name)
		}
	}
	return b.String()
}

// Pointer renders the path as an RFC 6901 JSON Pointer; the root is "/".
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, k := range p {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(k.String()))
	}
	return b.String()
}

var (
	pointerEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsAny(s, ".[]\"\\ \t\n")
}

// ParsePath parses either the dotted form produced by Path.String or a JSON
// Pointer (leading "/"). In pointer form, segments made only of digits
// become index keys.
func ParsePath(s string) (Path, error) {
	if s == "" || s == "." || s == "$" {
		return Path{}, nil
	}
	if strings.HasPrefix(s, "/") {
		return parsePointer(s), nil
	}
	return parseDotted(s)
}

func parsePointer(s string) Path {
	if s == "/" {
		return Path{}
	}
	var p Path
	for _, seg := range strings.Split(s[1:], "/") {
		seg = pointerUnescaper.Replace(seg)
		if n, err := strconv.Atoi(seg); err == nil && n >= 0 && strconv.Itoa(n) == seg {
			p = append(p, IndexKey(n))
			continue
		}
		p = append(p, StringKey(seg))
	}
	return p
}

func parseDotted(s string) (Path, error) {
	s = strings.TrimPrefix(s, "$")
	var p Path
	i := 0
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			if i == len(s) {
				return nil, fmt.Errorf("codable: path %q ends with '.'", s)
			}
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("codable: unterminated index in path %q", s)
			}
			n, err := strconv.Atoi(s[i+1 : i+end])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("codable: bad index %q in path %q", s[i+1:i+end], s)
			}
			p = append(p, IndexKey(n))
			i += end + 1
		case '"':
			q, err := strconv.QuotedPrefix(s[i:])
			if err != nil {
				return nil, fmt.Errorf("codable: bad quoted key in path %q: %w", s, err)
			}
			name, _ := strconv.Unquote(q)
			p = append(p, StringKey(name))
			i += len(q)
		default:
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' {
				j++
			}
			p = append(p, StringKey(s[i:j]))
			i = j
		}
	}
	return p, nil
}
