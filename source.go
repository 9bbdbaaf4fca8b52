package codable

import (
	"io"
	"sync"

	eng "github.com/reoring/codable/internal/engine"
	"github.com/reoring/codable/source/gojson"
	yamlsrc "github.com/reoring/codable/source/yaml"
)

// TokenKind enumerates token kinds produced by a Source.
type TokenKind = eng.Kind

const (
	TokenBeginObject TokenKind = eng.KindBeginObject
	TokenEndObject   TokenKind = eng.KindEndObject
	TokenBeginArray  TokenKind = eng.KindBeginArray
	TokenEndArray    TokenKind = eng.KindEndArray
	TokenKey         TokenKind = eng.KindKey
	TokenString      TokenKind = eng.KindString
	TokenNumber      TokenKind = eng.KindNumber
	TokenBool        TokenKind = eng.KindBool
	TokenNull        TokenKind = eng.KindNull
)

// Token describes a token in the input stream. Numbers keep their source
// text; Offset records the byte position when known (-1 otherwise).
type Token = eng.Token

// Source produces the tokens of one document. io.EOF ends the stream.
type Source = eng.TokenSource

// JSONDriver converts JSON input into a Source via a pluggable SPI. The
// default implementation is based on goccy/go-json and may be swapped with
// SetJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the go-json driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = defaultJSONDriver{}
	jsonDriverMu.Unlock()
}

func getJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

type defaultJSONDriver struct{}

func (defaultJSONDriver) NewReader(r io.Reader) Source { return gojson.NewReader(r) }
func (defaultJSONDriver) NewBytes(b []byte) Source     { return gojson.NewBytes(b) }
func (defaultJSONDriver) Name() string                 { return "go-json" }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return getJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return getJSONDriver().NewBytes(b) }

// YAMLReader wraps an io.Reader as a YAML Source.
func YAMLReader(r io.Reader) Source { return yamlsrc.NewReader(r) }

// YAMLBytes wraps a byte slice as a YAML Source.
func YAMLBytes(b []byte) Source { return yamlsrc.NewBytes(b) }

// EnforceSource wraps a Source with runtime enforcement (duplicate keys,
// depth, bytes). It returns s unchanged when opt enables no check.
func EnforceSource(s Source, opt ReadOpt) Source {
	eo := eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
	}
	if !eo.Enabled() {
		return s
	}
	if opt.OnWarning != nil {
		eo.IssueSink = func(si eng.SimpleIssue) { opt.OnWarning(fromEngineIssue(si)) }
	}
	return eng.WrapWithEnforcement(s, eo)
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case SeverityError:
		return eng.DupError
	case SeverityWarn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}
