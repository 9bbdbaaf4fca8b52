package codable

import (
	"log/slog"
	"reflect"
	"time"
)

// Well-known modes. Any string may be used as a mode; properties tagged
// with modes=... only take part when the active mode is listed.
const (
	ModeStore   = "store"
	ModeDisplay = "display"
	ModeExport  = "export"
)

// DefaultDateTimeFormat is used when neither the call nor the context names
// a layout.
const DefaultDateTimeFormat = time.RFC3339

// Context carries settings shared by every container of one decode or
// encode run. A child context reads through to its parent for anything it
// does not set itself.
type Context struct {
	parent *Context

	mode           string
	modeSet        bool
	dateTimeFormat string
	location       *time.Location
	delegates      *Delegates
	logger         *slog.Logger
}

func (c *Context) Mode() string {
	for x := c; x != nil; x = x.parent {
		if x.modeSet {
			return x.mode
		}
	}
	return ""
}

func (c *Context) SetMode(mode string) {
	c.mode, c.modeSet = mode, true
}

// DateTimeFormat returns the layout for date/time values.
func (c *Context) DateTimeFormat() string {
	for x := c; x != nil; x = x.parent {
		if x.dateTimeFormat != "" {
			return x.dateTimeFormat
		}
	}
	return DefaultDateTimeFormat
}

func (c *Context) SetDateTimeFormat(layout string) { c.dateTimeFormat = layout }

// Location returns the configured time zone, or nil when none is set.
func (c *Context) Location() *time.Location {
	for x := c; x != nil; x = x.parent {
		if x.location != nil {
			return x.location
		}
	}
	return nil
}

func (c *Context) SetLocation(loc *time.Location) { c.location = loc }

// Delegates returns the registry owned by this context.
func (c *Context) Delegates() *Delegates {
	if c.delegates == nil {
		c.delegates = NewDelegates()
	}
	return c.delegates
}

// RegisterDelegate registers d for values of exactly type t.
func (c *Context) RegisterDelegate(t reflect.Type, d any) error {
	return c.Delegates().Register(t, d)
}

// Delegate looks t up in this context and then in its ancestors.
func (c *Context) Delegate(t reflect.Type) (any, bool) {
	for x := c; x != nil; x = x.parent {
		if x.delegates == nil {
			continue
		}
		if d, ok := x.delegates.Lookup(t); ok {
			return d, true
		}
	}
	return nil, false
}

func (c *Context) decodeDelegate(t reflect.Type) (DecodeDelegate, bool) {
	d, ok := c.Delegate(t)
	if !ok {
		return nil, false
	}
	if p, ok := d.(partialDelegate); ok && !p.canDecode() {
		return nil, false
	}
	dd, ok := d.(DecodeDelegate)
	return dd, ok
}

func (c *Context) encodeDelegate(t reflect.Type) (EncodeDelegate, bool) {
	d, ok := c.Delegate(t)
	if !ok {
		return nil, false
	}
	if p, ok := d.(partialDelegate); ok && !p.canEncode() {
		return nil, false
	}
	ed, ok := d.(EncodeDelegate)
	return ed, ok
}

func (c *Context) SetLogger(l *slog.Logger) { c.logger = l }

// Logger returns the configured logger; it discards output by default.
func (c *Context) Logger() *slog.Logger {
	for x := c; x != nil; x = x.parent {
		if x.logger != nil {
			return x.logger
		}
	}
	return discardLogger
}

var discardLogger = slog.New(slog.DiscardHandler)

// DecodingContext configures decoding.
type DecodingContext struct {
	Context
}

func NewDecodingContext() *DecodingContext { return &DecodingContext{} }

// Child returns a context that inherits every setting of c.
func (c *DecodingContext) Child() *DecodingContext {
	return &DecodingContext{Context: Context{parent: &c.Context}}
}

// EncodingContext configures encoding.
type EncodingContext struct {
	Context
	useMaps bool
}

func NewEncodingContext() *EncodingContext { return &EncodingContext{} }

// UseMapsForObjects reports whether mapping nodes are built as
// map[string]any instead of ordered *value.Object.
func (c *EncodingContext) UseMapsForObjects() bool { return c.useMaps }

func (c *EncodingContext) SetUseMapsForObjects(v bool) { c.useMaps = v }
