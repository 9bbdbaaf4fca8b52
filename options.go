package codable

import "time"

// Option tunes a single container operation.
type Option func(*options)

type options struct {
	strict    bool
	strictSet bool
	keyKind   KeyKind
	format    string
	location  *time.Location
}

func collectOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o options) isStrict(def bool) bool {
	if o.strictSet {
		return o.strict
	}
	return def
}

// Strict requires the raw node to have exactly the expected shape: a
// mapping for objects, a sequence for arrays, a key of the matching kind
// for nested lookups.
func Strict() Option { return func(o *options) { o.strict, o.strictSet = true, true } }

// Lenient relaxes Strict: mappings and sequences are interchangeable and
// nested lookups coerce between string and integer keys.
func Lenient() Option { return func(o *options) { o.strict, o.strictSet = false, true } }

// WithKeyKind requires every key of a decoded array to be of kind k.
func WithKeyKind(k KeyKind) Option { return func(o *options) { o.keyKind = k } }

// WithFormat sets a Go time layout. When decoding, the layout is applied
// strictly; without it a set of common layouts is tried.
func WithFormat(layout string) Option { return func(o *options) { o.format = layout } }

// WithLocation sets the time zone used to interpret or render date/times.
func WithLocation(loc *time.Location) Option { return func(o *options) { o.location = loc } }
