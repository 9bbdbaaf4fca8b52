package codable

import (
	"errors"
	"time"
)

// lenientLayouts are tried in order when no format is given.
var lenientLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.RFC822Z,
	time.ANSIC,
	"02 Jan 2006",
	"Jan 2, 2006",
}

const anyFormat = "<any>"

// DecodeDateTime decodes a date/time string. With WithFormat the layout is
// applied strictly; otherwise common layouts are tried. The time zone comes
// from WithLocation, then the context, then UTC.
func (c *DecodingContainer) DecodeDateTime(opts ...Option) (time.Time, error) {
	s, err := c.DecodeString()
	if err != nil {
		return time.Time{}, err
	}
	o := collectOptions(opts)
	loc := o.location
	if loc == nil {
		loc = c.ctx.Location()
	}
	if loc == nil {
		loc = time.UTC
	}
	if o.format == "" {
		for _, layout := range lenientLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t, nil
			}
		}
		return time.Time{}, dateTimeFormat(c.Path(), s, anyFormat, errors.New("no known layout matched"))
	}
	t, err := time.ParseInLocation(o.format, s, loc)
	if err != nil {
		return time.Time{}, dateTimeFormat(c.Path(), s, o.format, err)
	}
	return t, nil
}

func (c *DecodingContainer) DecodeDateTimeIfExists(opts ...Option) (*time.Time, error) {
	return ifExists(c, func() (time.Time, error) { return c.DecodeDateTime(opts...) })
}

func (c *DecodingContainer) DecodeDateTimeIfPresent(opts ...Option) (*time.Time, error) {
	return ifPresent(c, func() (time.Time, error) { return c.DecodeDateTime(opts...) })
}

func formatDateTime(t time.Time, layout string, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(layout)
}
