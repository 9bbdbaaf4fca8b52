// Package codec provides ready-made delegates for common value types.
// Register them on a decoding or encoding context:
//
//	codable.RegisterDelegate[time.Time](ctx, codec.TimeRFC3339())
package codec

import (
	"time"

	"github.com/reoring/codable"
)

// TimeRFC3339 returns a delegate that reads RFC3339 strings (fractional
// seconds optional) into time.Time and writes them back in UTC with
// RFC3339Nano, which trims trailing zeros.
func TimeRFC3339() codable.Delegate {
	return codable.Delegate{
		DecodeFunc: func(c *codable.DecodingContainer, _ any) (any, error) {
			s, err := c.DecodeString()
			if err != nil {
				return nil, err
			}
			t, err := parseRFC3339(s)
			if err != nil {
				return nil, &codable.Error{Code: codable.CodeDateTimeFormat, Path: c.Path(), Value: s, Format: time.RFC3339, Err: err}
			}
			return t, nil
		},
		EncodeFunc: func(c *codable.EncodingContainer, v any) error {
			c.EncodeString(formatRFC3339Canonical(v.(time.Time)))
			return nil
		},
	}
}

func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
