package codec

import (
	"time"

	"github.com/reoring/codable"
)

// Duration returns a delegate that maps time.Duration to strings such as
// "1h30m". Integers are read as nanoseconds.
func Duration() codable.Delegate {
	return codable.Delegate{
		DecodeFunc: func(c *codable.DecodingContainer, _ any) (any, error) {
			if n, err := c.DecodeInt(); err == nil {
				return time.Duration(n), nil
			}
			s, err := c.DecodeString()
			if err != nil {
				return nil, err
			}
			d, err := time.ParseDuration(s)
			if err != nil {
				return nil, &codable.Error{Code: codable.CodeInvalidValue, Path: c.Path(), Value: s, Type: "time.Duration", Err: err}
			}
			return d, nil
		},
		EncodeFunc: func(c *codable.EncodingContainer, v any) error {
			c.EncodeString(v.(time.Duration).String())
			return nil
		},
	}
}
