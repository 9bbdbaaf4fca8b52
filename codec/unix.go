package codec

import (
	"time"

	"github.com/reoring/codable"
)

// UnixTime returns a delegate that maps time.Time to whole seconds since
// the Unix epoch. Decoded times are in UTC.
func UnixTime() codable.Delegate {
	return codable.Delegate{
		DecodeFunc: func(c *codable.DecodingContainer, _ any) (any, error) {
			n, err := c.DecodeInt()
			if err != nil {
				return nil, err
			}
			return time.Unix(n, 0).UTC(), nil
		},
		EncodeFunc: func(c *codable.EncodingContainer, v any) error {
			c.EncodeInt(v.(time.Time).Unix())
			return nil
		},
	}
}
