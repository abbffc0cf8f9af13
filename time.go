package splitpay

import (
	"encoding/json"
	"time"

	"github.com/iov-one/splitpay/errors"
)

// UnixTime is a moment in seconds since the epoch. Records such as alias
// registration or payment request creation store it instead of time.Time so
// that the encoding is a plain integer.
type UnixTime int64

// AsUnixTime truncates t to whole seconds.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add works like time.Time.Add with sub second precision dropped.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().UTC().String()
}

// UnmarshalJSON accepts either a number of seconds or an RFC 3339 string, so
// that genesis files can be written by hand.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var secs int64
	if err := json.Unmarshal(raw, &secs); err != nil {
		var stamp time.Time
		if err := json.Unmarshal(raw, &stamp); err != nil {
			return errors.Wrap(errors.ErrInput, "invalid time format")
		}
		secs = stamp.Unix()
	}
	if secs < 0 {
		return errors.Wrap(errors.ErrInput, "time before epoch")
	}
	*t = UnixTime(secs)
	return nil
}
