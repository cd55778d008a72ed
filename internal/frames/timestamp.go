package frames

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/heliosim/internal/dynamo"
)

// Timestamp is a validated civil UTC instant.
type Timestamp struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second float64
}

func NewTimestamp(year, month, day, hour, minute int, second float64) (Timestamp, error) {
	ts := Timestamp{Year: year, Month: month, Day: day, Hour: hour, Minute: minute, Second: second}
	if err := ts.Validate(); err != nil {
		return Timestamp{}, err
	}
	return ts, nil
}

// FromTime converts t to UTC.
func FromTime(t time.Time) Timestamp {
	t = t.UTC()
	return Timestamp{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: float64(t.Second()) + float64(t.Nanosecond())/1e9,
	}
}

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parse accepts RFC 3339 and a few date-time layouts without a zone, which
// are read as UTC.
func Parse(s string) (Timestamp, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}
	return Timestamp{}, &dynamo.TimestampError{Timestamp: s, Wrapped: dynamo.ErrInvalidTimestamp}
}

func (ts Timestamp) Validate() error {
	fail := func(reason string) error {
		return &dynamo.TimestampError{
			Timestamp: ts.String(),
			Wrapped:   fmt.Errorf("%w: %s", dynamo.ErrInvalidTimestamp, reason),
		}
	}
	switch {
	case ts.Month < 1 || ts.Month > 12:
		return fail("month out of range")
	case ts.Day < 1 || ts.Day > daysIn(ts.Year, ts.Month):
		return fail("day out of range")
	case ts.Hour < 0 || ts.Hour > 23:
		return fail("hour out of range")
	case ts.Minute < 0 || ts.Minute > 59:
		return fail("minute out of range")
	case math.IsNaN(ts.Second) || ts.Second < 0 || ts.Second >= 60:
		return fail("second out of range")
	}
	return nil
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// UT is the time of day in fractional hours.
func (ts Timestamp) UT() float64 {
	return float64(ts.Hour) + float64(ts.Minute)/60 + ts.Second/3600
}

func (ts Timestamp) Time() time.Time {
	whole, frac := math.Modf(ts.Second)
	return time.Date(ts.Year, time.Month(ts.Month), ts.Day, ts.Hour, ts.Minute,
		int(whole), int(math.Round(frac*1e9)), time.UTC)
}

func (ts Timestamp) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%06.3fZ", ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second)
}
