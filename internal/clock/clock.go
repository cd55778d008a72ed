// Package clock maps local wall-clock time to UTC through a daylight-saving
// offset policy.
package clock

import (
	"fmt"
	"strings"
	"time"

	"github.com/san-kum/heliosim/internal/dynamo"
)

// Policy returns the UTC offset in whole hours in force on a civil date.
// Only the year, month and day of date are read.
type Policy interface {
	OffsetHours(date time.Time) int
}

type PolicyFunc func(date time.Time) int

func (f PolicyFunc) OffsetHours(date time.Time) int { return f(date) }

// Fixed is a constant offset.
type Fixed int

func (f Fixed) OffsetHours(time.Time) int { return int(f) }

// Window applies Summer on Start <= date < End and Standard otherwise.
type Window struct {
	Start    time.Time
	End      time.Time
	Standard int
	Summer   int
}

func (w Window) OffsetHours(date time.Time) int {
	d := Date(date)
	if !d.Before(Date(w.Start)) && d.Before(Date(w.End)) {
		return w.Summer
	}
	return w.Standard
}

// Window2026 is the Central European calendar used for the 2026 study.
var Window2026 = Window{
	Start:    time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC),
	End:      time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC),
	Standard: 1,
	Summer:   2,
}

// EUSummerTime adds one hour from the last Sunday of March up to and
// including the last Sunday of October, for any year.
type EUSummerTime struct {
	Standard int
}

func (e EUSummerTime) OffsetHours(date time.Time) int {
	return e.WindowFor(date.Year()).OffsetHours(date)
}

// WindowFor returns the date window for year.
func (e EUSummerTime) WindowFor(year int) Window {
	return Window{
		Start:    lastSunday(year, time.March),
		End:      lastSunday(year, time.October).AddDate(0, 0, 1),
		Standard: e.Standard,
		Summer:   e.Standard + 1,
	}
}

func lastSunday(year int, month time.Month) time.Time {
	d := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// Date truncates t to its civil date at 00:00 UTC.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ToUTC converts a wall-clock instant, whose fields are read as local time,
// to UTC using the offset in force on its date.
func ToUTC(local time.Time, p Policy) time.Time {
	wall := time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), time.UTC)
	return wall.Add(-time.Duration(p.OffsetHours(wall)) * time.Hour)
}

// ParsePolicy builds a policy by name: "eu", "window" or "fixed".
func ParsePolicy(kind string, standard, summer int, start, end string) (Policy, error) {
	switch strings.ToLower(kind) {
	case "eu", "eu-summer-time", "":
		return EUSummerTime{Standard: standard}, nil
	case "fixed", "none":
		return Fixed(standard), nil
	case "window":
		s, err := time.Parse("2006-01-02", start)
		if err != nil {
			return nil, dynamo.Configuration("window start %q: %v", start, err)
		}
		e, err := time.Parse("2006-01-02", end)
		if err != nil {
			return nil, dynamo.Configuration("window end %q: %v", end, err)
		}
		if !s.Before(e) {
			return nil, dynamo.Configuration("window start %s is not before end %s", start, end)
		}
		return Window{Start: s, End: e, Standard: standard, Summer: summer}, nil
	default:
		return nil, fmt.Errorf("%w: unknown offset policy %q", dynamo.ErrConfiguration, kind)
	}
}
