package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 wire format used for calendar dates everywhere
// in the application: local storage keys, remote store paths and JSON.
const DateFormat = "2006-01-02"

// Date represents a calendar date with day granularity. It deliberately has
// no time-of-day or timezone component: "which day a record belongs to" is
// decided once, by the clock service, using the local wall clock.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date for the given year, month and day.
// Out-of-range values are carried over the same way time.Date does
// (e.g. January 32 becomes February 1).
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// time returns the canonical representation of the date: midnight UTC.
func (d Date) time() time.Time {
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// Before reports whether d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Add returns a new Date with the given number of days added.
// Negative values move backwards.
func (d Date) Add(days int) Date { return NewDate(d.y, d.m, d.d+days) }

// DaysBetween returns the number of calendar days from d to x.
// Positive when x is after d.
func (d Date) DaysBetween(x Date) int {
	return int(x.time().Sub(d.time()) / (24 * time.Hour))
}

// DaysBetween returns the number of calendar days from a to b. Positive
// when b is after a.
func DaysBetween(a, b Date) int {
	return a.DaysBetween(b)
}

// String formats the date in its standard ISO-8601 form.
func (d Date) String() string { return d.time().Format(DateFormat) }

// ParseDate parses an ISO-8601 date string ("2025-01-15").
func ParseDate(str string) (Date, error) {
	t, err := time.Parse(DateFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want format %q: %w", str, DateFormat, err)
	}
	return NewDate(t.Date()), nil
}

// MustParseDate is like ParseDate but panics on error. Intended for tests
// and compile-time-known constants.
func MustParseDate(str string) Date {
	d, err := ParseDate(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// MarshalJSON encodes the date as an ISO-8601 JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes the date from an ISO-8601 JSON string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseDate(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
