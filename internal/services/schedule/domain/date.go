package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DisplayLayout is the DD-MMM-YYYY form used for the day cursor.
const DisplayLayout = "02-Jan-2006"

// ErrInvalidDate indicates an unparseable display date.
var ErrInvalidDate = errors.New("invalid display date")

// Date is a calendar day with no time-of-day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in loc (time.Local when nil).
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	year, month, day := t.In(loc).Date()
	return Date{Year: year, Month: month, Day: day}
}

// ParseDisplayDate parses a DD-MMM-YYYY cursor value.
func ParseDisplayDate(raw string) (Date, error) {
	parsed, err := time.Parse(DisplayLayout, strings.TrimSpace(raw))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return DateOf(parsed, time.UTC), nil
}

// String formats d in DisplayLayout.
func (d Date) String() string {
	return d.utc().Format(DisplayLayout)
}

// MarshalText encodes d in DisplayLayout.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a DisplayLayout value.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDisplayDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsZero reports whether d is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

// AddDays returns d shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC), time.UTC)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.utc().Before(other.utc())
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.utc().After(other.utc())
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// DaysBetween returns the number of calendar days from a to b. Both are
// compared as UTC midnights so zone transitions never skew the count.
func DaysBetween(a Date, b Date) int {
	return int(b.utc().Sub(a.utc()).Hours() / 24)
}

func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}
