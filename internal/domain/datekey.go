package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used for every date-keyed mapping.
const DateLayout = "2006-01-02"

// DateKey is a validated local calendar date in YYYY-MM-DD form.
type DateKey string

// ParseDateKey validates s and returns it as a DateKey.
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return "", fmt.Errorf("date %q: %w", s, ErrInvalidDate)
	}
	return DateKey(t.Format(DateLayout)), nil
}

// DateKeyFor returns the local calendar date of t.
func DateKeyFor(t time.Time) DateKey {
	return DateKey(t.In(time.Local).Format(DateLayout))
}

// Time returns local midnight of the date. An invalid key yields the zero time.
func (d DateKey) Time() time.Time {
	t, err := time.ParseInLocation(DateLayout, string(d), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the date n calendar days away. Uses calendar arithmetic so DST
// transitions never skip or repeat a day.
func (d DateKey) AddDays(n int) DateKey {
	t := d.Time()
	if t.IsZero() {
		return d
	}
	return DateKey(t.AddDate(0, 0, n).Format(DateLayout))
}

// Valid reports whether d is a canonical YYYY-MM-DD date.
func (d DateKey) Valid() bool {
	t, err := time.ParseInLocation(DateLayout, string(d), time.Local)
	return err == nil && t.Format(DateLayout) == string(d)
}

func (d DateKey) String() string {
	return string(d)
}
