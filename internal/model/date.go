package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("model: invalid date key")

const DateLayout = "2006-01-02"

// DateKey is a calendar date in YYYY-MM-DD form. Lexicographic order
// matches chronological order, which rollover relies on.
type DateKey string

func ParseDateKey(raw string) (DateKey, error) {
	trimmed := strings.TrimSpace(raw)
	t, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return DateKey(t.Format(DateLayout)), nil
}

func DateKeyOf(t time.Time) DateKey {
	return DateKey(t.Format(DateLayout))
}

func (d DateKey) IsValid() bool {
	_, err := time.Parse(DateLayout, string(d))
	return err == nil
}

// Time returns local midnight for the date.
func (d DateKey) Time() time.Time {
	t, err := time.ParseInLocation(DateLayout, string(d), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d DateKey) AddDays(n int) DateKey {
	t := d.Time()
	if t.IsZero() {
		return d
	}
	return DateKeyOf(t.AddDate(0, 0, n))
}

func (d DateKey) Before(other DateKey) bool {
	return d < other
}

func (d DateKey) String() string {
	return string(d)
}

// At combines the date with an "HH:MM" clock in the local zone.
func (d DateKey) At(clock string) (time.Time, bool) {
	if !IsClock(clock) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout+" 15:04", string(d)+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
