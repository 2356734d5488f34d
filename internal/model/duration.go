package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	hoursPattern   = regexp.MustCompile(`(\d+)\s*h`)
	minutesPattern = regexp.MustCompile(`(\d+)\s*m`)
	leadingDigits  = regexp.MustCompile(`^\d+`)
)

// MaxDurationMinutes bounds a single parsed duration (one year).
const MaxDurationMinutes = 366 * 24 * 60

// ParseDuration converts free-form text such as "1h 30m", "45 min" or "20"
// into minutes. Only the first hour and minute matches count. Text with
// neither falls back to its leading integer, and anything else is 0.
// Results are never negative and are capped at MaxDurationMinutes.
func ParseDuration(text string) int {
	total := 0
	matched := false
	if m := hoursPattern.FindStringSubmatch(text); m != nil {
		total += min(atoi(m[1]), MaxDurationMinutes/60) * 60
		matched = true
	}
	if m := minutesPattern.FindStringSubmatch(text); m != nil {
		total += atoi(m[1])
		matched = true
	}
	if !matched {
		if lead := leadingDigits.FindString(strings.TrimSpace(text)); lead != "" {
			total = atoi(lead)
		}
	}
	return min(total, MaxDurationMinutes)
}

// FormatMinutes renders minutes as "Xh Ym".
func FormatMinutes(total int) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}

// FormatHours renders minutes as hours with one decimal.
func FormatHours(total int) string {
	return strconv.FormatFloat(float64(total)/60, 'f', 1, 64)
}

// atoi reads an unsigned digit run; values past the int range saturate.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return MaxDurationMinutes
		}
		return 0
	}
	return n
}
