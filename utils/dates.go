// utils/dates.go
package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date form accepted alongside RFC 3339.
const DateLayout = "2006-01-02"

// DaysPastDue counts whole UTC calendar days from due to now. It is zero
// while now is on or before the due date.
func DaysPastDue(due, now time.Time) int {
	days := int(utcDay(now).Sub(utcDay(due)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func utcDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts "YYYY-MM-DD" (as UTC midnight) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
}

// FormatDate renders t the way invoices and messages show dates.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
