package internal

import (
	"fmt"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// DateOf strips the clock from t, keeping the calendar date as seen in t's location.
// All engine comparisons are done on values normalized this way.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a calendar date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// AddMonths adds n calendar months to d. When the day of month does not exist in the
// target month, the result is clamped to that month's last day (Jan 31 + 1 month = Feb 28/29).
func AddMonths(d time.Time, n int) time.Time {
	y, m, day := d.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := daysInMonth(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysUntil returns the signed number of whole days from today to date,
// rounding elapsed time up so that tomorrow is 1 and today is 0.
func DaysUntil(date, today time.Time) int {
	diff := DateOf(date).Sub(DateOf(today))
	return int(math.Ceil(diff.Hours() / 24))
}

// MonthStart returns the first day of t's month
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
