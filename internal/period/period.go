package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// Date returns midnight UTC for the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day strips the clock from t, keeping its calendar date.
func Day(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateFormat)
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	return Date(year, month+1, 0).Day()
}

// MonthDay returns the date in the month that is offset months after
// year/month, on day clamped to the length of that month.
// MonthDay(2024, 1, 31, 1) -> 2024-02-29
func MonthDay(year int, month time.Month, day, offset int) time.Time {
	first := Date(year, month+time.Month(offset), 1)
	if n := DaysIn(first.Year(), first.Month()); day > n {
		day = n
	}
	return Date(first.Year(), first.Month(), day)
}

// DaysBetween returns whole calendar days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// FormatQuarter returns a quarter ID like "2025-Q1".
func FormatQuarter(year, quarter int) string {
	return fmt.Sprintf("%04d-Q%d", year, quarter)
}

// ParseQuarter parses "2025-Q1" (or "2025-q1") into year and quarter.
func ParseQuarter(s string) (year, quarter int, err error) {
	parts := strings.SplitN(strings.ToUpper(strings.TrimSpace(s)), "-Q", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid quarter format: %q", s)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in quarter %q: %w", s, err)
	}

	quarter, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid quarter number in %q: %w", s, err)
	}
	if quarter < 1 || quarter > 4 {
		return 0, 0, fmt.Errorf("quarter %d out of range 1..4", quarter)
	}

	return year, quarter, nil
}

// Quarter returns the first and last day of a calendar quarter.
func Quarter(year, quarter int) (start, end time.Time, err error) {
	if quarter < 1 || quarter > 4 {
		return time.Time{}, time.Time{}, fmt.Errorf("quarter %d out of range 1..4", quarter)
	}
	startMonth := time.Month((quarter-1)*3 + 1)
	start = Date(year, startMonth, 1)
	end = Date(year, startMonth+3, 0)
	return start, end, nil
}

// QuarterOf returns the year and quarter that contain t.
func QuarterOf(t time.Time) (year, quarter int) {
	return t.Year(), (int(t.Month())-1)/3 + 1
}

// Within reports whether t falls on a day in [start, end].
func Within(t, start, end time.Time) bool {
	d := Day(t)
	return !d.Before(Day(start)) && !d.After(Day(end))
}

// SubmissionDeadline returns the Belastingdienst filing deadline for a
// quarterly BTW return or ICP declaration: the last day of the month
// after the quarter ends.
func SubmissionDeadline(year, quarter int) (time.Time, error) {
	_, end, err := Quarter(year, quarter)
	if err != nil {
		return time.Time{}, err
	}
	return Date(end.Year(), end.Month()+2, 0), nil
}
