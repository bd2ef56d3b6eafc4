package osa

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const monthLayout = "200601"

// Periods holds the three months of a calendar quarter as YYYYMM strings, oldest first.
type Periods [3]string

// Latest returns the third (most recent) month.
func (p Periods) Latest() string { return p[2] }

// Index returns the position of period in p, or -1.
func (p Periods) Index(period string) int {
	for i, m := range p {
		if m == period {
			return i
		}
	}
	return -1
}

// Join returns the months separated by sep.
func (p Periods) Join(sep string) string { return strings.Join(p[:], sep) }

// QuarterMonths returns the months of the calendar quarter containing ref.
func QuarterMonths(ref time.Time) Periods {
	start := QuarterStart(ref)
	var p Periods
	for i := range p {
		p[i] = start.AddDate(0, i, 0).Format(monthLayout)
	}
	return p
}

// CurrentQuarterMonths is QuarterMonths for the current date.
func CurrentQuarterMonths() Periods { return QuarterMonths(time.Now()) }

// QuarterStart returns midnight on the first day of ref's quarter, in ref's location.
func QuarterStart(ref time.Time) time.Time {
	m := ((int(ref.Month())-1)/3)*3 + 1
	return time.Date(ref.Year(), time.Month(m), 1, 0, 0, 0, 0, ref.Location())
}

// Quarter returns the quarter number (1-4) of t.
func Quarter(t time.Time) int { return (int(t.Month())-1)/3 + 1 }

// PreviousQuarter returns the first day of the quarter before the one containing ref.
// This is the default analysis period of the dashboard.
func PreviousQuarter(ref time.Time) time.Time {
	return QuarterStart(ref).AddDate(0, -3, 0)
}

// QuarterLabel formats t as YYYYQn, e.g. 2024Q1.
func QuarterLabel(t time.Time) string {
	return fmt.Sprintf("%04dQ%d", t.Year(), Quarter(t))
}

// ParseQuarter parses a YYYYQn label and returns the first day of that quarter in UTC.
func ParseQuarter(label string) (time.Time, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	year, q, ok := strings.Cut(s, "Q")
	if !ok || len(year) != 4 || len(q) != 1 {
		return time.Time{}, fmt.Errorf("invalid quarter %q: want YYYYQn", label)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid quarter %q: %w", label, err)
	}
	n, err := strconv.Atoi(q)
	if err != nil || n < 1 || n > 4 {
		return time.Time{}, fmt.Errorf("invalid quarter %q: quarter must be 1-4", label)
	}
	return time.Date(y, time.Month((n-1)*3+1), 1, 0, 0, 0, 0, time.UTC), nil
}

// ResolveQuarter parses label, or falls back to the quarter before now when label is empty.
func ResolveQuarter(label string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(label) == "" {
		return PreviousQuarter(now), nil
	}
	return ParseQuarter(label)
}

// DateStamp formats t as the 8-digit YYYYMMDD integer used for capture timestamps.
func DateStamp(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
