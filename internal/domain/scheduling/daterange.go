package scheduling

import (
	"fmt"
	"time"
)

// ViewMode selects the aggregation granularity of a schedule query.
type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// ParseViewMode validates a view mode string, defaulting empty to day view.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewDay, ViewWeek, ViewMonth:
		return ViewMode(s), nil
	case "":
		return ViewDay, nil
	}
	return "", fmt.Errorf("invalid view mode %q", s)
}

// Date is a civil calendar date. All arithmetic and comparison goes through
// calendar fields so a date can never shift by one day through a timezone
// sensitive conversion.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses the canonical YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// DateOf extracts the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// String returns the canonical YYYY-MM-DD serialization.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// MarshalJSON serializes the date in its canonical wire form.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses the canonical YYYY-MM-DD wire form.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// AddDays returns d shifted by the given number of calendar days.
// time.Date normalizes out-of-range fields, which keeps month and year
// boundaries correct without epoch math.
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC)
	return DateOf(t)
}

// Weekday returns the day of week, Sunday = 0.
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// DateRange is an inclusive pair of calendar-date bounds used to query the
// appointment store.
type DateRange struct {
	Start Date
	End   Date
}

// Contains reports whether d falls within the range, bounds included.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start) && !r.End.Before(d)
}

// Dates enumerates every date in the range in order.
func (r DateRange) Dates() []Date {
	var out []Date
	for d := r.Start; !r.End.Before(d); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

// ResolveRange computes the inclusive date bounds for a schedule view
// anchored at ref.
//
//	day:   ref alone
//	week:  the Sunday on or before ref through the following Saturday
//	month: the first through the last day of ref's month
func ResolveRange(ref Date, mode ViewMode) DateRange {
	switch mode {
	case ViewWeek:
		start := ref.AddDays(-int(ref.Weekday()))
		return DateRange{Start: start, End: start.AddDays(6)}
	case ViewMonth:
		start := Date{Year: ref.Year, Month: ref.Month, Day: 1}
		// Day 0 of the next month normalizes to this month's last day.
		end := DateOf(time.Date(ref.Year, ref.Month+1, 0, 0, 0, 0, 0, time.UTC))
		return DateRange{Start: start, End: end}
	default:
		return DateRange{Start: ref, End: ref}
	}
}
