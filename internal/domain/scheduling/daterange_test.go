package scheduling

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return d
}

func TestParseDate(t *testing.T) {
	d := mustDate(t, "2024-12-18")
	if d.Year != 2024 || d.Month != time.December || d.Day != 18 {
		t.Errorf("unexpected fields: %+v", d)
	}
	if d.String() != "2024-12-18" {
		t.Errorf("round trip produced %s", d.String())
	}
}

func TestParseDateRejectsBadInput(t *testing.T) {
	for _, bad := range []string{"", "2024-13-01", "2024-02-30", "18/12/2024", "2024-12-18T00:00:00Z"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestAddDaysAcrossBoundaries(t *testing.T) {
	cases := []struct {
		start string
		n     int
		want  string
	}{
		{"2024-12-31", 1, "2025-01-01"},
		{"2024-02-28", 1, "2024-02-29"}, // leap year
		{"2023-02-28", 1, "2023-03-01"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2024-01-15", 0, "2024-01-15"},
		{"2024-11-03", 7, "2024-11-10"}, // spans the US DST fall-back date
	}
	for _, tc := range cases {
		got := mustDate(t, tc.start).AddDays(tc.n).String()
		if got != tc.want {
			t.Errorf("%s + %d days = %s, want %s", tc.start, tc.n, got, tc.want)
		}
	}
}

func TestDateBefore(t *testing.T) {
	a := mustDate(t, "2024-12-18")
	b := mustDate(t, "2024-12-19")
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Error("Before ordering is wrong")
	}
}

func TestParseViewMode(t *testing.T) {
	for in, want := range map[string]ViewMode{
		"":      ViewDay,
		"day":   ViewDay,
		"week":  ViewWeek,
		"month": ViewMonth,
	} {
		got, err := ParseViewMode(in)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseViewMode(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseViewMode("year"); err == nil {
		t.Error("expected error for unknown view mode")
	}
}

func TestResolveRangeDay(t *testing.T) {
	ref := mustDate(t, "2024-12-18")
	r := ResolveRange(ref, ViewDay)
	if r.Start != ref || r.End != ref {
		t.Errorf("day range should be the ref alone, got %s..%s", r.Start, r.End)
	}
}

func TestResolveRangeWeek(t *testing.T) {
	cases := []struct {
		ref, start, end string
	}{
		{"2024-12-18", "2024-12-15", "2024-12-21"}, // Wednesday
		{"2024-12-15", "2024-12-15", "2024-12-21"}, // Sunday anchors itself
		{"2024-12-21", "2024-12-15", "2024-12-21"}, // Saturday
		{"2025-01-01", "2024-12-29", "2025-01-04"}, // week spans the year boundary
	}
	for _, tc := range cases {
		r := ResolveRange(mustDate(t, tc.ref), ViewWeek)
		if r.Start.String() != tc.start || r.End.String() != tc.end {
			t.Errorf("week of %s = %s..%s, want %s..%s", tc.ref, r.Start, r.End, tc.start, tc.end)
		}
	}
}

func TestResolveRangeMonth(t *testing.T) {
	cases := []struct {
		ref, start, end string
	}{
		{"2024-02-10", "2024-02-01", "2024-02-29"}, // leap February
		{"2023-02-10", "2023-02-01", "2023-02-28"},
		{"2024-12-31", "2024-12-01", "2024-12-31"},
		{"2024-04-01", "2024-04-01", "2024-04-30"},
	}
	for _, tc := range cases {
		r := ResolveRange(mustDate(t, tc.ref), ViewMonth)
		if r.Start.String() != tc.start || r.End.String() != tc.end {
			t.Errorf("month of %s = %s..%s, want %s..%s", tc.ref, r.Start, r.End, tc.start, tc.end)
		}
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{Start: mustDate(t, "2024-12-15"), End: mustDate(t, "2024-12-21")}
	if !r.Contains(mustDate(t, "2024-12-15")) || !r.Contains(mustDate(t, "2024-12-21")) {
		t.Error("bounds should be inclusive")
	}
	if r.Contains(mustDate(t, "2024-12-14")) || r.Contains(mustDate(t, "2024-12-22")) {
		t.Error("dates outside the bounds should be excluded")
	}
}

func TestDateRangeDates(t *testing.T) {
	r := ResolveRange(mustDate(t, "2024-12-18"), ViewWeek)
	dates := r.Dates()
	if len(dates) != 7 {
		t.Fatalf("expected 7 dates in a week, got %d", len(dates))
	}
	if dates[0].String() != "2024-12-15" || dates[6].String() != "2024-12-21" {
		t.Errorf("unexpected endpoints %s..%s", dates[0], dates[6])
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := mustDate(t, "2024-12-18")
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"2024-12-18"` {
		t.Errorf("unexpected JSON form %s", data)
	}
	var back Date
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back != d {
		t.Errorf("round trip produced %+v", back)
	}
	if err := back.UnmarshalJSON([]byte(`"12/18/2024"`)); err == nil {
		t.Error("expected error for non-canonical date")
	}
}
