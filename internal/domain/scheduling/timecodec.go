package scheduling

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ClinicZoneOffsetHours is the fixed offset applied to derive the secondary
// display time shown next to the primary wall-clock time. It is a cosmetic
// annotation, not a real timezone conversion: no DST, no date rollover.
const ClinicZoneOffsetHours = -6

// ClinicZoneLabel is the abbreviation appended to the secondary time.
const ClinicZoneLabel = "ET"

var time12hPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])$`)

// To12Hour converts a 24-hour "HH:MM" string to "H:MM AM/PM".
// Noon renders as "12:00 PM", midnight as "12:00 AM". Malformed input is
// returned unchanged so existing callers can pass display strings through.
func To12Hour(time24 string) string {
	hour, minute, ok := splitTime24(time24)
	if !ok {
		return time24
	}
	meridiem := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		meridiem = "PM"
	case hour > 12:
		hour -= 12
		meridiem = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, meridiem)
}

// ToClinicZone shifts a 24-hour time by the fixed clinic-zone offset
// (modulo 24) and renders it in 12-hour form. A shift across midnight wraps
// the clock without adjusting any date component.
func ToClinicZone(time24 string) string {
	hour, minute, ok := splitTime24(time24)
	if !ok {
		return time24
	}
	hour = ((hour+ClinicZoneOffsetHours)%24 + 24) % 24
	return To12Hour(fmt.Sprintf("%02d:%02d", hour, minute))
}

// WithClinicZone renders the primary 12-hour time followed by the
// clinic-zone annotation, e.g. "8:30 AM (2:30 AM ET)".
func WithClinicZone(time24 string) string {
	return fmt.Sprintf("%s (%s %s)", To12Hour(time24), ToClinicZone(time24), ClinicZoneLabel)
}

// To24Hour is the inverse of To12Hour: "H:MM AM/PM" (AM/PM case-insensitive)
// back to "HH:MM". Input that does not match is returned unchanged.
func To24Hour(time12 string) string {
	m := time12hPattern.FindStringSubmatch(strings.TrimSpace(time12))
	if m == nil {
		return time12
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return time12
	}
	pm := strings.EqualFold(m[3], "PM")
	if hour == 12 {
		hour = 0
	}
	if pm {
		hour += 12
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// splitTime24 parses "HH:MM" into its fields. The bool reports whether the
// input was well formed; callers fall back to echoing the input when not.
func splitTime24(time24 string) (hour, minute int, ok bool) {
	parts := strings.SplitN(time24, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
