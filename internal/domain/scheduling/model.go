package scheduling

import (
	"strconv"
	"strings"
	"time"
)

// Appointment statuses. SCHEDULED is the entry state; the clinical flow moves
// through CONFIRMED (or CANCELLED / NO_SHOW) to COMPLETED.
const (
	StatusScheduled = "SCHEDULED"
	StatusConfirmed = "CONFIRMED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
	StatusNoShow    = "NO_SHOW"
)

var validStatuses = map[string]bool{
	StatusScheduled: true, StatusConfirmed: true, StatusCompleted: true,
	StatusCancelled: true, StatusNoShow: true,
}

// ValidStatus reports whether s is a recognized appointment status.
func ValidStatus(s string) bool { return validStatuses[s] }

// Appointment maps to the appointment table. Times are wall-clock strings in
// the wire form "HH:MM:SS"; the date is a civil calendar date.
//
// DoctorID uses 0 as the "unassigned" sentinel rather than NULL. The backend
// contract has always persisted absent optional foreign keys as 0, so the
// store keeps that shape.
type Appointment struct {
	ID            int64     `db:"id" json:"id"`
	ScheduledDate Date      `db:"scheduled_date" json:"scheduled_date"`
	StartTime     string    `db:"start_time" json:"start_time"`
	EndTime       string    `db:"end_time" json:"end_time"`
	Status        string    `db:"status" json:"status"`
	PatientID     int64     `db:"patient_id" json:"patient_id"`
	DoctorID      int64     `db:"doctor_id" json:"doctor_id"`
	ServiceID     int64     `db:"service_id" json:"service_id"`
	Reason        string    `db:"reason" json:"reason,omitempty"`
	Notes         string    `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// SlotKey returns the "HH:MM" grid key of the appointment's start time.
func (a *Appointment) SlotKey() string { return slotKey(a.StartTime) }

// DurationMinutes derives the appointment length from its time pair.
func (a *Appointment) DurationMinutes() int {
	return timeToMinutes(a.EndTime) - timeToMinutes(a.StartTime)
}

// StartsAt combines the scheduled date and start time into an instant in
// loc, for ordering against "now".
func (a *Appointment) StartsAt(loc *time.Location) time.Time {
	mins := timeToMinutes(a.StartTime)
	d := a.ScheduledDate
	return time.Date(d.Year, d.Month, d.Day, mins/60, mins%60, 0, 0, loc)
}

// Ref is a normalized reference to an external directory record, resolved
// once at the boundary and carried as {id, display} through the engine.
type Ref struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
}

// BookingRequest carries the caller's input to Book. Patient and service are
// required; doctor, reason and notes are optional.
type BookingRequest struct {
	Date      Date   `json:"date" validate:"required"`
	Slot      string `json:"slot" validate:"required"`
	PatientID int64  `json:"patient_id" validate:"required,gt=0"`
	ServiceID int64  `json:"service_id" validate:"required,gt=0"`
	DoctorID  int64  `json:"doctor_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// slotKey trims an "HH:MM:SS" wire time to its "HH:MM" grid key.
func slotKey(wire string) string {
	if len(wire) > 5 {
		return wire[:5]
	}
	return wire
}

// wireTime pads an "HH:MM" grid key to the "HH:MM:SS" wire form with
// zero seconds.
func wireTime(slot string) string {
	if len(slot) == 5 {
		return slot + ":00"
	}
	return slot
}

// timeToMinutes converts "HH:MM" or "HH:MM:SS" to minutes from midnight.
// Malformed input yields 0, matching the codec's fail-soft posture.
func timeToMinutes(t string) int {
	parts := strings.Split(t, ":")
	if len(parts) < 2 {
		return 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return h*60 + m
}

// addMinutes shifts an "HH:MM" grid key forward, returning wire form.
func addMinutes(slot string, minutes int) string {
	total := timeToMinutes(slot) + minutes
	h := (total / 60) % 24
	m := total % 60
	return wireTime(pad2(h) + ":" + pad2(m))
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
