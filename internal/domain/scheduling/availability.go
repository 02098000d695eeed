package scheduling

import "time"

// SlotState is the occupancy of one grid slot on one date.
type SlotState string

const (
	SlotFree   SlotState = "free"
	SlotPast   SlotState = "past"
	SlotBooked SlotState = "booked"
)

// BookedSlot is the per-slot back-reference to the occupying appointment,
// carrying the derived display fields the schedule screens render.
type BookedSlot struct {
	AppointmentID   int64  `json:"appointment_id"`
	Status          string `json:"status"`
	Patient         Ref    `json:"patient"`
	Doctor          Ref    `json:"doctor,omitempty"`
	Service         Ref    `json:"service"`
	Reason          string `json:"reason,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
}

// SlotEntry is one row of an availability view: a grid slot, its display
// renderings and its occupancy.
type SlotEntry struct {
	Slot        string      `json:"slot"`
	Display     string      `json:"display"`
	ClinicZone  string      `json:"clinic_zone"`
	State       SlotState   `json:"state"`
	Appointment *BookedSlot `json:"appointment,omitempty"`
}

// DayAvailability is the per-slot occupancy snapshot for a single date.
// It is rebuilt from the store on every query and never cached.
type DayAvailability struct {
	Date        Date        `json:"date"`
	Slots       []SlotEntry `json:"slots"`
	BookedCount int         `json:"booked_count"`
}

// Slot returns the entry for a grid key, or nil when key is not on the grid.
func (v *DayAvailability) Slot(key string) *SlotEntry {
	i := SlotPosition(key)
	if i < 0 {
		return nil
	}
	return &v.Slots[i]
}

// BuildAvailability computes the occupancy view of date from the given
// appointment set. A slot is booked when a non-cancelled appointment for
// date starts there; otherwise it is past when date plus the slot's
// wall-clock time is strictly before now, else free.
//
// Two appointments on the same date and slot violate the store's uniqueness
// invariant; if the anomaly ever appears, the later one in the input wins.
func BuildAvailability(date Date, appts []*Appointment, now time.Time) *DayAvailability {
	occupied := make(map[string]*Appointment)
	for _, a := range appts {
		if a.Status == StatusCancelled {
			continue
		}
		if a.ScheduledDate.String() != date.String() {
			continue
		}
		occupied[a.SlotKey()] = a
	}

	view := &DayAvailability{Date: date, Slots: make([]SlotEntry, 0, len(slotGrid))}
	for _, slot := range slotGrid {
		entry := SlotEntry{
			Slot:       slot,
			Display:    To12Hour(slot),
			ClinicZone: ToClinicZone(slot),
			State:      SlotFree,
		}
		if a, ok := occupied[slot]; ok {
			entry.State = SlotBooked
			entry.Appointment = &BookedSlot{
				AppointmentID:   a.ID,
				Status:          a.Status,
				Patient:         Ref{ID: a.PatientID},
				Doctor:          Ref{ID: a.DoctorID},
				Service:         Ref{ID: a.ServiceID},
				Reason:          a.Reason,
				DurationMinutes: a.DurationMinutes(),
			}
			view.BookedCount++
		} else if slotInPast(date, slot, now) {
			entry.State = SlotPast
		}
		view.Slots = append(view.Slots, entry)
	}
	return view
}

// ScheduleView is the aggregated day/week/month answer to a view query.
type ScheduleView struct {
	Mode  ViewMode           `json:"mode"`
	Range DateRange          `json:"range"`
	Days  []*DayAvailability `json:"days"`
}

// BuildScheduleView builds one DayAvailability per date in the resolved
// range. Day views carry a single entry; week and month views carry one per
// calendar day.
func BuildScheduleView(mode ViewMode, r DateRange, appts []*Appointment, now time.Time) *ScheduleView {
	view := &ScheduleView{Mode: mode, Range: r}
	for _, d := range r.Dates() {
		view.Days = append(view.Days, BuildAvailability(d, appts, now))
	}
	return view
}

// slotInPast reports whether date plus the slot's wall-clock time is
// strictly before now, evaluated in now's location.
func slotInPast(date Date, slot string, now time.Time) bool {
	mins := timeToMinutes(slot)
	at := time.Date(date.Year, date.Month, date.Day, mins/60, mins%60, 0, 0, now.Location())
	return at.Before(now)
}
