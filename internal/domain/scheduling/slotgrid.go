package scheduling

import "fmt"

// Clinic day template. The boundaries and spacing are fixed configuration:
// 19 bookable half-hour slots from 08:30 through 17:30.
const (
	gridOpenHour    = 8
	gridOpenMinute  = 30
	gridSlotMinutes = 30
	gridSlotCount   = 19
)

// DefaultSlotMinutes is the appointment length used when the booked service
// does not carry its own duration.
const DefaultSlotMinutes = 30

var slotGrid = buildSlotGrid()

var slotIndex = func() map[string]int {
	idx := make(map[string]int, len(slotGrid))
	for i, s := range slotGrid {
		idx[s] = i
	}
	return idx
}()

func buildSlotGrid() []string {
	slots := make([]string, 0, gridSlotCount)
	minutes := gridOpenHour*60 + gridOpenMinute
	for i := 0; i < gridSlotCount; i++ {
		slots = append(slots, fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
		minutes += gridSlotMinutes
	}
	return slots
}

// Slots returns the ordered 24-hour start times of the clinic day.
// The returned slice is a copy; the template itself never changes.
func Slots() []string {
	out := make([]string, len(slotGrid))
	copy(out, slotGrid)
	return out
}

// ContainsSlot reports whether time24 is a bookable start time.
func ContainsSlot(time24 string) bool {
	_, ok := slotIndex[time24]
	return ok
}

// SlotPosition returns the position of time24 within the grid, or -1 when
// time24 is not a grid slot.
func SlotPosition(time24 string) int {
	i, ok := slotIndex[time24]
	if !ok {
		return -1
	}
	return i
}
