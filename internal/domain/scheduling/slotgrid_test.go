package scheduling

import "testing"

func TestSlotsShape(t *testing.T) {
	slots := Slots()
	if len(slots) != 19 {
		t.Fatalf("expected 19 slots, got %d", len(slots))
	}
	if slots[0] != "08:30" {
		t.Errorf("expected first slot 08:30, got %s", slots[0])
	}
	if slots[len(slots)-1] != "17:30" {
		t.Errorf("expected last slot 17:30, got %s", slots[len(slots)-1])
	}
}

func TestSlotsSpacing(t *testing.T) {
	slots := Slots()
	for i := 1; i < len(slots); i++ {
		gap := timeToMinutes(slots[i]) - timeToMinutes(slots[i-1])
		if gap != 30 {
			t.Errorf("gap between %s and %s is %d minutes", slots[i-1], slots[i], gap)
		}
	}
}

func TestSlotsReturnsCopy(t *testing.T) {
	first := Slots()
	first[0] = "corrupted"
	if got := Slots()[0]; got != "08:30" {
		t.Errorf("grid template was mutated through the returned slice: %s", got)
	}
}

func TestContainsSlot(t *testing.T) {
	for _, slot := range Slots() {
		if !ContainsSlot(slot) {
			t.Errorf("expected %s to be bookable", slot)
		}
	}
	for _, bad := range []string{"08:00", "08:45", "18:00", "17:31", "", "8:30"} {
		if ContainsSlot(bad) {
			t.Errorf("expected %s to be rejected", bad)
		}
	}
}

func TestSlotPosition(t *testing.T) {
	if got := SlotPosition("08:30"); got != 0 {
		t.Errorf("expected 08:30 at position 0, got %d", got)
	}
	if got := SlotPosition("17:30"); got != 18 {
		t.Errorf("expected 17:30 at position 18, got %d", got)
	}
	if got := SlotPosition("03:00"); got != -1 {
		t.Errorf("expected -1 for off-grid time, got %d", got)
	}
}
