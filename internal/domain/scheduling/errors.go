package scheduling

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the scheduling engine. Handlers map these to
// HTTP statuses; the engine never retries on its own.
var (
	ErrValidation      = errors.New("missing required field")
	ErrConflict        = errors.New("slot is already booked")
	ErrPastSlot        = errors.New("cannot book a slot in the past")
	ErrPastAppointment = errors.New("only future appointments can be modified")
	ErrNotFound        = errors.New("appointment not found")
	ErrBackend         = errors.New("appointment store rejected the request")
)

// backendErr wraps a store failure so callers can test errors.Is(err, ErrBackend)
// while still seeing the backend-supplied detail.
func backendErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrBackend, err)
}
