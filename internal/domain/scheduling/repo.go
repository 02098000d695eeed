package scheduling

import "context"

// AppointmentStore is the durable home of appointment records. It owns id
// assignment; the engine owns the validation invariants. The store must
// enforce uniqueness of (scheduled_date, start_time) among non-cancelled
// rows — the engine's availability pre-check is a fast path, not the
// correctness mechanism.
type AppointmentStore interface {
	List(ctx context.Context, r DateRange) ([]*Appointment, error)
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	Create(ctx context.Context, a *Appointment) error
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id int64) error
}

// ServiceInfo is the slice of an external service record the engine needs:
// a display reference plus the appointment length it implies.
type ServiceInfo struct {
	Ref
	DurationMinutes int
}

// PatientDirectory resolves patient references. Read-only; owned elsewhere.
type PatientDirectory interface {
	Get(ctx context.Context, id int64) (Ref, error)
}

// DoctorDirectory lists the doctors appointments may be assigned to.
type DoctorDirectory interface {
	List(ctx context.Context) ([]Ref, error)
}

// ServiceDirectory lists the bookable services and their durations.
type ServiceDirectory interface {
	List(ctx context.Context) ([]ServiceInfo, error)
}
