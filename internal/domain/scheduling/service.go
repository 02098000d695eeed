package scheduling

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator registers Date as a custom type so `required` sees the zero
// date as empty. Without the registration the validator treats Date as a
// nested struct and never applies the field tag.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(Date); ok {
			if d.IsZero() {
				return ""
			}
			return d.String()
		}
		return nil
	}, Date{})
	return v
}

// Service orchestrates the scheduling engine: it validates booking and
// mutation requests against the availability view and the temporal rules
// before delegating persistence to the AppointmentStore.
//
// The service is stateless per request; every view is recomputed from the
// store, so concurrent callers need no locking here.
type Service struct {
	store    AppointmentStore
	patients PatientDirectory
	doctors  DoctorDirectory
	services ServiceDirectory
	now      func() time.Time
}

func NewService(store AppointmentStore, patients PatientDirectory, doctors DoctorDirectory, services ServiceDirectory) *Service {
	return &Service{
		store:    store,
		patients: patients,
		doctors:  doctors,
		services: services,
		now:      time.Now,
	}
}

// View answers a schedule query for the date range implied by (ref, mode),
// with one availability snapshot per calendar day, display references
// resolved from the directories.
func (s *Service) View(ctx context.Context, ref Date, mode ViewMode) (*ScheduleView, error) {
	r := ResolveRange(ref, mode)
	appts, err := s.store.List(ctx, r)
	if err != nil {
		return nil, backendErr(err)
	}
	view := BuildScheduleView(mode, r, appts, s.now())
	s.enrich(ctx, view)
	return view, nil
}

// List returns the raw appointment records in an explicit range.
func (s *Service) List(ctx context.Context, r DateRange) ([]*Appointment, error) {
	appts, err := s.store.List(ctx, r)
	if err != nil {
		return nil, backendErr(err)
	}
	return appts, nil
}

// Book validates a booking request and persists a new SCHEDULED appointment.
// It fails with ErrValidation on missing or unknown references, ErrPastSlot
// when date+slot is behind now, and ErrConflict when the slot is occupied by
// a non-cancelled appointment.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !ContainsSlot(req.Slot) {
		return nil, fmt.Errorf("%w: %q is not a bookable slot", ErrValidation, req.Slot)
	}
	now := s.now()
	if slotInPast(req.Date, req.Slot, now) {
		return nil, ErrPastSlot
	}

	svc, err := s.lookupService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, fmt.Errorf("%w: unknown patient %d", ErrValidation, req.PatientID)
	}
	if req.DoctorID != 0 {
		if err := s.checkDoctor(ctx, req.DoctorID); err != nil {
			return nil, err
		}
	}

	if err := s.checkSlotFree(ctx, req.Date, req.Slot, 0); err != nil {
		return nil, err
	}

	duration := svc.DurationMinutes
	if duration <= 0 {
		duration = DefaultSlotMinutes
	}
	appt := &Appointment{
		ScheduledDate: req.Date,
		StartTime:     wireTime(req.Slot),
		EndTime:       addMinutes(req.Slot, duration),
		Status:        StatusScheduled,
		PatientID:     req.PatientID,
		DoctorID:      req.DoctorID, // 0 when unassigned
		ServiceID:     req.ServiceID,
		Reason:        req.Reason,
		Notes:         req.Notes,
	}
	if err := s.store.Create(ctx, appt); err != nil {
		return nil, storeErr(err)
	}
	return appt, nil
}

// Reschedule moves a future appointment to a new date and slot, keeping its
// duration. The conflict check excludes the appointment being moved.
func (s *Service) Reschedule(ctx context.Context, id int64, newDate Date, newSlot string) (*Appointment, error) {
	appt, err := s.getFuture(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ContainsSlot(newSlot) {
		return nil, fmt.Errorf("%w: %q is not a bookable slot", ErrValidation, newSlot)
	}
	if slotInPast(newDate, newSlot, s.now()) {
		return nil, ErrPastSlot
	}
	if err := s.checkSlotFree(ctx, newDate, newSlot, id); err != nil {
		return nil, err
	}

	duration := appt.DurationMinutes()
	if duration <= 0 {
		duration = DefaultSlotMinutes
	}
	appt.ScheduledDate = newDate
	appt.StartTime = wireTime(newSlot)
	appt.EndTime = addMinutes(newSlot, duration)
	if err := s.store.Update(ctx, appt); err != nil {
		return nil, storeErr(err)
	}
	return appt, nil
}

// Cancel removes a future appointment. Cancellation is a hard delete
// against the store; there is no soft-delete state to resurrect.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	if _, err := s.getFuture(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return backendErr(err)
	}
	return nil
}

// UpdateStatus transitions a future appointment to a new status.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}
	appt, err := s.getFuture(ctx, id)
	if err != nil {
		return nil, err
	}
	appt.Status = status
	if err := s.store.Update(ctx, appt); err != nil {
		return nil, storeErr(err)
	}
	return appt, nil
}

// Get fetches one appointment by id.
func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	appt, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, backendErr(err)
	}
	return appt, nil
}

// getFuture loads an appointment and enforces the future-only mutation rule:
// the stored (date, start_time) must be strictly after now.
func (s *Service) getFuture(ctx context.Context, id int64) (*Appointment, error) {
	appt, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, backendErr(err)
	}
	now := s.now()
	if !appt.StartsAt(now.Location()).After(now) {
		return nil, ErrPastAppointment
	}
	return appt, nil
}

// checkSlotFree is the optimistic availability pre-check: it rejects with
// ErrConflict when a non-cancelled appointment other than excludeID already
// occupies (date, slot). The store's unique index catches the races this
// read-then-write cannot.
func (s *Service) checkSlotFree(ctx context.Context, date Date, slot string, excludeID int64) error {
	appts, err := s.store.List(ctx, DateRange{Start: date, End: date})
	if err != nil {
		return backendErr(err)
	}
	for _, a := range appts {
		if a.ID == excludeID || a.Status == StatusCancelled {
			continue
		}
		if a.ScheduledDate.String() == date.String() && a.SlotKey() == slot {
			return ErrConflict
		}
	}
	return nil
}

func (s *Service) lookupService(ctx context.Context, id int64) (ServiceInfo, error) {
	infos, err := s.services.List(ctx)
	if err != nil {
		return ServiceInfo{}, backendErr(err)
	}
	for _, info := range infos {
		if info.ID == id {
			return info, nil
		}
	}
	return ServiceInfo{}, fmt.Errorf("%w: unknown service %d", ErrValidation, id)
}

func (s *Service) checkDoctor(ctx context.Context, id int64) error {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return backendErr(err)
	}
	for _, d := range doctors {
		if d.ID == id {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown doctor %d", ErrValidation, id)
}

// enrich resolves display names for the booked entries of a view. Directory
// failures leave the bare ids in place; display enrichment never fails a
// read.
func (s *Service) enrich(ctx context.Context, view *ScheduleView) {
	doctorNames := map[int64]string{}
	if doctors, err := s.doctors.List(ctx); err == nil {
		for _, d := range doctors {
			doctorNames[d.ID] = d.DisplayName
		}
	}
	serviceNames := map[int64]string{}
	if services, err := s.services.List(ctx); err == nil {
		for _, info := range services {
			serviceNames[info.ID] = info.DisplayName
		}
	}
	patientNames := map[int64]string{}

	for _, day := range view.Days {
		for i := range day.Slots {
			booked := day.Slots[i].Appointment
			if booked == nil {
				continue
			}
			if name, ok := patientNames[booked.Patient.ID]; ok {
				booked.Patient.DisplayName = name
			} else if ref, err := s.patients.Get(ctx, booked.Patient.ID); err == nil {
				patientNames[ref.ID] = ref.DisplayName
				booked.Patient.DisplayName = ref.DisplayName
			}
			booked.Doctor.DisplayName = doctorNames[booked.Doctor.ID]
			booked.Service.DisplayName = serviceNames[booked.Service.ID]
		}
	}
}

// storeErr classifies a write failure: uniqueness violations come back as
// ErrConflict (the store maps its 23505s before returning), everything else
// as ErrBackend.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConflict) {
		return ErrConflict
	}
	return backendErr(err)
}
