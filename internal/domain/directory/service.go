package directory

import "context"

// Service exposes the read-only reference directories the scheduling screens
// and the booking validation consume.
type Service struct {
	patients PatientRepository
	doctors  DoctorRepository
	services ServiceRepository
}

func NewService(patients PatientRepository, doctors DoctorRepository, services ServiceRepository) *Service {
	return &Service{patients: patients, doctors: doctors, services: services}
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) ListDoctors(ctx context.Context) ([]*Doctor, error) {
	return s.doctors.List(ctx)
}

func (s *Service) ListServices(ctx context.Context) ([]*ClinicService, error) {
	return s.services.List(ctx)
}
