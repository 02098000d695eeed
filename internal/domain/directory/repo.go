package directory

import "context"

type PatientRepository interface {
	GetByID(ctx context.Context, id int64) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}

type DoctorRepository interface {
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	List(ctx context.Context) ([]*Doctor, error)
}

type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*ClinicService, error)
	List(ctx context.Context) ([]*ClinicService, error)
}
