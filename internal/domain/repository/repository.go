package repository

import (
	"context"
	"errors"

	"github.com/medrec/healthcare-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a record is absent or excluded by owner
	// scoping. Callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a storage-level unique constraint rejects
	// a write.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// PatientRepository persists patient records. Every method that touches an
// existing record takes the owner id and scopes the query to it; a record
// owned by someone else behaves exactly like a missing one.
type PatientRepository interface {
	Create(ctx context.Context, p *entity.Patient) error
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Patient, error)
	GetOwned(ctx context.Context, id int64, ownerID string) (*entity.Patient, error)
	Update(ctx context.Context, p *entity.Patient) error
	DeleteOwned(ctx context.Context, id int64, ownerID string) error
	// Exists is deliberately unscoped: mappings may reference any patient
	// regardless of ownership.
	Exists(ctx context.Context, id int64) (bool, error)
}

// DoctorRepository persists the shared doctor directory.
type DoctorRepository interface {
	Create(ctx context.Context, d *entity.Doctor) error
	List(ctx context.Context) ([]entity.Doctor, error)
	GetByID(ctx context.Context, id int64) (*entity.Doctor, error)
	Update(ctx context.Context, d *entity.Doctor) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// MappingRepository persists patient-doctor mappings.
type MappingRepository interface {
	Create(ctx context.Context, m *entity.PatientDoctorMapping) error
	List(ctx context.Context) ([]entity.PatientDoctorMapping, error)
	ListByPatient(ctx context.Context, patientID int64) ([]entity.PatientDoctorMapping, error)
	GetByID(ctx context.Context, id int64) (*entity.PatientDoctorMapping, error)
	Update(ctx context.Context, m *entity.PatientDoctorMapping) error
	Delete(ctx context.Context, id int64) error
	// ExistsPair reports whether any mapping other than excludeID references
	// the same (patient, doctor) pair. Pass excludeID = 0 for creates.
	ExistsPair(ctx context.Context, patientID, doctorID, excludeID int64) (bool, error)
}
