// Package inmem provides in-memory repository implementations with the same
// scoping and uniqueness behavior as the postgres ones. They back the unit
// tests; nothing here is safe for concurrent use.
package inmem

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/medrec/healthcare-api/internal/domain/entity"
	"github.com/medrec/healthcare-api/internal/domain/repository"
)

type UserRepository struct {
	users map[string]*entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: map[string]*entity.User{}}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	for _, ex := range r.users {
		if ex.Username == u.Username || ex.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Len reports how many accounts are stored, for assertions on no-write paths.
func (r *UserRepository) Len() int { return len(r.users) }

type PatientRepository struct {
	nextID   int64
	patients map[int64]*entity.Patient
}

func NewPatientRepository() *PatientRepository {
	return &PatientRepository{patients: map[int64]*entity.Patient{}}
}

func (r *PatientRepository) Create(_ context.Context, p *entity.Patient) error {
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.patients[p.ID] = &cp
	return nil
}

func (r *PatientRepository) ListByOwner(_ context.Context, ownerID string) ([]entity.Patient, error) {
	out := []entity.Patient{}
	for _, p := range r.patients {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PatientRepository) GetOwned(_ context.Context, id int64, ownerID string) (*entity.Patient, error) {
	p, ok := r.patients[id]
	if !ok || p.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *PatientRepository) Update(_ context.Context, p *entity.Patient) error {
	ex, ok := r.patients[p.ID]
	if !ok || ex.OwnerID != p.OwnerID {
		return repository.ErrNotFound
	}
	cp := *p
	r.patients[p.ID] = &cp
	return nil
}

func (r *PatientRepository) DeleteOwned(_ context.Context, id int64, ownerID string) error {
	p, ok := r.patients[id]
	if !ok || p.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.patients, id)
	return nil
}

func (r *PatientRepository) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.patients[id]
	return ok, nil
}

// Len reports how many records are stored, for assertions on no-write paths.
func (r *PatientRepository) Len() int { return len(r.patients) }

type DoctorRepository struct {
	nextID  int64
	doctors map[int64]*entity.Doctor
}

func NewDoctorRepository() *DoctorRepository {
	return &DoctorRepository{doctors: map[int64]*entity.Doctor{}}
}

func (r *DoctorRepository) Create(_ context.Context, d *entity.Doctor) error {
	r.nextID++
	d.ID = r.nextID
	cp := *d
	r.doctors[d.ID] = &cp
	return nil
}

func (r *DoctorRepository) List(_ context.Context) ([]entity.Doctor, error) {
	out := []entity.Doctor{}
	for _, d := range r.doctors {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *DoctorRepository) GetByID(_ context.Context, id int64) (*entity.Doctor, error) {
	if d, ok := r.doctors[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *DoctorRepository) Update(_ context.Context, d *entity.Doctor) error {
	if _, ok := r.doctors[d.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *d
	r.doctors[d.ID] = &cp
	return nil
}

func (r *DoctorRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.doctors[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.doctors, id)
	return nil
}

func (r *DoctorRepository) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.doctors[id]
	return ok, nil
}

type MappingRepository struct {
	nextID   int64
	mappings map[int64]*entity.PatientDoctorMapping
}

func NewMappingRepository() *MappingRepository {
	return &MappingRepository{mappings: map[int64]*entity.PatientDoctorMapping{}}
}

func (r *MappingRepository) pairTaken(patientID, doctorID, excludeID int64) bool {
	for _, m := range r.mappings {
		if m.ID != excludeID && m.PatientID == patientID && m.DoctorID == doctorID {
			return true
		}
	}
	return false
}

func (r *MappingRepository) Create(_ context.Context, m *entity.PatientDoctorMapping) error {
	if r.pairTaken(m.PatientID, m.DoctorID, 0) {
		return repository.ErrDuplicate
	}
	r.nextID++
	m.ID = r.nextID
	cp := *m
	r.mappings[m.ID] = &cp
	return nil
}

func (r *MappingRepository) List(_ context.Context) ([]entity.PatientDoctorMapping, error) {
	out := []entity.PatientDoctorMapping{}
	for _, m := range r.mappings {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MappingRepository) ListByPatient(_ context.Context, patientID int64) ([]entity.PatientDoctorMapping, error) {
	out := []entity.PatientDoctorMapping{}
	for _, m := range r.mappings {
		if m.PatientID == patientID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MappingRepository) GetByID(_ context.Context, id int64) (*entity.PatientDoctorMapping, error) {
	if m, ok := r.mappings[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *MappingRepository) Update(_ context.Context, m *entity.PatientDoctorMapping) error {
	if _, ok := r.mappings[m.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.pairTaken(m.PatientID, m.DoctorID, m.ID) {
		return repository.ErrDuplicate
	}
	cp := *m
	r.mappings[m.ID] = &cp
	return nil
}

func (r *MappingRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.mappings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.mappings, id)
	return nil
}

func (r *MappingRepository) ExistsPair(_ context.Context, patientID, doctorID, excludeID int64) (bool, error) {
	return r.pairTaken(patientID, doctorID, excludeID), nil
}

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.PatientRepository = (*PatientRepository)(nil)
	_ repository.DoctorRepository  = (*DoctorRepository)(nil)
	_ repository.MappingRepository = (*MappingRepository)(nil)
)
