package application

import (
	"context"
	"errors"

	"github.com/medrec/healthcare-api/internal/domain/entity"
	"github.com/medrec/healthcare-api/internal/domain/repository"
	"github.com/medrec/healthcare-api/pkg/rules"
)

// MappingService owns patient-doctor mappings. Mappings require
// authentication only: any authenticated user may link any patient to any
// doctor. The duplicate-pair check here is read-then-decide; the unique
// constraint in the mappings table is what actually prevents a concurrent
// duplicate (the check exists for the friendlier message).
type MappingService struct {
	Mappings repository.MappingRepository
	Patients repository.PatientRepository
	Doctors  repository.DoctorRepository
}

func NewMappingService(mappings repository.MappingRepository, patients repository.PatientRepository, doctors repository.DoctorRepository) *MappingService {
	return &MappingService{Mappings: mappings, Patients: patients, Doctors: doctors}
}

// List returns all mappings, or only those referencing patientID when it is
// non-zero. An unknown patient id yields an empty list, not an error.
func (s *MappingService) List(ctx context.Context, patientID int64) ([]entity.PatientDoctorMapping, error) {
	if patientID > 0 {
		return s.Mappings.ListByPatient(ctx, patientID)
	}
	return s.Mappings.List(ctx)
}

func (s *MappingService) Get(ctx context.Context, id int64) (*entity.PatientDoctorMapping, error) {
	m, err := s.Mappings.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return m, err
}

func (s *MappingService) Create(ctx context.Context, c rules.MappingCandidate) (*entity.PatientDoctorMapping, rules.FieldErrors, error) {
	errs, err := s.validate(ctx, c, 0)
	if err != nil {
		return nil, nil, err
	}
	if !errs.Empty() {
		return nil, errs, nil
	}

	m := &entity.PatientDoctorMapping{PatientID: c.PatientID, DoctorID: c.DoctorID}
	if err := s.Mappings.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			dup := rules.FieldErrors{}
			dup.Add(rules.NonFieldErrors, rules.MsgMappingExists)
			return nil, dup, nil
		}
		return nil, nil, err
	}
	return m, nil, nil
}

func (s *MappingService) Update(ctx context.Context, id int64, c rules.MappingCandidate) (*entity.PatientDoctorMapping, rules.FieldErrors, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	errs, err := s.validate(ctx, c, id)
	if err != nil {
		return nil, nil, err
	}
	if !errs.Empty() {
		return nil, errs, nil
	}

	m.PatientID = c.PatientID
	m.DoctorID = c.DoctorID
	if err := s.Mappings.Update(ctx, m); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			dup := rules.FieldErrors{}
			dup.Add(rules.NonFieldErrors, rules.MsgMappingExists)
			return nil, dup, nil
		case errors.Is(err, repository.ErrNotFound):
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return m, nil, nil
}

func (s *MappingService) Delete(ctx context.Context, id int64) error {
	err := s.Mappings.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// validate runs structural checks, then reference existence, then the
// duplicate-pair check. excludeID is the mapping being updated, 0 on create.
func (s *MappingService) validate(ctx context.Context, c rules.MappingCandidate, excludeID int64) (rules.FieldErrors, error) {
	errs := rules.Mapping(c)
	if !errs.Empty() {
		return errs, nil
	}

	if ok, err := s.Patients.Exists(ctx, c.PatientID); err != nil {
		return nil, err
	} else if !ok {
		errs.Add("patient", rules.MsgInvalidRef(c.PatientID))
	}
	if ok, err := s.Doctors.Exists(ctx, c.DoctorID); err != nil {
		return nil, err
	} else if !ok {
		errs.Add("doctor", rules.MsgInvalidRef(c.DoctorID))
	}
	if !errs.Empty() {
		return errs, nil
	}

	if dup, err := s.Mappings.ExistsPair(ctx, c.PatientID, c.DoctorID, excludeID); err != nil {
		return nil, err
	} else if dup {
		errs.Add(rules.NonFieldErrors, rules.MsgMappingExists)
	}
	return errs, nil
}
