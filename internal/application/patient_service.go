package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/medrec/healthcare-api/internal/domain/entity"
	"github.com/medrec/healthcare-api/internal/domain/repository"
	"github.com/medrec/healthcare-api/pkg/helpers"
	"github.com/medrec/healthcare-api/pkg/rules"
)

// ErrNotFound is returned for records that are absent or outside the
// caller's visible set; the two cases are indistinguishable on purpose.
var ErrNotFound = errors.New("not found")

// PatientService owns patient records. Every operation takes the caller's
// identity and scopes visibility to it; the owner on a new record always
// comes from the caller, never the payload.
type PatientService struct {
	Repo      repository.PatientRepository
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

func NewPatientService(repo repository.PatientRepository, gcs *storage.Client, bucket string, logger *logrus.Logger) *PatientService {
	return &PatientService{Repo: repo, GCS: gcs, GCSBucket: bucket, Logger: logger}
}

// PatientPatch carries a partial update; nil fields keep the prior value.
type PatientPatch struct {
	Name   *string
	Age    any
	AgeSet bool
	Gender *string
}

func (s *PatientService) List(ctx context.Context, ownerID string) ([]entity.Patient, error) {
	return s.Repo.ListByOwner(ctx, ownerID)
}

func (s *PatientService) Get(ctx context.Context, id int64, ownerID string) (*entity.Patient, error) {
	p, err := s.Repo.GetOwned(ctx, id, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *PatientService) Create(ctx context.Context, ownerID string, c rules.PatientCandidate) (*entity.Patient, rules.FieldErrors, error) {
	age, errs := rules.Patient(c)
	if !errs.Empty() {
		return nil, errs, nil
	}
	p := &entity.Patient{
		OwnerID: ownerID,
		Name:    c.Name,
		Age:     age,
		Gender:  c.Gender,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, nil, err
	}
	return p, nil, nil
}

// Update replaces the record's fields after full validation. The record must
// be visible to the caller.
func (s *PatientService) Update(ctx context.Context, id int64, ownerID string, c rules.PatientCandidate) (*entity.Patient, rules.FieldErrors, error) {
	p, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, nil, err
	}
	age, errs := rules.Patient(c)
	if !errs.Empty() {
		return nil, errs, nil
	}
	p.Name = c.Name
	p.Age = age
	p.Gender = c.Gender
	if err := s.update(ctx, p); err != nil {
		return nil, nil, err
	}
	return p, nil, nil
}

// Patch merges the partial payload over the prior record state and validates
// the merged result, so a partial update cannot blank a required field.
func (s *PatientService) Patch(ctx context.Context, id int64, ownerID string, patch PatientPatch) (*entity.Patient, rules.FieldErrors, error) {
	p, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, nil, err
	}

	merged := rules.PatientCandidate{Name: p.Name, Age: p.Age, Gender: p.Gender}
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.AgeSet {
		merged.Age = patch.Age
	}
	if patch.Gender != nil {
		merged.Gender = *patch.Gender
	}

	age, errs := rules.Patient(merged)
	if !errs.Empty() {
		return nil, errs, nil
	}
	p.Name = merged.Name
	p.Age = age
	p.Gender = merged.Gender
	if err := s.update(ctx, p); err != nil {
		return nil, nil, err
	}
	return p, nil, nil
}

func (s *PatientService) Delete(ctx context.Context, id int64, ownerID string) error {
	err := s.Repo.DeleteOwned(ctx, id, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// UploadDocument stores a clinical document for an owned patient in GCS and
// records the object URL on the patient.
func (s *PatientService) UploadDocument(ctx context.Context, id int64, ownerID string, r io.Reader, filename, contentType string) (string, error) {
	p, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return "", err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("document storage not configured")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("patients", p.OwnerID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}

	p.DocumentURL = url
	if err := s.update(ctx, p); err != nil {
		return "", err
	}
	return url, nil
}

func (s *PatientService) update(ctx context.Context, p *entity.Patient) error {
	err := s.Repo.Update(ctx, p)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
