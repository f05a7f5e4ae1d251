package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medrec/healthcare-api/internal/domain/entity"
	"github.com/medrec/healthcare-api/internal/domain/repository"
)

type MappingRepository struct {
	pool *pgxpool.Pool
}

func NewMappingRepository(pool *pgxpool.Pool) *MappingRepository {
	return &MappingRepository{pool: pool}
}

func (r *MappingRepository) Create(ctx context.Context, m *entity.PatientDoctorMapping) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO patient_doctor_mappings (patient_id, doctor_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, m.PatientID, m.DoctorID)

	if err := row.Scan(&m.ID, &m.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *MappingRepository) List(ctx context.Context) ([]entity.PatientDoctorMapping, error) {
	return r.list(ctx, `
		SELECT id, patient_id, doctor_id, created_at
		FROM patient_doctor_mappings
		ORDER BY id
	`)
}

func (r *MappingRepository) ListByPatient(ctx context.Context, patientID int64) ([]entity.PatientDoctorMapping, error) {
	return r.list(ctx, `
		SELECT id, patient_id, doctor_id, created_at
		FROM patient_doctor_mappings
		WHERE patient_id = $1
		ORDER BY id
	`, patientID)
}

func (r *MappingRepository) list(ctx context.Context, query string, args ...any) ([]entity.PatientDoctorMapping, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mappings := []entity.PatientDoctorMapping{}
	for rows.Next() {
		var m entity.PatientDoctorMapping
		if err := rows.Scan(&m.ID, &m.PatientID, &m.DoctorID, &m.CreatedAt); err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

func (r *MappingRepository) GetByID(ctx context.Context, id int64) (*entity.PatientDoctorMapping, error) {
	m := &entity.PatientDoctorMapping{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, doctor_id, created_at
		FROM patient_doctor_mappings
		WHERE id = $1
	`, id)

	if err := row.Scan(&m.ID, &m.PatientID, &m.DoctorID, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *MappingRepository) Update(ctx context.Context, m *entity.PatientDoctorMapping) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE patient_doctor_mappings
		SET patient_id = $1, doctor_id = $2
		WHERE id = $3
	`, m.PatientID, m.DoctorID, m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MappingRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM patient_doctor_mappings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MappingRepository) ExistsPair(ctx context.Context, patientID, doctorID, excludeID int64) (bool, error) {
	var exists bool
	row := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM patient_doctor_mappings
			WHERE patient_id = $1 AND doctor_id = $2 AND id <> $3
		)
	`, patientID, doctorID, excludeID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

var _ repository.MappingRepository = (*MappingRepository)(nil)
