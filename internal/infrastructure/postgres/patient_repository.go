package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medrec/healthcare-api/internal/domain/entity"
	"github.com/medrec/healthcare-api/internal/domain/repository"
)

type PatientRepository struct {
	pool *pgxpool.Pool
}

func NewPatientRepository(pool *pgxpool.Pool) *PatientRepository {
	return &PatientRepository{pool: pool}
}

func (r *PatientRepository) Create(ctx context.Context, p *entity.Patient) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO patients (owner_id, name, age, gender, document_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, p.OwnerID, p.Name, p.Age, p.Gender, p.DocumentURL)

	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PatientRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, name, age, gender, document_url, created_at, updated_at
		FROM patients
		WHERE owner_id = $1
		ORDER BY id
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patients := []entity.Patient{}
	for rows.Next() {
		var p entity.Patient
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Age, &p.Gender, &p.DocumentURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func (r *PatientRepository) GetOwned(ctx context.Context, id int64, ownerID string) (*entity.Patient, error) {
	p := &entity.Patient{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, age, gender, document_url, created_at, updated_at
		FROM patients
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)

	if err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Age, &p.Gender, &p.DocumentURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PatientRepository) Update(ctx context.Context, p *entity.Patient) error {
	p.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE patients
		SET name = $1, age = $2, gender = $3, document_url = $4, updated_at = $5
		WHERE id = $6 AND owner_id = $7
	`, p.Name, p.Age, p.Gender, p.DocumentURL, p.UpdatedAt, p.ID, p.OwnerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PatientRepository) DeleteOwned(ctx context.Context, id int64, ownerID string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM patients
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PatientRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	row := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, id)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

var _ repository.PatientRepository = (*PatientRepository)(nil)
