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

type DoctorRepository struct {
	pool *pgxpool.Pool
}

func NewDoctorRepository(pool *pgxpool.Pool) *DoctorRepository {
	return &DoctorRepository{pool: pool}
}

func (r *DoctorRepository) Create(ctx context.Context, d *entity.Doctor) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO doctors (name, specialization)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, d.Name, d.Specialization)

	return row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *DoctorRepository) List(ctx context.Context) ([]entity.Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, specialization, created_at, updated_at
		FROM doctors
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	doctors := []entity.Doctor{}
	for rows.Next() {
		var d entity.Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialization, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}

func (r *DoctorRepository) GetByID(ctx context.Context, id int64) (*entity.Doctor, error) {
	d := &entity.Doctor{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, specialization, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`, id)

	if err := row.Scan(&d.ID, &d.Name, &d.Specialization, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *DoctorRepository) Update(ctx context.Context, d *entity.Doctor) error {
	d.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE doctors
		SET name = $1, specialization = $2, updated_at = $3
		WHERE id = $4
	`, d.Name, d.Specialization, d.UpdatedAt, d.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *DoctorRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *DoctorRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	row := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM doctors WHERE id = $1)`, id)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

var _ repository.DoctorRepository = (*DoctorRepository)(nil)
