package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jow12560/bizlens-backend/internal/domain"
)

// TechnicianRepository handles persistence for field technician accounts.
// FindByUsername returns every matching row ordered by id; the caller takes
// the first. No diagnostic fallbacks exist for technicians.
type TechnicianRepository interface {
	FindByUsername(ctx context.Context, username string) ([]domain.Technician, error)
	GetByID(ctx context.Context, id int64) (*domain.Technician, error)
}

type technicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository instantiates the repository.
func NewTechnicianRepository(pool *pgxpool.Pool) TechnicianRepository {
	return &technicianRepository{pool: pool}
}

func (r *technicianRepository) FindByUsername(ctx context.Context, username string) ([]domain.Technician, error) {
	const query = `
        SELECT id, username, password, full_name, identification_number, created_at, updated_at
        FROM technician WHERE username=$1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Technician
	for rows.Next() {
		var tech domain.Technician
		if err := rows.Scan(
			&tech.ID,
			&tech.Username,
			&tech.Password,
			&tech.FullName,
			&tech.IdentificationNumber,
			&tech.CreatedAt,
			&tech.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tech)
	}
	return result, rows.Err()
}

func (r *technicianRepository) GetByID(ctx context.Context, id int64) (*domain.Technician, error) {
	const query = `
        SELECT id, username, password, full_name, identification_number, created_at, updated_at
        FROM technician WHERE id=$1`

	var tech domain.Technician
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tech.ID,
		&tech.Username,
		&tech.Password,
		&tech.FullName,
		&tech.IdentificationNumber,
		&tech.CreatedAt,
		&tech.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tech, nil
}
