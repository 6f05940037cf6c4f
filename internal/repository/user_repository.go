package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jow12560/bizlens-backend/internal/domain"
)

// UserRepository handles persistence for back-office staff accounts.
//
// The lookup methods return every matching row ordered by id; callers apply
// the first-row-wins policy. FindByEmailFold and FindByEmailPrefix exist
// purely for diagnostic logging and are never used to authenticate.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) ([]domain.User, error)
	FindByEmailFold(ctx context.Context, email string) ([]domain.User, error)
	FindByEmailPrefix(ctx context.Context, email string) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, id int64, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id int64) (*domain.User, error)
}

// UserPatch carries optional column updates; nil fields are left untouched.
type UserPatch struct {
	FullName            *string
	Email               *string
	PasswordHash        *string
	Role                *string
	AssignedDepartments []string
	AvatarPath          *string
}

const userColumns = "id, full_name, email, password, role, assigned_departments, avatar_path, created_at, updated_at"

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates the repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM app_user WHERE email=$1 ORDER BY id", userColumns)
	return r.queryUsers(ctx, query, email)
}

func (r *userRepository) FindByEmailFold(ctx context.Context, email string) ([]domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM app_user WHERE email ILIKE $1 ORDER BY id", userColumns)
	return r.queryUsers(ctx, query, strings.ToLower(email))
}

func (r *userRepository) FindByEmailPrefix(ctx context.Context, email string) ([]domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM app_user WHERE email LIKE $1 ORDER BY id", userColumns)
	return r.queryUsers(ctx, query, email+"%")
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM app_user WHERE id=$1", userColumns)
	var user domain.User
	if err := scanUser(r.pool.QueryRow(ctx, query, id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM app_user ORDER BY id ASC", userColumns)
	return r.queryUsers(ctx, query)
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO app_user (full_name, email, password, role, assigned_departments)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`

	departments := user.AssignedDepartments
	if departments == nil {
		departments = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.Role,
		departments,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, id int64, patch UserPatch) (*domain.User, error) {
	args := []any{}
	sets := []string{}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.FullName != nil {
		appendSet("full_name", *patch.FullName)
	}
	if patch.Email != nil {
		appendSet("email", *patch.Email)
	}
	if patch.PasswordHash != nil {
		appendSet("password", *patch.PasswordHash)
	}
	if patch.Role != nil {
		appendSet("role", *patch.Role)
	}
	if patch.AssignedDepartments != nil {
		appendSet("assigned_departments", patch.AssignedDepartments)
	}
	if patch.AvatarPath != nil {
		appendSet("avatar_path", *patch.AvatarPath)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at=NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE app_user SET %s WHERE id=$%d RETURNING %s",
		strings.Join(sets, ", "), len(args), userColumns)

	var user domain.User
	if err := scanUser(r.pool.QueryRow(ctx, query, args...), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) (*domain.User, error) {
	query := fmt.Sprintf("DELETE FROM app_user WHERE id=$1 RETURNING %s", userColumns)
	var user domain.User
	if err := scanUser(r.pool.QueryRow(ctx, query, id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func scanUser(row pgx.Row, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.AssignedDepartments,
		&user.AvatarPath,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}
