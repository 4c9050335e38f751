// Package repository provides data access for team member accounts.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crm_backend/internal/users/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// ErrEmailTaken is returned when the unique email constraint fires.
var ErrEmailTaken = errors.New("email already registered")

const uniqueViolationCode = "23505"

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db DB
}

func New(db DB) *Repository {
	return &Repository{db: db}
}

// User is a team member account.
type User struct {
	ID           int64
	Name         string
	Email        string
	Role         domain.Role
	Phone        *string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const userColumns = `id, name, email, role, phone, password_hash, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Phone, &u.PasswordHash,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreateUserParams holds the fields for a new account.
type CreateUserParams struct {
	Name         string
	Email        string
	Role         domain.Role
	Phone        *string
	PasswordHash string
}

func (r *Repository) Create(ctx context.Context, params CreateUserParams) (User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, role, phone, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		params.Name, params.Email, params.Role, params.Phone, params.PasswordHash,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return user, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

// ListUsersParams filters the account listing; nil fields are skipped.
type ListUsersParams struct {
	Role     *domain.Role
	IsActive *bool
}

func (r *Repository) List(ctx context.Context, params ListUsersParams) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 2)

	if params.Role != nil {
		args = append(args, *params.Role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}
	if params.IsActive != nil {
		args = append(args, *params.IsActive)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// SetActive toggles the account's active flag.
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) (User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `
		UPDATE users SET is_active = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, active,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}
