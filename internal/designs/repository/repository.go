// Package repository provides data access for the design bank.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when no design matches the lookup.
var ErrNotFound = errors.New("design not found")

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

// Design is a catalog entry in the design bank. Tags is a JSON-encoded
// string array, stored as text.
type Design struct {
	ID            int64
	Name          string
	Category      string
	Subcategory   *string
	ImageURL      string
	Description   *string
	PriceRangeMin *float64
	PriceRangeMax *float64
	Tags          *string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const designColumns = `id, name, category, subcategory, image_url, description,
	price_range_min, price_range_max, tags, is_active, created_at, updated_at`

func scanDesign(row pgx.Row) (Design, error) {
	var d Design
	err := row.Scan(&d.ID, &d.Name, &d.Category, &d.Subcategory, &d.ImageURL,
		&d.Description, &d.PriceRangeMin, &d.PriceRangeMax, &d.Tags,
		&d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// CreateDesignParams holds the fields for a new catalog entry.
type CreateDesignParams struct {
	Name          string
	Category      string
	Subcategory   *string
	ImageURL      string
	Description   *string
	PriceRangeMin *float64
	PriceRangeMax *float64
	Tags          *string
}

func (r *Repository) Create(ctx context.Context, params CreateDesignParams) (Design, error) {
	return scanDesign(r.db.QueryRow(ctx, `
		INSERT INTO designs (
			name, category, subcategory, image_url, description,
			price_range_min, price_range_max, tags
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+designColumns,
		params.Name, params.Category, params.Subcategory, params.ImageURL,
		params.Description, params.PriceRangeMin, params.PriceRangeMax, params.Tags,
	))
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Design, error) {
	design, err := scanDesign(r.db.QueryRow(ctx, `
		SELECT `+designColumns+` FROM designs WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Design{}, ErrNotFound
	}
	return design, err
}

// ListDesignsParams filters the catalog listing. Only active designs are
// returned unless IncludeInactive is set.
type ListDesignsParams struct {
	Category        *string
	IncludeInactive bool
}

func (r *Repository) List(ctx context.Context, params ListDesignsParams) ([]Design, error) {
	query := `SELECT ` + designColumns + ` FROM designs`
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 1)

	if !params.IncludeInactive {
		conditions = append(conditions, "is_active = true")
	}
	if params.Category != nil {
		args = append(args, *params.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
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

	designs := make([]Design, 0)
	for rows.Next() {
		design, err := scanDesign(rows)
		if err != nil {
			return nil, err
		}
		designs = append(designs, design)
	}
	return designs, rows.Err()
}

// Deactivate retires a design from the catalog without deleting it.
func (r *Repository) Deactivate(ctx context.Context, id int64) (Design, error) {
	design, err := scanDesign(r.db.QueryRow(ctx, `
		UPDATE designs SET is_active = false, updated_at = now()
		WHERE id = $1
		RETURNING `+designColumns,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Design{}, ErrNotFound
	}
	return design, err
}
