// Package repository persists browsing-activity aggregates: one row per
// (session, activity type) pair, upserted atomically.
package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock
// implements the same surface for tests.
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

// Aggregate is the accumulated state for one (session, activity type)
// pair. Rows are created once and only ever updated afterwards.
type Aggregate struct {
	ID              int64
	SessionID       string
	UserID          *string
	Phone           *string
	Email           *string
	ActivityType    string
	ProductData     *string
	ActivityCount   int
	IntentScore     int
	FirstActivityAt time.Time
	LastActivityAt  time.Time
	CreatedAt       time.Time
}

const aggregateColumns = `id, session_id, user_id, phone, email, activity_type, product_data,
	activity_count, intent_score, first_activity_at, last_activity_at, created_at`

func scanAggregate(row pgx.Row) (Aggregate, error) {
	var agg Aggregate
	err := row.Scan(
		&agg.ID, &agg.SessionID, &agg.UserID, &agg.Phone, &agg.Email, &agg.ActivityType,
		&agg.ProductData, &agg.ActivityCount, &agg.IntentScore,
		&agg.FirstActivityAt, &agg.LastActivityAt, &agg.CreatedAt,
	)
	return agg, err
}

// UpsertParams carries one incoming activity event. Weight is the
// per-unit intent weight of the activity type; the score is always
// recomputed in the statement as weight * accumulated count.
type UpsertParams struct {
	SessionID    string
	ActivityType string
	UserID       *string
	Phone        *string
	Email        *string
	ProductData  *string
	DeltaCount   int
	Weight       int
}

// Upsert inserts or updates the aggregate row in a single statement.
// The ON CONFLICT arm holds the row lock for the whole read-compute-write,
// so concurrent calls for the same key serialize instead of losing
// updates. Contact fields merge last-non-null-wins.
func (r *Repository) Upsert(ctx context.Context, params UpsertParams) (Aggregate, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO browser_activities (
			session_id, activity_type, user_id, phone, email, product_data,
			activity_count, intent_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $7 * $8)
		ON CONFLICT (session_id, activity_type) DO UPDATE SET
			activity_count   = browser_activities.activity_count + EXCLUDED.activity_count,
			intent_score     = $8 * (browser_activities.activity_count + EXCLUDED.activity_count),
			user_id          = COALESCE(EXCLUDED.user_id, browser_activities.user_id),
			phone            = COALESCE(EXCLUDED.phone, browser_activities.phone),
			email            = COALESCE(EXCLUDED.email, browser_activities.email),
			product_data     = COALESCE(EXCLUDED.product_data, browser_activities.product_data),
			last_activity_at = now()
		RETURNING `+aggregateColumns,
		params.SessionID, params.ActivityType, params.UserID, params.Phone,
		params.Email, params.ProductData, params.DeltaCount, params.Weight,
	)

	return scanAggregate(row)
}

// GetBySessionAndType returns the aggregate for one key, or pgx.ErrNoRows.
func (r *Repository) GetBySessionAndType(ctx context.Context, sessionID, activityType string) (Aggregate, error) {
	return scanAggregate(r.db.QueryRow(ctx, `
		SELECT `+aggregateColumns+` FROM browser_activities
		WHERE session_id = $1 AND activity_type = $2
	`, sessionID, activityType))
}

// List returns aggregates, newest activity first, optionally filtered by
// session.
func (r *Repository) List(ctx context.Context, sessionID *string) ([]Aggregate, error) {
	query := `SELECT ` + aggregateColumns + ` FROM browser_activities`
	args := make([]any, 0, 1)
	if sessionID != nil {
		query += ` WHERE session_id = $1`
		args = append(args, *sessionID)
	}
	query += ` ORDER BY last_activity_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	aggregates := make([]Aggregate, 0)
	for rows.Next() {
		agg, err := scanAggregate(rows)
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, agg)
	}

	return aggregates, rows.Err()
}
