// Package repository provides data access for scheduled calendar events.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crm_backend/internal/calendar/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when no event matches the lookup.
var ErrNotFound = errors.New("calendar event not found")

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

// Event is a scheduled calendar entry, optionally linked to a lead or
// an order.
type Event struct {
	ID          int64
	Title       string
	Description *string
	StartTime   time.Time
	EndTime     time.Time
	EventType   domain.EventType
	LeadID      *int64
	OrderID     *int64
	AssignedTo  int64
	CreatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const eventColumns = `id, title, description, start_time, end_time, event_type,
	lead_id, order_id, assigned_to, created_by, created_at, updated_at`

func scanEvent(row pgx.Row) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime,
		&e.EventType, &e.LeadID, &e.OrderID, &e.AssignedTo, &e.CreatedBy,
		&e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// CreateEventParams holds the fields for a new calendar entry.
type CreateEventParams struct {
	Title       string
	Description *string
	StartTime   time.Time
	EndTime     time.Time
	EventType   domain.EventType
	LeadID      *int64
	OrderID     *int64
	AssignedTo  int64
	CreatedBy   int64
}

func (r *Repository) Create(ctx context.Context, params CreateEventParams) (Event, error) {
	return scanEvent(r.db.QueryRow(ctx, `
		INSERT INTO calendar_events (
			title, description, start_time, end_time, event_type,
			lead_id, order_id, assigned_to, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+eventColumns,
		params.Title, params.Description, params.StartTime, params.EndTime,
		params.EventType, params.LeadID, params.OrderID, params.AssignedTo,
		params.CreatedBy,
	))
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Event, error) {
	event, err := scanEvent(r.db.QueryRow(ctx, `
		SELECT `+eventColumns+` FROM calendar_events WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Event{}, ErrNotFound
	}
	return event, err
}

// ListEventsParams filters the event listing; nil fields are skipped.
// StartDate bounds the event start, EndDate bounds the event end.
type ListEventsParams struct {
	StartDate  *time.Time
	EndDate    *time.Time
	EventType  *domain.EventType
	AssignedTo *int64
}

func (r *Repository) List(ctx context.Context, params ListEventsParams) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events`
	conditions := make([]string, 0, 4)
	args := make([]any, 0, 4)

	if params.StartDate != nil {
		args = append(args, *params.StartDate)
		conditions = append(conditions, fmt.Sprintf("start_time >= $%d", len(args)))
	}
	if params.EndDate != nil {
		args = append(args, *params.EndDate)
		conditions = append(conditions, fmt.Sprintf("end_time <= $%d", len(args)))
	}
	if params.EventType != nil {
		args = append(args, *params.EventType)
		conditions = append(conditions, fmt.Sprintf("event_type = $%d", len(args)))
	}
	if params.AssignedTo != nil {
		args = append(args, *params.AssignedTo)
		conditions = append(conditions, fmt.Sprintf("assigned_to = $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY start_time ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
