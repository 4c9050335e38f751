// Package repository provides data access for communication logs.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crm_backend/internal/comms/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

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

// Log is one recorded communication with a contact.
type Log struct {
	ID                int64
	LeadID            *int64
	OrderID           *int64
	Channel           domain.Channel
	Direction         domain.Direction
	MessageContent    *string
	TemplateName      *string
	Status            domain.MessageStatus
	SentBy            *int64
	ExternalMessageID *string
	CreatedAt         time.Time
}

const logColumns = `id, lead_id, order_id, communication_type, direction, message_content,
	template_name, status, sent_by, external_message_id, created_at`

func scanLog(row pgx.Row) (Log, error) {
	var l Log
	err := row.Scan(&l.ID, &l.LeadID, &l.OrderID, &l.Channel, &l.Direction,
		&l.MessageContent, &l.TemplateName, &l.Status, &l.SentBy,
		&l.ExternalMessageID, &l.CreatedAt)
	return l, err
}

// CreateLogParams holds the fields for a new log entry.
type CreateLogParams struct {
	LeadID            *int64
	OrderID           *int64
	Channel           domain.Channel
	Direction         domain.Direction
	MessageContent    *string
	TemplateName      *string
	Status            domain.MessageStatus
	SentBy            *int64
	ExternalMessageID *string
}

func (r *Repository) Create(ctx context.Context, params CreateLogParams) (Log, error) {
	return scanLog(r.db.QueryRow(ctx, `
		INSERT INTO communication_logs (
			lead_id, order_id, communication_type, direction, message_content,
			template_name, status, sent_by, external_message_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+logColumns,
		params.LeadID, params.OrderID, params.Channel, params.Direction,
		params.MessageContent, params.TemplateName, params.Status, params.SentBy,
		params.ExternalMessageID,
	))
}

// ListLogsParams filters the log listing; nil fields are skipped.
type ListLogsParams struct {
	LeadID  *int64
	OrderID *int64
}

func (r *Repository) List(ctx context.Context, params ListLogsParams) ([]Log, error) {
	query := `SELECT ` + logColumns + ` FROM communication_logs`
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 2)

	if params.LeadID != nil {
		args = append(args, *params.LeadID)
		conditions = append(conditions, fmt.Sprintf("lead_id = $%d", len(args)))
	}
	if params.OrderID != nil {
		args = append(args, *params.OrderID)
		conditions = append(conditions, fmt.Sprintf("order_id = $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]Log, 0)
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
