// Package repository provides data access for orders. Creating an order
// also advances the owning lead, so the write path needs a transaction.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm_backend/internal/orders/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when no order matches the lookup.
var ErrNotFound = errors.New("order not found")

// ErrLeadNotFound is returned when the referenced lead does not exist.
var ErrLeadNotFound = errors.New("lead not found")

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repository struct {
	db DB
}

func New(db DB) *Repository {
	return &Repository{db: db}
}

// Order is a confirmed sale attached to a lead.
type Order struct {
	ID                 int64
	LeadID             int64
	OrderNumber        string
	ProductDetails     string
	TotalAmount        float64
	AdvanceAmount      *float64
	BalanceAmount      *float64
	PaymentStatus      domain.PaymentStatus
	OrderStatus        domain.OrderStatus
	DeliveryDate       *time.Time
	ActualDeliveryDate *time.Time
	SLABreach          bool
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ActiveDeal is an order joined with its lead's contact snapshot.
type ActiveDeal struct {
	Order
	LeadName      *string
	LeadPhone     *string
	LeadEmail     *string
	PipelineStage string
}

const orderColumns = `id, lead_id, order_number, product_details, total_amount, advance_amount,
	balance_amount, payment_status, order_status, delivery_date, actual_delivery_date,
	sla_breach, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.LeadID, &o.OrderNumber, &o.ProductDetails, &o.TotalAmount,
		&o.AdvanceAmount, &o.BalanceAmount, &o.PaymentStatus, &o.OrderStatus,
		&o.DeliveryDate, &o.ActualDeliveryDate, &o.SLABreach, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// CreateOrderParams holds the fields for a new order. BalanceAmount is
// computed by the service before the call.
type CreateOrderParams struct {
	LeadID         int64
	OrderNumber    string
	ProductDetails string
	TotalAmount    float64
	AdvanceAmount  *float64
	BalanceAmount  float64
	DeliveryDate   *time.Time
	Notes          *string
}

// Create inserts the order and marks the lead's follow-up as completed
// in the same transaction. The lead update doubles as the existence
// check: zero rows affected means no such lead.
func (r *Repository) Create(ctx context.Context, params CreateOrderParams) (Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE leads SET follow_up_status = 'Sale Completed', updated_at = now()
		WHERE id = $1
	`, params.LeadID)
	if err != nil {
		return Order{}, err
	}
	if tag.RowsAffected() == 0 {
		return Order{}, ErrLeadNotFound
	}

	order, err := scanOrder(tx.QueryRow(ctx, `
		INSERT INTO orders (
			lead_id, order_number, product_details, total_amount, advance_amount,
			balance_amount, delivery_date, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+orderColumns,
		params.LeadID, params.OrderNumber, params.ProductDetails, params.TotalAmount,
		params.AdvanceAmount, params.BalanceAmount, params.DeliveryDate, params.Notes,
	))
	if err != nil {
		return Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return order, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return order, err
}

// ListOrdersParams filters the order listing; nil fields are skipped.
type ListOrdersParams struct {
	LeadID *int64
	Status *domain.OrderStatus
}

func (r *Repository) List(ctx context.Context, params ListOrdersParams) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := make([]any, 0, 2)

	if params.LeadID != nil {
		args = append(args, *params.LeadID)
		query += fmt.Sprintf(" WHERE lead_id = $%d", len(args))
	}
	if params.Status != nil {
		args = append(args, *params.Status)
		if len(args) == 1 {
			query += fmt.Sprintf(" WHERE order_status = $%d", len(args))
		} else {
			query += fmt.Sprintf(" AND order_status = $%d", len(args))
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// ActiveDeals returns every non-cancelled order joined with its lead.
func (r *Repository) ActiveDeals(ctx context.Context) ([]ActiveDeal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.lead_id, o.order_number, o.product_details, o.total_amount,
			o.advance_amount, o.balance_amount, o.payment_status, o.order_status,
			o.delivery_date, o.actual_delivery_date, o.sla_breach, o.notes,
			o.created_at, o.updated_at,
			l.name, l.phone, l.email, l.pipeline_stage
		FROM orders o
		INNER JOIN leads l ON l.id = o.lead_id
		WHERE o.order_status <> 'Cancelled'
		ORDER BY o.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := make([]ActiveDeal, 0)
	for rows.Next() {
		var d ActiveDeal
		err := rows.Scan(
			&d.ID, &d.LeadID, &d.OrderNumber, &d.ProductDetails, &d.TotalAmount,
			&d.AdvanceAmount, &d.BalanceAmount, &d.PaymentStatus, &d.OrderStatus,
			&d.DeliveryDate, &d.ActualDeliveryDate, &d.SLABreach, &d.Notes,
			&d.CreatedAt, &d.UpdatedAt,
			&d.LeadName, &d.LeadPhone, &d.LeadEmail, &d.PipelineStage,
		)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}
