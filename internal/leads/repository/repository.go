package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crm_backend/internal/leads/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("lead not found")

	// ErrDuplicateContact is returned when an insert collides with the
	// unique indexes on leads(phone) and leads(email).
	ErrDuplicateContact = errors.New("lead with this contact already exists")
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock
// implements the same surface for tests.
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

type Lead struct {
	ID                int64
	Name              *string
	Phone             *string
	Email             *string
	Source            domain.Source
	Medium            domain.Medium
	IsHighIntent      bool
	PipelineStage     domain.PipelineStage
	GenuineLeadStatus *domain.GenuineLeadStatus
	FollowUpStatus    *domain.FollowUpStatus
	RequestType       domain.RequestType
	UrgencyLevel      domain.UrgencyLevel
	SpecialDate       *time.Time
	Occasion          *string
	LeadScore         int
	Notes             *string
	AssignedTo        *int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastContactedAt   *time.Time
	NextFollowUpAt    *time.Time
	IsAnonymous       bool
	WatiContactID     *string
}

const leadColumns = `id, name, phone, email, lead_source, lead_medium, is_high_intent,
	pipeline_stage, genuine_lead_status, follow_up_status, request_type, urgency_level,
	special_date, occasion, lead_score, notes, assigned_to, created_at, updated_at,
	last_contacted_at, next_follow_up_at, is_anonymous, wati_contact_id`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Phone, &lead.Email, &lead.Source, &lead.Medium,
		&lead.IsHighIntent, &lead.PipelineStage, &lead.GenuineLeadStatus, &lead.FollowUpStatus,
		&lead.RequestType, &lead.UrgencyLevel, &lead.SpecialDate, &lead.Occasion,
		&lead.LeadScore, &lead.Notes, &lead.AssignedTo, &lead.CreatedAt, &lead.UpdatedAt,
		&lead.LastContactedAt, &lead.NextFollowUpAt, &lead.IsAnonymous, &lead.WatiContactID,
	)
	return lead, err
}

type CreateLeadParams struct {
	Name              *string
	Phone             *string
	Email             *string
	Source            domain.Source
	Medium            domain.Medium
	IsHighIntent      bool
	PipelineStage     domain.PipelineStage
	GenuineLeadStatus *domain.GenuineLeadStatus
	RequestType       domain.RequestType
	UrgencyLevel      domain.UrgencyLevel
	SpecialDate       *time.Time
	Occasion          *string
	LeadScore         int
	Notes             *string
	AssignedTo        *int64
	LastContactedAt   *time.Time
	NextFollowUpAt    *time.Time
	IsAnonymous       bool
	WatiContactID     *string
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO leads (
			name, phone, email, lead_source, lead_medium, is_high_intent,
			pipeline_stage, genuine_lead_status, request_type, urgency_level,
			special_date, occasion, lead_score, notes, assigned_to,
			last_contacted_at, next_follow_up_at, is_anonymous, wati_contact_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING `+leadColumns,
		params.Name, params.Phone, params.Email, params.Source, params.Medium,
		params.IsHighIntent, params.PipelineStage, params.GenuineLeadStatus,
		params.RequestType, params.UrgencyLevel, params.SpecialDate, params.Occasion,
		params.LeadScore, params.Notes, params.AssignedTo, params.LastContactedAt,
		params.NextFollowUpAt, params.IsAnonymous, params.WatiContactID,
	)

	lead, err := scanLead(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Lead{}, ErrDuplicateContact
		}
		return Lead{}, err
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Lead, error) {
	lead, err := scanLead(r.db.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type ListLeadsParams struct {
	PipelineStage *domain.PipelineStage
	AssignedTo    *int64
	HighIntent    *bool
}

func (r *Repository) List(ctx context.Context, params ListLeadsParams) ([]Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	conditions := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if params.PipelineStage != nil {
		args = append(args, *params.PipelineStage)
		conditions = append(conditions, fmt.Sprintf("pipeline_stage = $%d", len(args)))
	}
	if params.AssignedTo != nil {
		args = append(args, *params.AssignedTo)
		conditions = append(conditions, fmt.Sprintf("assigned_to = $%d", len(args)))
	}
	if params.HighIntent != nil {
		args = append(args, *params.HighIntent)
		conditions = append(conditions, fmt.Sprintf("is_high_intent = $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

// UpdateLeadParams carries a partial update. A nil pointer means the
// field was not supplied and keeps its stored value. Fields where an
// explicit null is meaningful carry a separate Set flag.
type UpdateLeadParams struct {
	Name                 *string
	Phone                *string
	Email                *string
	PipelineStage        *domain.PipelineStage
	GenuineLeadStatus    *domain.GenuineLeadStatus
	GenuineLeadStatusSet bool
	FollowUpStatus       *domain.FollowUpStatus
	FollowUpStatusSet    bool
	UrgencyLevel         *domain.UrgencyLevel
	IsHighIntent         *bool
	LeadScore            *int
	Notes                *string
	NotesSet             bool
	AssignedTo           *int64
	AssignedToSet        bool
	LastContactedAt      *time.Time
	NextFollowUpAt       *time.Time
	NextFollowUpAtSet    bool
}

// Update merges only the supplied fields into the stored row in a single
// UPDATE statement, so a missing id leaves no partial side effects.
// updated_at is always refreshed. A supplied lead_score overwrites the
// stored value verbatim.
func (r *Repository) Update(ctx context.Context, id int64, params UpdateLeadParams) (Lead, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		set("name", *params.Name)
	}
	if params.Phone != nil {
		set("phone", *params.Phone)
	}
	if params.Email != nil {
		set("email", *params.Email)
	}
	if params.PipelineStage != nil {
		set("pipeline_stage", *params.PipelineStage)
	}
	if params.GenuineLeadStatusSet {
		set("genuine_lead_status", params.GenuineLeadStatus)
	}
	if params.FollowUpStatusSet {
		set("follow_up_status", params.FollowUpStatus)
	}
	if params.UrgencyLevel != nil {
		set("urgency_level", *params.UrgencyLevel)
	}
	if params.IsHighIntent != nil {
		set("is_high_intent", *params.IsHighIntent)
	}
	if params.LeadScore != nil {
		set("lead_score", *params.LeadScore)
	}
	if params.NotesSet {
		set("notes", params.Notes)
	}
	if params.AssignedToSet {
		set("assigned_to", params.AssignedTo)
	}
	if params.LastContactedAt != nil {
		set("last_contacted_at", *params.LastContactedAt)
	}
	if params.NextFollowUpAtSet {
		set("next_follow_up_at", params.NextFollowUpAt)
	}

	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $1 RETURNING %s`, strings.Join(sets, ", "), leadColumns)

	lead, err := scanLead(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// FindByContact returns the newest lead matching the phone or the email.
// Either identifier alone is enough for a match.
func (r *Repository) FindByContact(ctx context.Context, phone, email *string) (*Lead, error) {
	if phone == nil && email == nil {
		return nil, nil
	}

	lead, err := scanLead(r.db.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads
		WHERE ($1::text IS NOT NULL AND phone = $1)
		   OR ($2::text IS NOT NULL AND email = $2)
		ORDER BY created_at DESC
		LIMIT 1
	`, phone, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}
