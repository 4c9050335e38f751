package repository

import (
	"context"
	"errors"

	"crm_backend/internal/leads/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// PromoteLeadParams describes a lead auto-created from a high-intent
// browsing aggregate.
type PromoteLeadParams struct {
	Phone       *string
	Email       *string
	LeadScore   int
	Notes       string
	IsAnonymous bool
}

// PromoteIfAbsent creates the promoted lead unless one already matches
// the phone or the email. The duplicate lookup and the insert run in one
// transaction; the partial unique indexes on leads(phone) and
// leads(email) catch the race a concurrent promotion can still lose, in
// which case the existing lead is returned instead of an error.
func (r *Repository) PromoteIfAbsent(ctx context.Context, params PromoteLeadParams) (Lead, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Lead{}, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	existing, err := scanLead(tx.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads
		WHERE ($1::text IS NOT NULL AND phone = $1)
		   OR ($2::text IS NOT NULL AND email = $2)
		ORDER BY created_at DESC
		LIMIT 1
	`, params.Phone, params.Email))
	if err == nil {
		if err := tx.Commit(ctx); err != nil {
			return Lead{}, false, err
		}
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, false, err
	}

	created, err := scanLead(tx.QueryRow(ctx, `
		INSERT INTO leads (
			phone, email, lead_source, lead_medium, is_high_intent,
			pipeline_stage, request_type, urgency_level, lead_score, notes, is_anonymous
		) VALUES ($1, $2, $3, $4, true, $5, $6, $7, $8, $9, $10)
		RETURNING `+leadColumns,
		params.Phone, params.Email, domain.SourceOrganic, domain.MediumWebsite,
		domain.StageRawLead, domain.RequestProductEnquiry, domain.UrgencyHigh,
		params.LeadScore, params.Notes, params.IsAnonymous,
	))
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race: a concurrent promotion inserted the same
			// contact first. Degrade to returning that lead.
			_ = tx.Rollback(ctx)
			winner, findErr := r.FindByContact(ctx, params.Phone, params.Email)
			if findErr != nil {
				return Lead{}, false, findErr
			}
			if winner == nil {
				return Lead{}, false, err
			}
			return *winner, false, nil
		}
		return Lead{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, false, err
	}
	return created, true, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
