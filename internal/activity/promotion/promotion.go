// Package promotion decides whether a browsing aggregate has earned a
// lead record and creates it through the lead store. Evaluation runs
// inline with activity recording but its failures never propagate: an
// aggregate that could not be promoted now will cross the threshold
// again on its next activity.
package promotion

import (
	"context"
	"fmt"

	"crm_backend/internal/activity/repository"
	"crm_backend/internal/leads/scoring"
	"crm_backend/platform/logger"
)

// Status classifies the result of one promotion evaluation.
type Status string

const (
	// StatusSkipped means the aggregate is below the threshold or has no
	// contact identifier to key a lead on.
	StatusSkipped Status = "skipped"
	// StatusPromoted means a new lead was created.
	StatusPromoted Status = "promoted"
	// StatusAlreadyLead means a lead already existed for the contact.
	StatusAlreadyLead Status = "already_lead"
	// StatusFailed means the store rejected the promotion; the error is
	// recorded on the outcome and logged, never returned.
	StatusFailed Status = "failed"
)

// Outcome reports what one evaluation did. LeadID is set for
// StatusPromoted and StatusAlreadyLead.
type Outcome struct {
	Status Status
	Reason string
	LeadID int64
	Err    error
}

// PromoteRequest is the contact and scoring context handed to the lead
// store when an aggregate qualifies.
type PromoteRequest struct {
	Phone       *string
	Email       *string
	IntentScore int
	Notes       string
	IsAnonymous bool
}

// PromotedLead is the store's view of the resulting lead.
type PromotedLead struct {
	ID    int64
	Phone *string
	Email *string
}

// LeadStore creates the lead for a qualifying aggregate, or returns the
// existing one when the contact already has a lead. The bool reports
// whether a new lead was created.
type LeadStore interface {
	PromoteIfAbsent(ctx context.Context, req PromoteRequest) (PromotedLead, bool, error)
}

// Evaluator applies the promotion rule to aggregates.
type Evaluator struct {
	store  LeadStore
	policy scoring.Policy
	log    *logger.Logger
}

func NewEvaluator(store LeadStore, policy scoring.Policy, log *logger.Logger) *Evaluator {
	return &Evaluator{store: store, policy: policy, log: log}
}

// Evaluate promotes the aggregate when its intent score meets the
// threshold and it carries at least one contact identifier. A contact
// already holding a lead, matched on phone or email alone, is never
// duplicated. Evaluate never fails the caller.
func (e *Evaluator) Evaluate(ctx context.Context, agg repository.Aggregate) Outcome {
	if agg.IntentScore < e.policy.Threshold() {
		return Outcome{Status: StatusSkipped, Reason: "intent score below threshold"}
	}
	if !hasValue(agg.Phone) && !hasValue(agg.Email) {
		return Outcome{Status: StatusSkipped, Reason: "no contact identifier"}
	}

	// A blank identifier must reach the store as nil: the unique contact
	// indexes cover every non-null value, empty string included.
	lead, created, err := e.store.PromoteIfAbsent(ctx, PromoteRequest{
		Phone:       presentValue(agg.Phone),
		Email:       presentValue(agg.Email),
		IntentScore: agg.IntentScore,
		Notes:       promotionNotes(agg),
		IsAnonymous: agg.UserID == nil,
	})
	if err != nil {
		e.log.PromotionFailure(agg.SessionID, err)
		return Outcome{Status: StatusFailed, Err: err}
	}

	if !created {
		return Outcome{Status: StatusAlreadyLead, LeadID: lead.ID}
	}
	return Outcome{Status: StatusPromoted, LeadID: lead.ID}
}

func promotionNotes(agg repository.Aggregate) string {
	return fmt.Sprintf("Auto-created from high-intent browsing activity: %s (score %d, session %s)",
		agg.ActivityType, agg.IntentScore, agg.SessionID)
}

func hasValue(s *string) bool {
	return s != nil && *s != ""
}

func presentValue(s *string) *string {
	if !hasValue(s) {
		return nil
	}
	return s
}
