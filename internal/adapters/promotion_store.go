// Package adapters bridges bounded contexts without letting them import
// each other's internals directly.
package adapters

import (
	"context"

	"crm_backend/internal/activity/promotion"
	leadsrepo "crm_backend/internal/leads/repository"
)

// PromotionStore adapts the leads repository to the promotion
// evaluator's LeadStore port.
type PromotionStore struct {
	repo *leadsrepo.Repository
}

func NewPromotionStore(repo *leadsrepo.Repository) *PromotionStore {
	return &PromotionStore{repo: repo}
}

// PromoteIfAbsent maps the promotion request onto the transactional
// create-unless-duplicate operation in the leads store.
func (a *PromotionStore) PromoteIfAbsent(ctx context.Context, req promotion.PromoteRequest) (promotion.PromotedLead, bool, error) {
	lead, created, err := a.repo.PromoteIfAbsent(ctx, leadsrepo.PromoteLeadParams{
		Phone:       req.Phone,
		Email:       req.Email,
		LeadScore:   req.IntentScore,
		Notes:       req.Notes,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		return promotion.PromotedLead{}, false, err
	}
	return promotion.PromotedLead{ID: lead.ID, Phone: lead.Phone, Email: lead.Email}, created, nil
}
