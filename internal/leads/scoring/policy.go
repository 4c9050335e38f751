// Package scoring derives deterministic lead and intent scores from
// categorical attributes. All functions are pure; the weight tables and
// the promotion threshold live on an injected Policy value so score
// tuning never requires touching callers.
package scoring

import "crm_backend/internal/leads/domain"

// ActivityKind is the category of a tracked browsing action.
type ActivityKind string

const (
	ActivityProductView             ActivityKind = "Product View"
	ActivityMultipleVisits          ActivityKind = "Multiple website visits"
	ActivityMultipleProductsBrowsed ActivityKind = "Browsed multiple Products"
	ActivityAddToCart               ActivityKind = "Add to Cart"
)

// Policy carries the score weight tables and the promotion threshold.
// Unknown enum values score zero here; transport validation rejects them
// before they reach this layer.
type Policy struct {
	SourceWeights    map[domain.Source]int
	MediumWeights    map[domain.Medium]int
	UrgencyWeights   map[domain.UrgencyLevel]int
	HighIntentBonus  int
	ActivityWeights  map[ActivityKind]int
	PromotionMinimum int
}

// DefaultPolicy returns the production weight tables.
func DefaultPolicy() Policy {
	return Policy{
		SourceWeights: map[domain.Source]int{
			domain.SourceDirect:  50,
			domain.SourceSEO:     40,
			domain.SourceOrganic: 40,
			domain.SourceGoogle:  30,
			domain.SourceMeta:    30,
			domain.SourceWati:    20,
		},
		MediumWeights: map[domain.Medium]int{
			domain.MediumPhone:       30,
			domain.MediumEmail:       25,
			domain.MediumWhatsApp:    20,
			domain.MediumWebsite:     15,
			domain.MediumSocialMedia: 10,
			domain.MediumDirect:      5,
		},
		UrgencyWeights: map[domain.UrgencyLevel]int{
			domain.UrgencyUrgent: 15,
			domain.UrgencyHigh:   10,
			domain.UrgencyMedium: 5,
			domain.UrgencyLow:    0,
		},
		HighIntentBonus:  20,
		ActivityWeights: map[ActivityKind]int{
			ActivityProductView:             1,
			ActivityMultipleVisits:          2,
			ActivityMultipleProductsBrowsed: 3,
			ActivityAddToCart:               5,
		},
		PromotionMinimum: 8,
	}
}

// WithPromotionMinimum returns a copy of the policy with the promotion
// threshold overridden.
func (p Policy) WithPromotionMinimum(minimum int) Policy {
	p.PromotionMinimum = minimum
	return p
}

// LeadScore computes the creation-time score for a lead.
func (p Policy) LeadScore(source domain.Source, medium domain.Medium, urgency domain.UrgencyLevel, highIntent bool) int {
	score := p.SourceWeights[source] + p.MediumWeights[medium] + p.UrgencyWeights[urgency]
	if highIntent {
		score += p.HighIntentBonus
	}
	return score
}

// ActivityScore computes the intent score for an aggregate: the per-unit
// weight of the activity kind times the accumulated count. The score is
// always recomputed from the full count, never incremented.
func (p Policy) ActivityScore(kind ActivityKind, count int) int {
	return p.ActivityWeights[kind] * count
}

// Threshold returns the minimum intent score for automatic promotion.
func (p Policy) Threshold() int {
	return p.PromotionMinimum
}
