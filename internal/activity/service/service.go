// Package service records browsing activity against per-session
// aggregates and runs the lead promotion rule after every write.
package service

import (
	"context"

	"crm_backend/internal/activity/promotion"
	"crm_backend/internal/activity/repository"
	"crm_backend/internal/activity/transport"
	"crm_backend/internal/events"
	"crm_backend/internal/leads/scoring"
	"crm_backend/platform/phone"
)

// Repository is the aggregate store surface the service needs.
type Repository interface {
	Upsert(ctx context.Context, params repository.UpsertParams) (repository.Aggregate, error)
	List(ctx context.Context, sessionID *string) ([]repository.Aggregate, error)
}

// Promoter applies the lead promotion rule to an updated aggregate.
type Promoter interface {
	Evaluate(ctx context.Context, agg repository.Aggregate) promotion.Outcome
}

type Service struct {
	repo     Repository
	policy   scoring.Policy
	promoter Promoter
	bus      events.Bus
}

func New(repo Repository, policy scoring.Policy, promoter Promoter, bus events.Bus) *Service {
	return &Service{repo: repo, policy: policy, promoter: promoter, bus: bus}
}

// Record folds one activity event into its aggregate and evaluates
// promotion on the result. The upsert and the promotion are separate
// units of work: a promotion failure never rolls back the recorded
// activity, and the response always carries the updated aggregate.
func (s *Service) Record(ctx context.Context, req transport.RecordActivityRequest) (transport.RecordActivityResponse, error) {
	count := req.Count
	if count == 0 {
		count = 1
	}

	params := repository.UpsertParams{
		SessionID:    req.SessionID,
		ActivityType: req.ActivityType,
		UserID:       req.UserID,
		Email:        req.Email,
		ProductData:  req.ProductData,
		DeltaCount:   count,
		Weight:       s.policy.ActivityScore(scoring.ActivityKind(req.ActivityType), 1),
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}

	agg, err := s.repo.Upsert(ctx, params)
	if err != nil {
		return transport.RecordActivityResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.ActivityRecorded{
			BaseEvent:    events.NewBaseEvent(),
			SessionID:    agg.SessionID,
			ActivityType: agg.ActivityType,
			IntentScore:  agg.IntentScore,
		})
	}

	resp := transport.RecordActivityResponse{
		Activity:  transport.ToActivityResponse(agg),
		Promotion: string(promotion.StatusSkipped),
	}

	if s.promoter == nil {
		return resp, nil
	}

	outcome := s.promoter.Evaluate(ctx, agg)
	resp.Promotion = string(outcome.Status)
	switch outcome.Status {
	case promotion.StatusPromoted:
		resp.LeadID = &outcome.LeadID
		if s.bus != nil {
			s.bus.Publish(ctx, events.LeadPromoted{
				BaseEvent:   events.NewBaseEvent(),
				LeadID:      outcome.LeadID,
				SessionID:   agg.SessionID,
				IntentScore: agg.IntentScore,
			})
		}
	case promotion.StatusAlreadyLead:
		resp.LeadID = &outcome.LeadID
	}

	return resp, nil
}

// List returns aggregates, optionally filtered by session.
func (s *Service) List(ctx context.Context, req transport.ListActivitiesRequest) ([]transport.ActivityResponse, error) {
	aggregates, err := s.repo.List(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	out := make([]transport.ActivityResponse, 0, len(aggregates))
	for _, agg := range aggregates {
		out = append(out, transport.ToActivityResponse(agg))
	}
	return out, nil
}
