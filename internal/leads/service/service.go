// Package service implements lead management: creation with deterministic
// scoring, partial updates, and pipeline stage handling.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/scoring"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/phone"
)

// Repository is the data access surface the service needs.
type Repository interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	GetByID(ctx context.Context, id int64) (repository.Lead, error)
	List(ctx context.Context, params repository.ListLeadsParams) ([]repository.Lead, error)
	Update(ctx context.Context, id int64, params repository.UpdateLeadParams) (repository.Lead, error)
}

// ReminderScheduler schedules a follow-up reminder for a lead. Nil-safe:
// the service tolerates a missing scheduler.
type ReminderScheduler interface {
	ScheduleFollowUpReminder(ctx context.Context, leadID int64, runAt time.Time) error
}

type Service struct {
	repo      Repository
	policy    scoring.Policy
	stageRule domain.StageRule
	bus       events.Bus
	reminders ReminderScheduler
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithStageRule replaces the default permissive stage/sub-status rule.
func WithStageRule(rule domain.StageRule) Option {
	return func(s *Service) { s.stageRule = rule }
}

// WithReminderScheduler wires the follow-up reminder scheduler.
func WithReminderScheduler(scheduler ReminderScheduler) Option {
	return func(s *Service) { s.reminders = scheduler }
}

func New(repo Repository, policy scoring.Policy, bus events.Bus, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		policy:    policy,
		stageRule: domain.PermissiveStageRule,
		bus:       bus,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create scores and persists a new lead. The score is computed once here;
// later updates never recompute it.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	urgency := domain.UrgencyMedium
	if req.UrgencyLevel != "" {
		urgency = domain.UrgencyLevel(req.UrgencyLevel)
	}

	source := domain.Source(req.Source)
	medium := domain.Medium(req.Medium)

	params := repository.CreateLeadParams{
		Name:          req.Name,
		Email:         emptyToNil(req.Email),
		Source:        source,
		Medium:        medium,
		IsHighIntent:  req.IsHighIntent,
		PipelineStage: domain.StageRawLead,
		RequestType:   domain.RequestType(req.RequestType),
		UrgencyLevel:  urgency,
		SpecialDate:   req.SpecialDate,
		Occasion:      req.Occasion,
		LeadScore:     s.policy.LeadScore(source, medium, urgency, req.IsHighIntent),
		Notes:         req.Notes,
		AssignedTo:    req.AssignedTo,
		WatiContactID: req.WatiContactID,
	}

	params.Phone = normalizePhone(req.Phone)

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateContact) {
			return transport.LeadResponse{}, apperr.Conflict("lead with this contact already exists")
		}
		return transport.LeadResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadCreated{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			Source:    string(lead.Source),
			Medium:    string(lead.Medium),
			LeadScore: lead.LeadScore,
		})
	}

	return transport.ToLeadResponse(lead), nil
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(ctx context.Context, id int64) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(lead), nil
}

// List returns leads matching the filters.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) ([]transport.LeadResponse, error) {
	params := repository.ListLeadsParams{
		AssignedTo: req.AssignedTo,
		HighIntent: req.HighIntent,
	}
	if req.PipelineStage != nil {
		stage := domain.PipelineStage(*req.PipelineStage)
		params.PipelineStage = &stage
	}

	leads, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, transport.ToLeadResponse(lead))
	}
	return out, nil
}

// Update merges only the supplied fields. A supplied leadScore overwrites
// the stored score without recomputation.
func (s *Service) Update(ctx context.Context, id int64, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	params := repository.UpdateLeadParams{
		Name:            req.Name,
		Email:           emptyToNil(req.Email),
		Phone:           normalizePhone(req.Phone),
		IsHighIntent:    req.IsHighIntent,
		LeadScore:       req.LeadScore,
		LastContactedAt: req.LastContactedAt,
	}

	var stage *domain.PipelineStage
	if req.PipelineStage != nil {
		value := domain.PipelineStage(*req.PipelineStage)
		stage = &value
		params.PipelineStage = stage
	}

	sub, err := parseGenuineStatus(req.GenuineLeadStatus)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if req.GenuineLeadStatus.Set {
		params.GenuineLeadStatus = sub
		params.GenuineLeadStatusSet = true
	}

	if req.FollowUpStatus.Set {
		followUp, err := parseFollowUpStatus(req.FollowUpStatus)
		if err != nil {
			return transport.LeadResponse{}, err
		}
		params.FollowUpStatus = followUp
		params.FollowUpStatusSet = true
	}

	if req.UrgencyLevel != nil {
		urgency := domain.UrgencyLevel(*req.UrgencyLevel)
		params.UrgencyLevel = &urgency
	}

	if req.Notes.Set {
		params.Notes = req.Notes.Value
		params.NotesSet = true
	}
	if req.AssignedTo.Set {
		params.AssignedTo = req.AssignedTo.Value
		params.AssignedToSet = true
	}
	if req.NextFollowUpAt.Set {
		params.NextFollowUpAt = req.NextFollowUpAt.Value
		params.NextFollowUpAtSet = true
	}

	if err := s.checkStageRule(ctx, id, stage, req.GenuineLeadStatus.Set, sub); err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	if s.reminders != nil && req.NextFollowUpAt.Set && req.NextFollowUpAt.Value != nil {
		if err := s.reminders.ScheduleFollowUpReminder(ctx, lead.ID, *req.NextFollowUpAt.Value); err != nil && s.bus != nil {
			// Reminder scheduling is best-effort; the update already
			// committed.
			s.bus.Publish(ctx, events.FollowUpScheduleFailed{
				BaseEvent: events.NewBaseEvent(),
				LeadID:    lead.ID,
				Reason:    err.Error(),
			})
		}
	}

	return transport.ToLeadResponse(lead), nil
}

// checkStageRule applies the configured stage/sub-status rule to the
// combination the update would produce. Fields the request leaves out
// are read from the stored row.
func (s *Service) checkStageRule(ctx context.Context, id int64, stage *domain.PipelineStage, subSet bool, sub *domain.GenuineLeadStatus) error {
	if stage == nil && !subSet {
		return nil
	}

	finalStage := stage
	finalSub := sub

	if stage == nil || !subSet {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound("lead not found")
			}
			return err
		}
		if finalStage == nil {
			finalStage = &current.PipelineStage
		}
		if !subSet {
			finalSub = current.GenuineLeadStatus
		}
	}

	if err := s.stageRule(*finalStage, finalSub); err != nil {
		return apperr.Validation(err.Error())
	}
	return nil
}

// emptyToNil treats blank and whitespace-only values as absent. The
// partial unique indexes on leads(phone) and leads(email) cover every
// non-null value, so an empty string must never be stored.
func emptyToNil(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizePhone(raw *string) *string {
	value := emptyToNil(raw)
	if value == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*value)
	return &normalized
}

func parseGenuineStatus(opt transport.OptionalString) (*domain.GenuineLeadStatus, error) {
	if !opt.Set || opt.Value == nil {
		return nil, nil
	}
	switch value := domain.GenuineLeadStatus(*opt.Value); value {
	case domain.GenuineFirstCallDone, domain.GenuineEstimatesShared, domain.GenuineDisqualified:
		return &value, nil
	default:
		return nil, apperr.Validation("invalid genuine lead status")
	}
}

func parseFollowUpStatus(opt transport.OptionalString) (*domain.FollowUpStatus, error) {
	if opt.Value == nil {
		return nil, nil
	}
	switch value := domain.FollowUpStatus(*opt.Value); value {
	case domain.FollowUpActive, domain.FollowUpGoneCold, domain.FollowUpSaleCompleted:
		return &value, nil
	default:
		return nil, apperr.Validation("invalid follow up status")
	}
}
