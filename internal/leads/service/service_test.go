package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/scoring"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"
)

type fakeRepo struct {
	lead         repository.Lead
	createErr    error
	updateErr    error
	createParams *repository.CreateLeadParams
	updateID     int64
	updateParams *repository.UpdateLeadParams
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	f.createParams = &params
	if f.createErr != nil {
		return repository.Lead{}, f.createErr
	}
	return f.lead, nil
}

func (f *fakeRepo) GetByID(context.Context, int64) (repository.Lead, error) {
	return f.lead, nil
}

func (f *fakeRepo) List(context.Context, repository.ListLeadsParams) ([]repository.Lead, error) {
	return []repository.Lead{f.lead}, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, params repository.UpdateLeadParams) (repository.Lead, error) {
	f.updateID = id
	f.updateParams = &params
	if f.updateErr != nil {
		return repository.Lead{}, f.updateErr
	}
	return f.lead, nil
}

func newTestService(repo *fakeRepo, opts ...Option) *Service {
	return New(repo, scoring.DefaultPolicy(), nil, opts...)
}

func TestCreateComputesScoreFromPolicy(t *testing.T) {
	repo := &fakeRepo{lead: repository.Lead{ID: 1}}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Source:       "Organic",
		Medium:       "Website",
		RequestType:  "Product enquiry",
		UrgencyLevel: "High",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 40 (Organic) + 15 (Website) + 10 (High)
	if repo.createParams.LeadScore != 65 {
		t.Fatalf("expected lead score 65, got %d", repo.createParams.LeadScore)
	}
	if repo.createParams.PipelineStage != domain.StageRawLead {
		t.Fatalf("expected new leads to start in %q, got %q", domain.StageRawLead, repo.createParams.PipelineStage)
	}
}

// The unique contact indexes cover every non-null value, so a blank
// phone or email must be stored as NULL, never as an empty string that
// every later blank submission would collide with.
func TestCreateTreatsBlankContactAsAbsent(t *testing.T) {
	repo := &fakeRepo{lead: repository.Lead{ID: 1}}
	svc := newTestService(repo)

	blank := ""
	spaces := "   "
	_, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Phone:       &blank,
		Email:       &spaces,
		Source:      "Organic",
		Medium:      "Website",
		RequestType: "Product enquiry",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.createParams.Phone != nil {
		t.Fatalf("expected blank phone stored as nil, got %q", *repo.createParams.Phone)
	}
	if repo.createParams.Email != nil {
		t.Fatalf("expected blank email stored as nil, got %q", *repo.createParams.Email)
	}
}

func TestUpdateIgnoresBlankPhone(t *testing.T) {
	repo := &fakeRepo{lead: repository.Lead{ID: 7}}
	svc := newTestService(repo)

	blank := ""
	_, err := svc.Update(context.Background(), 7, transport.UpdateLeadRequest{Phone: &blank})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.updateParams.Phone != nil {
		t.Fatalf("expected blank phone to leave the stored value alone, got %q", *repo.updateParams.Phone)
	}
}

func TestCreateDefaultsUrgencyToMedium(t *testing.T) {
	repo := &fakeRepo{lead: repository.Lead{ID: 1}}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Source:      "Organic",
		Medium:      "Website",
		RequestType: "Product enquiry",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.createParams.UrgencyLevel != domain.UrgencyMedium {
		t.Fatalf("expected default urgency Medium, got %q", repo.createParams.UrgencyLevel)
	}
	// 40 (Organic) + 15 (Website) + 5 (Medium)
	if repo.createParams.LeadScore != 60 {
		t.Fatalf("expected lead score 60, got %d", repo.createParams.LeadScore)
	}
}

func TestCreateDuplicateContactMapsToConflict(t *testing.T) {
	repo := &fakeRepo{createErr: repository.ErrDuplicateContact}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Source:      "Organic",
		Medium:      "Website",
		RequestType: "Product enquiry",
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestUpdateSendsOnlySuppliedFields(t *testing.T) {
	repo := &fakeRepo{lead: repository.Lead{ID: 7, PipelineStage: domain.StageRawLead}}
	svc := newTestService(repo)

	note := "called, asked for catalog"
	_, err := svc.Update(context.Background(), 7, transport.UpdateLeadRequest{
		Notes: transport.OptionalString{Set: true, Value: &note},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	params := repo.updateParams
	if params == nil {
		t.Fatal("expected repository update to be called")
	}
	if !params.NotesSet || params.Notes == nil || *params.Notes != note {
		t.Fatalf("expected notes %q to be set, got %+v", note, params.Notes)
	}
	if params.Name != nil || params.Phone != nil || params.Email != nil || params.PipelineStage != nil {
		t.Fatal("expected untouched fields to stay nil")
	}
	if params.FollowUpStatusSet || params.GenuineLeadStatusSet || params.AssignedToSet || params.NextFollowUpAtSet {
		t.Fatal("expected unset optional flags to stay false")
	}
	if params.LeadScore != nil {
		t.Fatal("expected lead score to be left alone when not supplied")
	}
}

func TestUpdateClearsNullableFieldWithExplicitNull(t *testing.T) {
	repo := &fakeRepo{lead: repository.Lead{ID: 7}}
	svc := newTestService(repo)

	_, err := svc.Update(context.Background(), 7, transport.UpdateLeadRequest{
		NextFollowUpAt: transport.OptionalTime{Set: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !repo.updateParams.NextFollowUpAtSet {
		t.Fatal("expected explicit null to mark the field for clearing")
	}
	if repo.updateParams.NextFollowUpAt != nil {
		t.Fatal("expected cleared follow-up time to be nil")
	}
}

func TestUpdateUnknownLeadMapsToNotFound(t *testing.T) {
	repo := &fakeRepo{updateErr: repository.ErrNotFound}
	svc := newTestService(repo)

	name := "someone"
	_, err := svc.Update(context.Background(), 99, transport.UpdateLeadRequest{Name: &name})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestUpdateRejectsInvalidFollowUpStatus(t *testing.T) {
	repo := &fakeRepo{lead: repository.Lead{ID: 7}}
	svc := newTestService(repo)

	bad := "Completed"
	_, err := svc.Update(context.Background(), 7, transport.UpdateLeadRequest{
		FollowUpStatus: transport.OptionalString{Set: true, Value: &bad},
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.updateParams != nil {
		t.Fatal("expected repository update not to be called")
	}
}

func TestUpdateStrictStageRuleRejectsSubStatusOutsideGenuineStage(t *testing.T) {
	repo := &fakeRepo{lead: repository.Lead{ID: 7}}
	svc := newTestService(repo, WithStageRule(domain.StrictStageRule))

	stage := "In Contact"
	sub := "First call done"
	_, err := svc.Update(context.Background(), 7, transport.UpdateLeadRequest{
		PipelineStage:     &stage,
		GenuineLeadStatus: transport.OptionalString{Set: true, Value: &sub},
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type fakeScheduler struct {
	leadID int64
	runAt  time.Time
	err    error
}

func (f *fakeScheduler) ScheduleFollowUpReminder(_ context.Context, leadID int64, runAt time.Time) error {
	f.leadID = leadID
	f.runAt = runAt
	return f.err
}

func TestUpdateSchedulesReminderForNewFollowUpTime(t *testing.T) {
	repo := &fakeRepo{lead: repository.Lead{ID: 7}}
	sched := &fakeScheduler{}
	svc := newTestService(repo, WithReminderScheduler(sched))

	runAt := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	_, err := svc.Update(context.Background(), 7, transport.UpdateLeadRequest{
		NextFollowUpAt: transport.OptionalTime{Set: true, Value: &runAt},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sched.leadID != 7 || !sched.runAt.Equal(runAt) {
		t.Fatalf("expected reminder for lead 7 at %v, got lead %d at %v", runAt, sched.leadID, sched.runAt)
	}
}

func TestUpdateSchedulerFailureDoesNotFailUpdate(t *testing.T) {
	repo := &fakeRepo{lead: repository.Lead{ID: 7}}
	sched := &fakeScheduler{err: errors.New("redis down")}
	svc := newTestService(repo, WithReminderScheduler(sched))

	runAt := time.Now().Add(time.Hour)
	_, err := svc.Update(context.Background(), 7, transport.UpdateLeadRequest{
		NextFollowUpAt: transport.OptionalTime{Set: true, Value: &runAt},
	})
	if err != nil {
		t.Fatalf("expected committed update to succeed despite scheduler failure, got %v", err)
	}
}
