package service

import (
	"context"
	"testing"

	"crm_backend/internal/activity/promotion"
	"crm_backend/internal/activity/repository"
	"crm_backend/internal/activity/transport"
	"crm_backend/internal/leads/scoring"
)

type fakeRepo struct {
	params *repository.UpsertParams
	agg    repository.Aggregate
	err    error
}

func (f *fakeRepo) Upsert(_ context.Context, params repository.UpsertParams) (repository.Aggregate, error) {
	f.params = &params
	if f.err != nil {
		return repository.Aggregate{}, f.err
	}
	return f.agg, nil
}

func (f *fakeRepo) List(context.Context, *string) ([]repository.Aggregate, error) {
	return []repository.Aggregate{f.agg}, nil
}

type fakePromoter struct {
	seen    *repository.Aggregate
	outcome promotion.Outcome
}

func (f *fakePromoter) Evaluate(_ context.Context, agg repository.Aggregate) promotion.Outcome {
	f.seen = &agg
	return f.outcome
}

func TestRecordDefaultsCountToOne(t *testing.T) {
	repo := &fakeRepo{agg: repository.Aggregate{SessionID: "sess-1", ActivityType: "Add to Cart", IntentScore: 5}}
	promoter := &fakePromoter{outcome: promotion.Outcome{Status: promotion.StatusSkipped}}
	svc := New(repo, scoring.DefaultPolicy(), promoter, nil)

	_, err := svc.Record(context.Background(), transport.RecordActivityRequest{
		SessionID:    "sess-1",
		ActivityType: "Add to Cart",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.params.DeltaCount != 1 {
		t.Fatalf("expected omitted count to default to 1, got %d", repo.params.DeltaCount)
	}
	if repo.params.Weight != 5 {
		t.Fatalf("expected Add to Cart weight 5, got %d", repo.params.Weight)
	}
}

func TestRecordPassesPerUnitWeightNotTotal(t *testing.T) {
	repo := &fakeRepo{agg: repository.Aggregate{SessionID: "sess-1"}}
	promoter := &fakePromoter{outcome: promotion.Outcome{Status: promotion.StatusSkipped}}
	svc := New(repo, scoring.DefaultPolicy(), promoter, nil)

	_, err := svc.Record(context.Background(), transport.RecordActivityRequest{
		SessionID:    "sess-1",
		ActivityType: "Browsed multiple Products",
		Count:        4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.params.DeltaCount != 4 {
		t.Fatalf("expected delta count 4, got %d", repo.params.DeltaCount)
	}
	// The statement multiplies weight by the accumulated count itself.
	if repo.params.Weight != 3 {
		t.Fatalf("expected per-unit weight 3, got %d", repo.params.Weight)
	}
}

func TestRecordReportsPromotionOutcome(t *testing.T) {
	repo := &fakeRepo{agg: repository.Aggregate{SessionID: "sess-1", IntentScore: 12}}
	promoter := &fakePromoter{outcome: promotion.Outcome{Status: promotion.StatusPromoted, LeadID: 42}}
	svc := New(repo, scoring.DefaultPolicy(), promoter, nil)

	resp, err := svc.Record(context.Background(), transport.RecordActivityRequest{
		SessionID:    "sess-1",
		ActivityType: "Add to Cart",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Promotion != string(promotion.StatusPromoted) {
		t.Fatalf("expected promotion status promoted, got %q", resp.Promotion)
	}
	if resp.LeadID == nil || *resp.LeadID != 42 {
		t.Fatalf("expected lead id 42, got %v", resp.LeadID)
	}
	if promoter.seen == nil || promoter.seen.IntentScore != 12 {
		t.Fatal("expected promoter to see the updated aggregate")
	}
}

func TestRecordExistingLeadStillReturnsLeadID(t *testing.T) {
	repo := &fakeRepo{agg: repository.Aggregate{SessionID: "sess-1"}}
	promoter := &fakePromoter{outcome: promotion.Outcome{Status: promotion.StatusAlreadyLead, LeadID: 9}}
	svc := New(repo, scoring.DefaultPolicy(), promoter, nil)

	resp, err := svc.Record(context.Background(), transport.RecordActivityRequest{
		SessionID:    "sess-1",
		ActivityType: "Product View",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Promotion != string(promotion.StatusAlreadyLead) {
		t.Fatalf("expected already_lead, got %q", resp.Promotion)
	}
	if resp.LeadID == nil || *resp.LeadID != 9 {
		t.Fatalf("expected lead id 9, got %v", resp.LeadID)
	}
}

func TestRecordPromotionFailureDoesNotFailRequest(t *testing.T) {
	repo := &fakeRepo{agg: repository.Aggregate{SessionID: "sess-1"}}
	promoter := &fakePromoter{outcome: promotion.Outcome{Status: promotion.StatusFailed}}
	svc := New(repo, scoring.DefaultPolicy(), promoter, nil)

	resp, err := svc.Record(context.Background(), transport.RecordActivityRequest{
		SessionID:    "sess-1",
		ActivityType: "Add to Cart",
	})
	if err != nil {
		t.Fatalf("expected recorded activity to succeed despite promotion failure, got %v", err)
	}
	if resp.Promotion != string(promotion.StatusFailed) {
		t.Fatalf("expected failed promotion status, got %q", resp.Promotion)
	}
	if resp.LeadID != nil {
		t.Fatal("expected no lead id on failed promotion")
	}
}
