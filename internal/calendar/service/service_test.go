package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"crm_backend/internal/calendar/repository"
	"crm_backend/internal/calendar/transport"
	"crm_backend/platform/apperr"
)

type fakeRepo struct {
	params *repository.CreateEventParams
	event  repository.Event
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateEventParams) (repository.Event, error) {
	f.params = &params
	return f.event, nil
}

func (f *fakeRepo) GetByID(context.Context, int64) (repository.Event, error) {
	return f.event, nil
}

func (f *fakeRepo) List(context.Context, repository.ListEventsParams) ([]repository.Event, error) {
	return []repository.Event{f.event}, nil
}

func TestCreateStampsCreatorFromSession(t *testing.T) {
	repo := &fakeRepo{event: repository.Event{ID: 1}}
	svc := New(repo)

	start := time.Now().Add(time.Hour)
	_, err := svc.Create(context.Background(), 42, transport.CreateEventRequest{
		Title:      "First call",
		StartTime:  start,
		EndTime:    start.Add(30 * time.Minute),
		EventType:  "Call",
		AssignedTo: 7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.params.CreatedBy != 42 {
		t.Fatalf("expected creator 42 from the session, got %d", repo.params.CreatedBy)
	}
	if repo.params.AssignedTo != 7 {
		t.Fatalf("expected assignee 7 from the body, got %d", repo.params.AssignedTo)
	}
}

func TestCreateRejectsEndBeforeStart(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo)

	start := time.Now().Add(time.Hour)
	_, err := svc.Create(context.Background(), 42, transport.CreateEventRequest{
		Title:      "First call",
		StartTime:  start,
		EndTime:    start.Add(-time.Minute),
		EventType:  "Call",
		AssignedTo: 7,
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.params != nil {
		t.Fatal("expected no repository call for an invalid window")
	}
}

func TestCreateRejectsZeroLengthEvent(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo)

	start := time.Now().Add(time.Hour)
	_, err := svc.Create(context.Background(), 42, transport.CreateEventRequest{
		Title:      "First call",
		StartTime:  start,
		EndTime:    start,
		EventType:  "Call",
		AssignedTo: 7,
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error for equal start and end, got %v", err)
	}
}
