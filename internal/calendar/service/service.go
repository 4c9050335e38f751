// Package service implements team calendar scheduling.
package service

import (
	"context"
	"errors"

	"crm_backend/internal/calendar/domain"
	"crm_backend/internal/calendar/repository"
	"crm_backend/internal/calendar/transport"
	"crm_backend/platform/apperr"
)

// Repository is the data access surface the service needs.
type Repository interface {
	Create(ctx context.Context, params repository.CreateEventParams) (repository.Event, error)
	GetByID(ctx context.Context, id int64) (repository.Event, error)
	List(ctx context.Context, params repository.ListEventsParams) ([]repository.Event, error)
}

type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create schedules a new event. The creator comes from the
// authenticated request, never from the body.
func (s *Service) Create(ctx context.Context, createdBy int64, req transport.CreateEventRequest) (transport.EventResponse, error) {
	if !req.EndTime.After(req.StartTime) {
		return transport.EventResponse{}, apperr.Validation("end time must be after start time")
	}

	event, err := s.repo.Create(ctx, repository.CreateEventParams{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		EventType:   domain.EventType(req.EventType),
		LeadID:      req.LeadID,
		OrderID:     req.OrderID,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   createdBy,
	})
	if err != nil {
		return transport.EventResponse{}, err
	}
	return transport.ToEventResponse(event), nil
}

// GetByID retrieves one event.
func (s *Service) GetByID(ctx context.Context, id int64) (transport.EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.EventResponse{}, apperr.NotFound("calendar event not found")
		}
		return transport.EventResponse{}, err
	}
	return transport.ToEventResponse(event), nil
}

// List returns events matching the filters, earliest first.
func (s *Service) List(ctx context.Context, req transport.ListEventsRequest) ([]transport.EventResponse, error) {
	params := repository.ListEventsParams{
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		AssignedTo: req.AssignedTo,
	}
	if req.EventType != nil {
		eventType := domain.EventType(*req.EventType)
		params.EventType = &eventType
	}

	events, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]transport.EventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, transport.ToEventResponse(event))
	}
	return out, nil
}
