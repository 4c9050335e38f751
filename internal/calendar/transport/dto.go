// Package transport defines request and response shapes for the calendar API.
package transport

import (
	"time"

	"crm_backend/internal/calendar/repository"
)

type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Description *string   `json:"description" validate:"omitempty,max=4096"`
	StartTime   time.Time `json:"startTime" validate:"required"`
	EndTime     time.Time `json:"endTime" validate:"required"`
	EventType   string    `json:"eventType" validate:"required,oneof='Follow Up' Meeting Call Delivery Other"`
	LeadID      *int64    `json:"leadId" validate:"omitempty,min=1"`
	OrderID     *int64    `json:"orderId" validate:"omitempty,min=1"`
	AssignedTo  int64     `json:"assignedTo" validate:"required,min=1"`
}

type ListEventsRequest struct {
	StartDate  *time.Time `form:"startDate" time_format:"2006-01-02T15:04:05Z07:00"`
	EndDate    *time.Time `form:"endDate" time_format:"2006-01-02T15:04:05Z07:00"`
	EventType  *string    `form:"eventType"`
	AssignedTo *int64     `form:"assignedTo"`
}

type EventResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	EventType   string    `json:"eventType"`
	LeadID      *int64    `json:"leadId,omitempty"`
	OrderID     *int64    `json:"orderId,omitempty"`
	AssignedTo  int64     `json:"assignedTo"`
	CreatedBy   int64     `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToEventResponse(event repository.Event) EventResponse {
	return EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
		EventType:   string(event.EventType),
		LeadID:      event.LeadID,
		OrderID:     event.OrderID,
		AssignedTo:  event.AssignedTo,
		CreatedBy:   event.CreatedBy,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}
