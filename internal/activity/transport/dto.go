// Package transport defines request and response shapes for the
// activity ingestion API.
package transport

import (
	"time"

	"crm_backend/internal/activity/repository"
)

// RecordActivityRequest is one tracked browsing event. Count defaults
// to 1 when omitted.
type RecordActivityRequest struct {
	SessionID    string  `json:"sessionId" validate:"required,max=128"`
	ActivityType string  `json:"activityType" validate:"required,oneof='Product View' 'Multiple website visits' 'Browsed multiple Products' 'Add to Cart'"`
	UserID       *string `json:"userId" validate:"omitempty,max=128"`
	Phone        *string `json:"phone" validate:"omitempty,max=32"`
	Email        *string `json:"email" validate:"omitempty,email"`
	ProductData  *string `json:"productData" validate:"omitempty,max=4096"`
	Count        int     `json:"count" validate:"omitempty,min=1,max=1000"`
}

// ListActivitiesRequest filters the aggregate listing.
type ListActivitiesRequest struct {
	SessionID *string `form:"sessionId"`
}

// ActivityResponse is the aggregate state after recording.
type ActivityResponse struct {
	ID              int64     `json:"id"`
	SessionID       string    `json:"sessionId"`
	UserID          *string   `json:"userId,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	Email           *string   `json:"email,omitempty"`
	ActivityType    string    `json:"activityType"`
	ProductData     *string   `json:"productData,omitempty"`
	ActivityCount   int       `json:"activityCount"`
	IntentScore     int       `json:"intentScore"`
	FirstActivityAt time.Time `json:"firstActivityAt"`
	LastActivityAt  time.Time `json:"lastActivityAt"`
}

// RecordActivityResponse pairs the updated aggregate with what the
// promotion rule did, so ingestion clients can observe promotions.
type RecordActivityResponse struct {
	Activity  ActivityResponse `json:"activity"`
	Promotion string           `json:"promotion"`
	LeadID    *int64           `json:"leadId,omitempty"`
}

// ToActivityResponse maps a stored aggregate to its API shape.
func ToActivityResponse(agg repository.Aggregate) ActivityResponse {
	return ActivityResponse{
		ID:              agg.ID,
		SessionID:       agg.SessionID,
		UserID:          agg.UserID,
		Phone:           agg.Phone,
		Email:           agg.Email,
		ActivityType:    agg.ActivityType,
		ProductData:     agg.ProductData,
		ActivityCount:   agg.ActivityCount,
		IntentScore:     agg.IntentScore,
		FirstActivityAt: agg.FirstActivityAt,
		LastActivityAt:  agg.LastActivityAt,
	}
}
