package transport

import (
	"time"

	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
)

// Request DTOs. Enum fields fail closed: an unknown value is rejected by
// the oneof guard before it reaches the engine.

type CreateLeadRequest struct {
	Name          *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone         *string    `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Email         *string    `json:"email,omitempty" validate:"omitempty,email"`
	Source        string     `json:"source" validate:"required,oneof=WATI Google Meta SEO Organic 'Direct/Unknown'"`
	Medium        string     `json:"medium" validate:"required,oneof=WhatsApp Email Phone Website 'Social Media' Direct"`
	IsHighIntent  bool       `json:"isHighIntent"`
	RequestType   string     `json:"requestType" validate:"required,oneof='Product enquiry' 'Request for information' Suggestions Other"`
	UrgencyLevel  string     `json:"urgencyLevel,omitempty" validate:"omitempty,oneof=Low Medium High Urgent"`
	SpecialDate   *time.Time `json:"specialDate,omitempty"`
	Occasion      *string    `json:"occasion,omitempty" validate:"omitempty,max=200"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
	AssignedTo    *int64     `json:"assignedTo,omitempty"`
	WatiContactID *string    `json:"watiContactId,omitempty" validate:"omitempty,max=100"`
}

type UpdateLeadRequest struct {
	Name              *string        `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone             *string        `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Email             *string        `json:"email,omitempty" validate:"omitempty,email"`
	PipelineStage     *string        `json:"pipelineStage,omitempty" validate:"omitempty,oneof='Raw lead' 'In Contact' 'Not Interested' 'No Response' Junk 'Genuine Lead'"`
	GenuineLeadStatus OptionalString `json:"genuineLeadStatus,omitzero" validate:"-"`
	FollowUpStatus    OptionalString `json:"followUpStatus,omitzero" validate:"-"`
	UrgencyLevel      *string        `json:"urgencyLevel,omitempty" validate:"omitempty,oneof=Low Medium High Urgent"`
	IsHighIntent      *bool          `json:"isHighIntent,omitempty"`
	LeadScore         *int           `json:"leadScore,omitempty" validate:"omitempty,min=0"`
	Notes             OptionalString `json:"notes,omitzero" validate:"-"`
	AssignedTo        OptionalInt64  `json:"assignedTo,omitzero" validate:"-"`
	LastContactedAt   *time.Time     `json:"lastContactedAt,omitempty"`
	NextFollowUpAt    OptionalTime   `json:"nextFollowUpAt,omitzero" validate:"-"`
}

type ListLeadsRequest struct {
	PipelineStage *string `form:"pipelineStage" validate:"omitempty,oneof='Raw lead' 'In Contact' 'Not Interested' 'No Response' Junk 'Genuine Lead'"`
	AssignedTo    *int64  `form:"assignedTo"`
	HighIntent    *bool   `form:"highIntent"`
}

// Response DTOs

type LeadResponse struct {
	ID                int64      `json:"id"`
	Name              *string    `json:"name"`
	Phone             *string    `json:"phone"`
	Email             *string    `json:"email"`
	Source            string     `json:"source"`
	Medium            string     `json:"medium"`
	IsHighIntent      bool       `json:"isHighIntent"`
	PipelineStage     string     `json:"pipelineStage"`
	GenuineLeadStatus *string    `json:"genuineLeadStatus,omitempty"`
	FollowUpStatus    *string    `json:"followUpStatus,omitempty"`
	RequestType       string     `json:"requestType"`
	UrgencyLevel      string     `json:"urgencyLevel"`
	SpecialDate       *time.Time `json:"specialDate,omitempty"`
	Occasion          *string    `json:"occasion,omitempty"`
	LeadScore         int        `json:"leadScore"`
	Notes             *string    `json:"notes,omitempty"`
	AssignedTo        *int64     `json:"assignedTo,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	LastContactedAt   *time.Time `json:"lastContactedAt,omitempty"`
	NextFollowUpAt    *time.Time `json:"nextFollowUpAt,omitempty"`
	IsAnonymous       bool       `json:"isAnonymous"`
	WatiContactID     *string    `json:"watiContactId,omitempty"`
}

// ToLeadResponse maps a repository lead to its API representation.
func ToLeadResponse(lead repository.Lead) LeadResponse {
	return LeadResponse{
		ID:                lead.ID,
		Name:              lead.Name,
		Phone:             lead.Phone,
		Email:             lead.Email,
		Source:            string(lead.Source),
		Medium:            string(lead.Medium),
		IsHighIntent:      lead.IsHighIntent,
		PipelineStage:     string(lead.PipelineStage),
		GenuineLeadStatus: genuineStatusString(lead.GenuineLeadStatus),
		FollowUpStatus:    followUpStatusString(lead.FollowUpStatus),
		RequestType:       string(lead.RequestType),
		UrgencyLevel:      string(lead.UrgencyLevel),
		SpecialDate:       lead.SpecialDate,
		Occasion:          lead.Occasion,
		LeadScore:         lead.LeadScore,
		Notes:             lead.Notes,
		AssignedTo:        lead.AssignedTo,
		CreatedAt:         lead.CreatedAt,
		UpdatedAt:         lead.UpdatedAt,
		LastContactedAt:   lead.LastContactedAt,
		NextFollowUpAt:    lead.NextFollowUpAt,
		IsAnonymous:       lead.IsAnonymous,
		WatiContactID:     lead.WatiContactID,
	}
}

func genuineStatusString(value *domain.GenuineLeadStatus) *string {
	if value == nil {
		return nil
	}
	s := string(*value)
	return &s
}

func followUpStatusString(value *domain.FollowUpStatus) *string {
	if value == nil {
		return nil
	}
	s := string(*value)
	return &s
}
