package adapters

import (
	"context"
	"errors"
	"time"

	commssvc "crm_backend/internal/comms/service"
	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	leadsrepo "crm_backend/internal/leads/repository"
)

// watiLeadScore is the flat score every WhatsApp-originated lead starts
// with; the conversation is already open, so it outranks cold sources.
const watiLeadScore = 50

// WatiLeadIntake creates leads from inbound WATI contacts.
type WatiLeadIntake struct {
	repo *leadsrepo.Repository
	bus  events.Bus
}

func NewWatiLeadIntake(repo *leadsrepo.Repository, bus events.Bus) *WatiLeadIntake {
	return &WatiLeadIntake{repo: repo, bus: bus}
}

// CreateFromWati records the contact as a lead already in conversation:
// WATI source, WhatsApp medium, In Contact stage, contacted just now.
func (a *WatiLeadIntake) CreateFromWati(ctx context.Context, params commssvc.WatiLeadParams) (int64, error) {
	now := time.Now()

	var notes *string
	if params.Message != nil {
		value := "Initial message: " + *params.Message
		notes = &value
	}

	lead, err := a.repo.Create(ctx, leadsrepo.CreateLeadParams{
		Name:            params.Name,
		Phone:           &params.Phone,
		Source:          domain.SourceWati,
		Medium:          domain.MediumWhatsApp,
		PipelineStage:   domain.StageInContact,
		RequestType:     domain.RequestProductEnquiry,
		UrgencyLevel:    domain.UrgencyMedium,
		LeadScore:       watiLeadScore,
		Notes:           notes,
		LastContactedAt: &now,
		WatiContactID:   &params.ContactID,
	})
	if err != nil {
		if errors.Is(err, leadsrepo.ErrDuplicateContact) {
			// The contact messaged before (or browsed their way into a
			// promoted lead). Touch the existing record instead.
			existing, findErr := a.repo.FindByContact(ctx, &params.Phone, nil)
			if findErr != nil {
				return 0, findErr
			}
			if existing == nil {
				return 0, err
			}
			if _, updErr := a.repo.Update(ctx, existing.ID, leadsrepo.UpdateLeadParams{
				LastContactedAt: &now,
			}); updErr != nil {
				return 0, updErr
			}
			return existing.ID, nil
		}
		return 0, err
	}

	if a.bus != nil {
		a.bus.Publish(ctx, events.LeadCreated{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			Source:    string(lead.Source),
			Medium:    string(lead.Medium),
			LeadScore: lead.LeadScore,
		})
	}

	return lead.ID, nil
}
