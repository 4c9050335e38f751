// Package service implements outbound WhatsApp messaging with
// communication logging, and inbound WATI webhook intake.
package service

import (
	"context"
	"fmt"

	"crm_backend/internal/comms/domain"
	"crm_backend/internal/comms/repository"
	"crm_backend/internal/comms/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/phone"
)

// Repository is the data access surface the service needs.
type Repository interface {
	Create(ctx context.Context, params repository.CreateLogParams) (repository.Log, error)
	List(ctx context.Context, params repository.ListLogsParams) ([]repository.Log, error)
}

// Sender delivers a WhatsApp message and returns the gateway message id.
type Sender interface {
	SendSessionMessage(ctx context.Context, phoneNumber, message string) (string, error)
}

// RefValidator confirms cross-context references before a message is
// attributed to them.
type RefValidator interface {
	UserExists(ctx context.Context, id int64) (bool, error)
	LeadExists(ctx context.Context, id int64) (bool, error)
	OrderExists(ctx context.Context, id int64) (bool, error)
}

// LeadIntake creates a lead from an inbound WhatsApp contact.
type LeadIntake interface {
	CreateFromWati(ctx context.Context, params WatiLeadParams) (int64, error)
}

// WatiLeadParams is the contact snapshot handed to the leads context.
type WatiLeadParams struct {
	ContactID string
	Phone     string
	Name      *string
	Message   *string
}

// Deduper claims webhook idempotency keys.
type Deduper interface {
	Claim(ctx context.Context, key string) (bool, error)
}

type Service struct {
	repo   Repository
	sender Sender
	refs   RefValidator
	intake LeadIntake
	dedup  Deduper
	log    *logger.Logger
}

func New(repo Repository, sender Sender, refs RefValidator, intake LeadIntake, dedup Deduper, log *logger.Logger) *Service {
	return &Service{repo: repo, sender: sender, refs: refs, intake: intake, dedup: dedup, log: log}
}

// SendWhatsApp validates the referenced records, delivers the message
// through the gateway, and records the attempt. A gateway failure is
// still logged, with status Failed, before the error is returned.
func (s *Service) SendWhatsApp(ctx context.Context, sentBy int64, req transport.SendWhatsAppRequest) (transport.LogResponse, error) {
	if err := s.validateRefs(ctx, sentBy, req.LeadID, req.OrderID); err != nil {
		return transport.LogResponse{}, err
	}

	normalized := phone.NormalizeE164(req.Phone)
	params := repository.CreateLogParams{
		LeadID:         req.LeadID,
		OrderID:        req.OrderID,
		Channel:        domain.ChannelWhatsApp,
		Direction:      domain.DirectionOutbound,
		MessageContent: &req.Message,
		TemplateName:   req.TemplateName,
		SentBy:         &sentBy,
	}

	externalID, sendErr := s.sender.SendSessionMessage(ctx, normalized, req.Message)
	if sendErr != nil {
		params.Status = domain.StatusFailed
		if _, logErr := s.repo.Create(ctx, params); logErr != nil {
			s.log.Error("failed to record failed whatsapp send", "error", logErr)
		}
		return transport.LogResponse{}, apperr.Wrap(apperr.KindInternal, "whatsapp delivery failed", sendErr)
	}

	params.Status = domain.StatusSent
	params.ExternalMessageID = &externalID

	log, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LogResponse{}, err
	}
	return transport.ToLogResponse(log), nil
}

// List returns communication logs matching the filters.
func (s *Service) List(ctx context.Context, req transport.ListLogsRequest) ([]transport.LogResponse, error) {
	logs, err := s.repo.List(ctx, repository.ListLogsParams{
		LeadID:  req.LeadID,
		OrderID: req.OrderID,
	})
	if err != nil {
		return nil, err
	}

	out := make([]transport.LogResponse, 0, len(logs))
	for _, log := range logs {
		out = append(out, transport.ToLogResponse(log))
	}
	return out, nil
}

// HandleWatiWebhook turns an inbound WhatsApp contact into a lead.
// Redelivered payloads are recognized by contact id and timestamp and
// acknowledged without creating anything twice.
func (s *Service) HandleWatiWebhook(ctx context.Context, req transport.WatiWebhookRequest) (transport.WatiWebhookResponse, error) {
	key := fmt.Sprintf("wati:%s:%s", req.ContactID, req.Timestamp)
	first, err := s.dedup.Claim(ctx, key)
	if err != nil {
		// Redis being down should not drop inbound leads; proceed as
		// first delivery.
		s.log.Error("webhook dedup unavailable", "error", err)
		first = true
	}
	if !first {
		return transport.WatiWebhookResponse{Duplicate: true}, nil
	}

	normalized := phone.NormalizeE164(req.Phone)
	leadID, err := s.intake.CreateFromWati(ctx, WatiLeadParams{
		ContactID: req.ContactID,
		Phone:     normalized,
		Name:      req.Name,
		Message:   req.Message,
	})
	if err != nil {
		return transport.WatiWebhookResponse{}, err
	}

	if req.Message != nil {
		if _, err := s.repo.Create(ctx, repository.CreateLogParams{
			LeadID:         &leadID,
			Channel:        domain.ChannelWhatsApp,
			Direction:      domain.DirectionInbound,
			MessageContent: req.Message,
			Status:         domain.StatusDelivered,
		}); err != nil {
			// The lead exists; a missing inbound log entry is not worth
			// failing the webhook over.
			s.log.Error("failed to record inbound whatsapp message", "lead_id", leadID, "error", err)
		}
	}

	return transport.WatiWebhookResponse{LeadID: &leadID}, nil
}

func (s *Service) validateRefs(ctx context.Context, sentBy int64, leadID, orderID *int64) error {
	ok, err := s.refs.UserExists(ctx, sentBy)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("user not found")
	}

	if leadID != nil {
		ok, err := s.refs.LeadExists(ctx, *leadID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("lead not found")
		}
	}

	if orderID != nil {
		ok, err := s.refs.OrderExists(ctx, *orderID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("order not found")
		}
	}

	return nil
}
