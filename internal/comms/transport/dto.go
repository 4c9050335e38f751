// Package transport defines request and response shapes for the
// communications API and the WATI webhook.
package transport

import (
	"time"

	"crm_backend/internal/comms/repository"
)

type SendWhatsAppRequest struct {
	LeadID       *int64  `json:"leadId" validate:"omitempty,min=1"`
	OrderID      *int64  `json:"orderId" validate:"omitempty,min=1"`
	Phone        string  `json:"phone" validate:"required,max=32"`
	Message      string  `json:"message" validate:"required,max=4096"`
	TemplateName *string `json:"templateName" validate:"omitempty,max=255"`
}

type ListLogsRequest struct {
	LeadID  *int64 `form:"leadId"`
	OrderID *int64 `form:"orderId"`
}

// WatiWebhookRequest is the inbound contact payload WATI delivers when
// a WhatsApp conversation starts.
type WatiWebhookRequest struct {
	ContactID string  `json:"contact_id" validate:"required,max=128"`
	Phone     string  `json:"phone" validate:"required,max=32"`
	Name      *string `json:"name" validate:"omitempty,max=255"`
	Message   *string `json:"message" validate:"omitempty,max=4096"`
	Timestamp string  `json:"timestamp" validate:"required"`
}

type LogResponse struct {
	ID                int64     `json:"id"`
	LeadID            *int64    `json:"leadId,omitempty"`
	OrderID           *int64    `json:"orderId,omitempty"`
	Channel           string    `json:"communicationType"`
	Direction         string    `json:"direction"`
	MessageContent    *string   `json:"messageContent,omitempty"`
	TemplateName      *string   `json:"templateName,omitempty"`
	Status            string    `json:"status"`
	SentBy            *int64    `json:"sentBy,omitempty"`
	ExternalMessageID *string   `json:"externalMessageId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// WatiWebhookResponse reports what the webhook did with the payload.
type WatiWebhookResponse struct {
	Duplicate bool   `json:"duplicate"`
	LeadID    *int64 `json:"leadId,omitempty"`
}

func ToLogResponse(log repository.Log) LogResponse {
	return LogResponse{
		ID:                log.ID,
		LeadID:            log.LeadID,
		OrderID:           log.OrderID,
		Channel:           string(log.Channel),
		Direction:         string(log.Direction),
		MessageContent:    log.MessageContent,
		TemplateName:      log.TemplateName,
		Status:            string(log.Status),
		SentBy:            log.SentBy,
		ExternalMessageID: log.ExternalMessageID,
		CreatedAt:         log.CreatedAt,
	}
}
