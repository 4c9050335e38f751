// Package notification subscribes to domain events and turns them into
// team alert emails. Domain modules publish events and stay unaware of
// email delivery.
package notification

import (
	"context"
	"errors"
	"fmt"
	"html"

	"crm_backend/internal/email"
	"crm_backend/internal/events"
	leadsrepo "crm_backend/internal/leads/repository"
	"crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// WhatsAppSender delivers alert messages over WhatsApp. Satisfied by
// the WATI client.
type WhatsAppSender interface {
	SendSessionMessage(ctx context.Context, phoneNumber, message string) (string, error)
}

// Module wires event subscriptions to the alert channels.
type Module struct {
	mail       email.Sender
	leads      *leadsrepo.Repository
	log        *logger.Logger
	whatsapp   WhatsAppSender
	whatsAppTo string
}

// NewModule creates the notification module and subscribes its handlers
// on the bus.
func NewModule(bus events.Bus, mail email.Sender, pool *pgxpool.Pool, log *logger.Logger) *Module {
	m := &Module{
		mail:  mail,
		leads: leadsrepo.New(pool),
		log:   log,
	}

	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(m.onLeadCreated))
	bus.Subscribe(events.LeadPromoted{}.EventName(), events.HandlerFunc(m.onLeadPromoted))
	bus.Subscribe(events.FollowUpDue{}.EventName(), events.HandlerFunc(m.onFollowUpDue))
	bus.Subscribe(events.OrderCreated{}.EventName(), events.HandlerFunc(m.onOrderCreated))

	return m
}

// SetWhatsAppAlerts additionally mirrors alerts to the given WhatsApp
// number. Optional; alerts are email-only until this is called.
func (m *Module) SetWhatsAppAlerts(sender WhatsAppSender, recipient string) {
	m.whatsapp = sender
	m.whatsAppTo = recipient
}

func (m *Module) onLeadCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadCreated)
	if !ok {
		return nil
	}

	subject := fmt.Sprintf("New lead #%d (%s)", e.LeadID, e.Source)
	body := fmt.Sprintf(
		"<p>A new lead was created.</p><ul><li>Lead: #%d</li><li>Source: %s</li><li>Medium: %s</li><li>Score: %d</li></ul>",
		e.LeadID, html.EscapeString(e.Source), html.EscapeString(e.Medium), e.LeadScore,
	)
	return m.send(ctx, subject, body)
}

func (m *Module) onLeadPromoted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadPromoted)
	if !ok {
		return nil
	}

	subject := fmt.Sprintf("High-intent lead #%d promoted", e.LeadID)
	body := fmt.Sprintf(
		"<p>A browsing session crossed the intent threshold and was promoted.</p><ul><li>Lead: #%d</li><li>Session: %s</li><li>Intent score: %d</li></ul>",
		e.LeadID, html.EscapeString(e.SessionID), e.IntentScore,
	)
	return m.send(ctx, subject, body)
}

// onFollowUpDue enriches the reminder with the lead's contact details
// so the alert is actionable without opening the dashboard.
func (m *Module) onFollowUpDue(ctx context.Context, event events.Event) error {
	e, ok := event.(events.FollowUpDue)
	if !ok {
		return nil
	}

	subject := fmt.Sprintf("Follow-up due for lead #%d", e.LeadID)
	body := fmt.Sprintf("<p>Follow-up is due for lead #%d.</p>", e.LeadID)

	lead, err := m.leads.GetByID(ctx, e.LeadID)
	if err == nil {
		contact := "no contact details"
		if lead.Phone != nil {
			contact = *lead.Phone
		} else if lead.Email != nil {
			contact = *lead.Email
		}
		body = fmt.Sprintf(
			"<p>Follow-up is due.</p><ul><li>Lead: #%d</li><li>Contact: %s</li><li>Stage: %s</li></ul>",
			lead.ID, html.EscapeString(contact), html.EscapeString(string(lead.PipelineStage)),
		)
	} else if !errors.Is(err, leadsrepo.ErrNotFound) {
		m.log.Error("failed to load lead for follow-up alert", "lead_id", e.LeadID, "error", err)
	}

	return m.send(ctx, subject, body)
}

func (m *Module) onOrderCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.OrderCreated)
	if !ok {
		return nil
	}

	subject := fmt.Sprintf("Order %s placed", e.OrderNumber)
	body := fmt.Sprintf(
		"<p>An order was placed.</p><ul><li>Order: %s</li><li>Lead: #%d</li><li>Total: %.2f</li></ul>",
		html.EscapeString(e.OrderNumber), e.LeadID, e.TotalAmount,
	)
	return m.send(ctx, subject, body)
}

func (m *Module) send(ctx context.Context, subject, body string) error {
	// The WhatsApp mirror carries the subject line only; the email has
	// the details. Its failure never blocks the email.
	if m.whatsapp != nil && m.whatsAppTo != "" {
		if _, err := m.whatsapp.SendSessionMessage(ctx, m.whatsAppTo, subject); err != nil {
			m.log.Error("alert whatsapp failed", "subject", subject, "error", err)
		}
	}

	if err := m.mail.SendAlert(ctx, subject, body); err != nil {
		m.log.Error("alert email failed", "subject", subject, "error", err)
		return err
	}
	return nil
}
