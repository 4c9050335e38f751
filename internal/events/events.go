// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"crm_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created directly.
type LeadCreated struct {
	BaseEvent
	LeadID    int64  `json:"leadId"`
	Source    string `json:"source"`
	Medium    string `json:"medium"`
	LeadScore int    `json:"leadScore"`
}

func (e LeadCreated) EventName() string { return "leads.created" }

// LeadPromoted is published when a high-intent browsing aggregate is
// automatically promoted into a lead.
type LeadPromoted struct {
	BaseEvent
	LeadID      int64  `json:"leadId"`
	SessionID   string `json:"sessionId"`
	IntentScore int    `json:"intentScore"`
}

func (e LeadPromoted) EventName() string { return "leads.promoted" }

// FollowUpDue is published by the scheduler worker when a lead's
// follow-up reminder fires.
type FollowUpDue struct {
	BaseEvent
	LeadID int64 `json:"leadId"`
}

func (e FollowUpDue) EventName() string { return "leads.follow_up.due" }

// FollowUpScheduleFailed is published when a follow-up reminder could not
// be enqueued. The lead update itself has already committed.
type FollowUpScheduleFailed struct {
	BaseEvent
	LeadID int64  `json:"leadId"`
	Reason string `json:"reason"`
}

func (e FollowUpScheduleFailed) EventName() string { return "leads.follow_up.schedule_failed" }

// =============================================================================
// Activity Domain Events
// =============================================================================

// ActivityRecorded is published after a browsing activity upsert commits.
type ActivityRecorded struct {
	BaseEvent
	SessionID    string `json:"sessionId"`
	ActivityType string `json:"activityType"`
	IntentScore  int    `json:"intentScore"`
}

func (e ActivityRecorded) EventName() string { return "activity.recorded" }

// =============================================================================
// Order Domain Events
// =============================================================================

// OrderCreated is published when a new order is created for a lead.
type OrderCreated struct {
	BaseEvent
	OrderID     int64   `json:"orderId"`
	LeadID      int64   `json:"leadId"`
	OrderNumber string  `json:"orderNumber"`
	TotalAmount float64 `json:"totalAmount"`
}

func (e OrderCreated) EventName() string { return "orders.created" }
