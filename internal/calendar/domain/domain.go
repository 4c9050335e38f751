// Package domain holds the calendar event vocabulary.
package domain

// EventType categorizes a scheduled event.
type EventType string

const (
	EventFollowUp EventType = "Follow Up"
	EventMeeting  EventType = "Meeting"
	EventCall     EventType = "Call"
	EventDelivery EventType = "Delivery"
	EventOther    EventType = "Other"
)
