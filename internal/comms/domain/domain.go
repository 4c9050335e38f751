// Package domain holds the communication log vocabulary.
package domain

// Channel is the medium a message travelled over.
type Channel string

const (
	ChannelWhatsApp Channel = "WhatsApp"
	ChannelEmail    Channel = "Email"
	ChannelPhone    Channel = "Phone"
	ChannelSMS      Channel = "SMS"
)

// Direction distinguishes sent from received messages.
type Direction string

const (
	DirectionInbound  Direction = "Inbound"
	DirectionOutbound Direction = "Outbound"
)

// MessageStatus is the delivery state reported by the gateway.
type MessageStatus string

const (
	StatusSent      MessageStatus = "Sent"
	StatusDelivered MessageStatus = "Delivered"
	StatusRead      MessageStatus = "Read"
	StatusFailed    MessageStatus = "Failed"
)
