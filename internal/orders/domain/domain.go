// Package domain holds the order status vocabulary.
package domain

// OrderStatus tracks fulfilment progress.
type OrderStatus string

const (
	OrderPending          OrderStatus = "Pending"
	OrderConfirmed        OrderStatus = "Confirmed"
	OrderInProduction     OrderStatus = "In Production"
	OrderReadyForDelivery OrderStatus = "Ready for Delivery"
	OrderDelivered        OrderStatus = "Delivered"
	OrderCancelled        OrderStatus = "Cancelled"
)

// PaymentStatus tracks how much of the order has been paid.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPartial  PaymentStatus = "Partial"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentRefunded PaymentStatus = "Refunded"
)
