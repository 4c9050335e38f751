// Package transport defines request and response shapes for the orders API.
package transport

import (
	"time"

	"crm_backend/internal/orders/repository"
)

type CreateOrderRequest struct {
	LeadID         int64      `json:"leadId" validate:"required,min=1"`
	ProductDetails string     `json:"productDetails" validate:"required"`
	TotalAmount    float64    `json:"totalAmount" validate:"required,gt=0"`
	AdvanceAmount  *float64   `json:"advanceAmount" validate:"omitempty,gte=0"`
	DeliveryDate   *time.Time `json:"deliveryDate"`
	Notes          *string    `json:"notes" validate:"omitempty,max=4096"`
}

type ListOrdersRequest struct {
	LeadID *int64  `form:"leadId"`
	Status *string `form:"status"`
}

type OrderResponse struct {
	ID                 int64      `json:"id"`
	LeadID             int64      `json:"leadId"`
	OrderNumber        string     `json:"orderNumber"`
	ProductDetails     string     `json:"productDetails"`
	TotalAmount        float64    `json:"totalAmount"`
	AdvanceAmount      *float64   `json:"advanceAmount,omitempty"`
	BalanceAmount      *float64   `json:"balanceAmount,omitempty"`
	PaymentStatus      string     `json:"paymentStatus"`
	OrderStatus        string     `json:"orderStatus"`
	DeliveryDate       *time.Time `json:"deliveryDate,omitempty"`
	ActualDeliveryDate *time.Time `json:"actualDeliveryDate,omitempty"`
	SLABreach          bool       `json:"slaBreach"`
	Notes              *string    `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// ActiveDealResponse is an order annotated with its lead's contact snapshot.
type ActiveDealResponse struct {
	OrderResponse
	LeadName      *string `json:"leadName,omitempty"`
	LeadPhone     *string `json:"leadPhone,omitempty"`
	LeadEmail     *string `json:"leadEmail,omitempty"`
	PipelineStage string  `json:"pipelineStage"`
}

func ToOrderResponse(order repository.Order) OrderResponse {
	return OrderResponse{
		ID:                 order.ID,
		LeadID:             order.LeadID,
		OrderNumber:        order.OrderNumber,
		ProductDetails:     order.ProductDetails,
		TotalAmount:        order.TotalAmount,
		AdvanceAmount:      order.AdvanceAmount,
		BalanceAmount:      order.BalanceAmount,
		PaymentStatus:      string(order.PaymentStatus),
		OrderStatus:        string(order.OrderStatus),
		DeliveryDate:       order.DeliveryDate,
		ActualDeliveryDate: order.ActualDeliveryDate,
		SLABreach:          order.SLABreach,
		Notes:              order.Notes,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
}

func ToActiveDealResponse(deal repository.ActiveDeal) ActiveDealResponse {
	return ActiveDealResponse{
		OrderResponse: ToOrderResponse(deal.Order),
		LeadName:      deal.LeadName,
		LeadPhone:     deal.LeadPhone,
		LeadEmail:     deal.LeadEmail,
		PipelineStage: deal.PipelineStage,
	}
}
