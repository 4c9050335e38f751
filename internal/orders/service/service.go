// Package service implements order placement and deal tracking.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crm_backend/internal/events"
	"crm_backend/internal/orders/domain"
	"crm_backend/internal/orders/repository"
	"crm_backend/internal/orders/transport"
	"crm_backend/platform/apperr"

	"github.com/google/uuid"
)

// Repository is the data access surface the service needs.
type Repository interface {
	Create(ctx context.Context, params repository.CreateOrderParams) (repository.Order, error)
	GetByID(ctx context.Context, id int64) (repository.Order, error)
	List(ctx context.Context, params repository.ListOrdersParams) ([]repository.Order, error)
	ActiveDeals(ctx context.Context) ([]repository.ActiveDeal, error)
}

type Service struct {
	repo Repository
	bus  events.Bus
}

func New(repo Repository, bus events.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// Create places a new order against a lead. The balance is the total
// minus any advance; the lead's follow-up status moves to completed as
// part of the same write.
func (s *Service) Create(ctx context.Context, req transport.CreateOrderRequest) (transport.OrderResponse, error) {
	if req.AdvanceAmount != nil && *req.AdvanceAmount > req.TotalAmount {
		return transport.OrderResponse{}, apperr.Validation("advance amount exceeds total amount")
	}

	balance := req.TotalAmount
	if req.AdvanceAmount != nil {
		balance = req.TotalAmount - *req.AdvanceAmount
	}

	order, err := s.repo.Create(ctx, repository.CreateOrderParams{
		LeadID:         req.LeadID,
		OrderNumber:    newOrderNumber(),
		ProductDetails: req.ProductDetails,
		TotalAmount:    req.TotalAmount,
		AdvanceAmount:  req.AdvanceAmount,
		BalanceAmount:  balance,
		DeliveryDate:   req.DeliveryDate,
		Notes:          req.Notes,
	})
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return transport.OrderResponse{}, apperr.NotFound("lead not found")
		}
		return transport.OrderResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.OrderCreated{
			BaseEvent:   events.NewBaseEvent(),
			OrderID:     order.ID,
			LeadID:      order.LeadID,
			OrderNumber: order.OrderNumber,
			TotalAmount: order.TotalAmount,
		})
	}

	return transport.ToOrderResponse(order), nil
}

// GetByID retrieves one order.
func (s *Service) GetByID(ctx context.Context, id int64) (transport.OrderResponse, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.OrderResponse{}, apperr.NotFound("order not found")
		}
		return transport.OrderResponse{}, err
	}
	return transport.ToOrderResponse(order), nil
}

// List returns orders matching the filters.
func (s *Service) List(ctx context.Context, req transport.ListOrdersRequest) ([]transport.OrderResponse, error) {
	params := repository.ListOrdersParams{LeadID: req.LeadID}
	if req.Status != nil {
		status := domain.OrderStatus(*req.Status)
		params.Status = &status
	}

	orders, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]transport.OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, transport.ToOrderResponse(order))
	}
	return out, nil
}

// ActiveDeals returns every non-cancelled order with its lead snapshot.
func (s *Service) ActiveDeals(ctx context.Context) ([]transport.ActiveDealResponse, error) {
	deals, err := s.repo.ActiveDeals(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.ActiveDealResponse, 0, len(deals))
	for _, deal := range deals {
		out = append(out, transport.ToActiveDealResponse(deal))
	}
	return out, nil
}

// newOrderNumber builds a human-readable unique order reference. The
// timestamp keeps numbers roughly sortable; the uuid suffix breaks ties
// between orders placed in the same millisecond.
func newOrderNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}
