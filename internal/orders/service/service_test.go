package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"crm_backend/internal/orders/repository"
	"crm_backend/internal/orders/transport"
	"crm_backend/platform/apperr"
)

type fakeRepo struct {
	params    *repository.CreateOrderParams
	order     repository.Order
	createErr error
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateOrderParams) (repository.Order, error) {
	f.params = &params
	if f.createErr != nil {
		return repository.Order{}, f.createErr
	}
	return f.order, nil
}

func (f *fakeRepo) GetByID(context.Context, int64) (repository.Order, error) {
	return f.order, nil
}

func (f *fakeRepo) List(context.Context, repository.ListOrdersParams) ([]repository.Order, error) {
	return []repository.Order{f.order}, nil
}

func (f *fakeRepo) ActiveDeals(context.Context) ([]repository.ActiveDeal, error) {
	return nil, nil
}

func TestCreateComputesBalanceFromAdvance(t *testing.T) {
	repo := &fakeRepo{order: repository.Order{ID: 1, LeadID: 5, OrderNumber: "ORD-1-AAAA"}}
	svc := New(repo, nil)

	advance := 250.0
	_, err := svc.Create(context.Background(), transport.CreateOrderRequest{
		LeadID:         5,
		ProductDetails: "22k gold bangle pair",
		TotalAmount:    1000,
		AdvanceAmount:  &advance,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.params.BalanceAmount != 750 {
		t.Fatalf("expected balance 750, got %v", repo.params.BalanceAmount)
	}
}

func TestCreateWithoutAdvanceLeavesFullBalance(t *testing.T) {
	repo := &fakeRepo{order: repository.Order{ID: 1}}
	svc := New(repo, nil)

	_, err := svc.Create(context.Background(), transport.CreateOrderRequest{
		LeadID:         5,
		ProductDetails: "pendant",
		TotalAmount:    1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.params.BalanceAmount != 1000 {
		t.Fatalf("expected balance 1000, got %v", repo.params.BalanceAmount)
	}
	if repo.params.AdvanceAmount != nil {
		t.Fatal("expected no advance amount")
	}
}

func TestCreateRejectsAdvanceAboveTotal(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, nil)

	advance := 1500.0
	_, err := svc.Create(context.Background(), transport.CreateOrderRequest{
		LeadID:         5,
		ProductDetails: "pendant",
		TotalAmount:    1000,
		AdvanceAmount:  &advance,
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.params != nil {
		t.Fatal("expected no repository call for a rejected order")
	}
}

func TestCreateUnknownLeadIsNotFound(t *testing.T) {
	repo := &fakeRepo{createErr: repository.ErrLeadNotFound}
	svc := New(repo, nil)

	_, err := svc.Create(context.Background(), transport.CreateOrderRequest{
		LeadID:         99,
		ProductDetails: "pendant",
		TotalAmount:    1000,
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCreateGeneratesOrderNumber(t *testing.T) {
	repo := &fakeRepo{order: repository.Order{ID: 1}}
	svc := New(repo, nil)

	_, err := svc.Create(context.Background(), transport.CreateOrderRequest{
		LeadID:         5,
		ProductDetails: "pendant",
		TotalAmount:    1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(repo.params.OrderNumber, "ORD-") {
		t.Fatalf("expected ORD- prefixed order number, got %q", repo.params.OrderNumber)
	}
	if len(strings.Split(repo.params.OrderNumber, "-")) != 3 {
		t.Fatalf("expected three-part order number, got %q", repo.params.OrderNumber)
	}
}
