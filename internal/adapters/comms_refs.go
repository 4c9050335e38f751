package adapters

import (
	"context"
	"errors"

	leadsrepo "crm_backend/internal/leads/repository"
	ordersrepo "crm_backend/internal/orders/repository"
	usersrepo "crm_backend/internal/users/repository"
)

// CommsRefValidator answers existence checks for the records a
// communication log may reference.
type CommsRefValidator struct {
	users  *usersrepo.Repository
	leads  *leadsrepo.Repository
	orders *ordersrepo.Repository
}

func NewCommsRefValidator(users *usersrepo.Repository, leads *leadsrepo.Repository, orders *ordersrepo.Repository) *CommsRefValidator {
	return &CommsRefValidator{users: users, leads: leads, orders: orders}
}

func (v *CommsRefValidator) UserExists(ctx context.Context, id int64) (bool, error) {
	_, err := v.users.GetByID(ctx, id)
	if errors.Is(err, usersrepo.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (v *CommsRefValidator) LeadExists(ctx context.Context, id int64) (bool, error) {
	_, err := v.leads.GetByID(ctx, id)
	if errors.Is(err, leadsrepo.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (v *CommsRefValidator) OrderExists(ctx context.Context, id int64) (bool, error) {
	_, err := v.orders.GetByID(ctx, id)
	if errors.Is(err, ordersrepo.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
