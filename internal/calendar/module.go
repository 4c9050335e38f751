// Package calendar provides the team calendar bounded context.
package calendar

import (
	"crm_backend/internal/calendar/handler"
	"crm_backend/internal/calendar/repository"
	"crm_backend/internal/calendar/service"
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the calendar bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the calendar module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "calendar"
}

// Service returns the calendar service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts calendar routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/calendar-events"))
}
