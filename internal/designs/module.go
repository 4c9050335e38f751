// Package designs provides the design bank bounded context.
package designs

import (
	"crm_backend/internal/designs/handler"
	"crm_backend/internal/designs/repository"
	"crm_backend/internal/designs/service"
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the designs bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the designs module.
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
	return "designs"
}

// Service returns the design service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts design bank routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/designs"))
}
