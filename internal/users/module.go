// Package users provides the team account bounded context: sign-in and
// account management.
package users

import (
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/users/handler"
	"crm_backend/internal/users/repository"
	"crm_backend/internal/users/service"
	"crm_backend/platform/config"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the users bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the users module.
func NewModule(pool *pgxpool.Pool, cfg config.AuthConfig, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "users"
}

// Service returns the user service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the user repository for adapters that validate
// account references.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts sign-in publicly and account management behind auth.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(ctx.V1.Group("/auth"))
	m.handler.RegisterProtectedRoutes(ctx.Protected.Group("/users"))
}
