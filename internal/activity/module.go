// Package activity provides the browsing-activity bounded context:
// aggregate ingestion and the lead promotion rule.
package activity

import (
	"crm_backend/internal/activity/handler"
	"crm_backend/internal/activity/promotion"
	"crm_backend/internal/activity/repository"
	"crm_backend/internal/activity/service"
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/leads/scoring"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the activity bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the activity module. The lead store
// crosses into the leads context, so it arrives as an adapter rather
// than a direct dependency.
func NewModule(pool *pgxpool.Pool, policy scoring.Policy, store promotion.LeadStore, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	evaluator := promotion.NewEvaluator(store, policy, log)
	svc := service.New(repo, policy, evaluator, bus)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "activity"
}

// Service returns the activity service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts ingestion publicly and the read side behind auth.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(ctx.V1.Group("/activities"))
	m.handler.RegisterProtectedRoutes(ctx.Protected.Group("/activities"))
}
