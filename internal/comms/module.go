// Package comms provides the communications bounded context: outbound
// WhatsApp messaging, communication logs, and the WATI inbound webhook.
package comms

import (
	"crm_backend/internal/comms/handler"
	"crm_backend/internal/comms/repository"
	"crm_backend/internal/comms/service"
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the comms bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the comms module. The sender, ref
// validator, and lead intake cross context boundaries and arrive as
// adapters.
func NewModule(
	pool *pgxpool.Pool,
	sender service.Sender,
	refs service.RefValidator,
	intake service.LeadIntake,
	dedup service.Deduper,
	log *logger.Logger,
	val *validator.Validator,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, sender, refs, intake, dedup, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "comms"
}

// Service returns the comms service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the webhook publicly and messaging behind auth.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(ctx.V1.Group("/webhooks"))
	m.handler.RegisterProtectedRoutes(ctx.Protected.Group("/communications"))
}
