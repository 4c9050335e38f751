package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm_backend/internal/activity"
	"crm_backend/internal/adapters"
	"crm_backend/internal/calendar"
	"crm_backend/internal/comms"
	"crm_backend/internal/comms/dedup"
	"crm_backend/internal/designs"
	"crm_backend/internal/email"
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/http/router"
	"crm_backend/internal/leads"
	"crm_backend/internal/leads/scoring"
	leadssvc "crm_backend/internal/leads/service"
	"crm_backend/internal/notification"
	"crm_backend/internal/orders"
	"crm_backend/internal/scheduler"
	"crm_backend/internal/users"
	"crm_backend/internal/whatsapp"
	"crm_backend/migrations"
	"crm_backend/platform/config"
	"crm_backend/platform/db"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// webhookDedupTTL is how long a WATI delivery key is remembered; WATI
// retries well within this window.
const webhookDedupTTL = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	redisClient := initRedisClient(cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	mailSender := email.NewSender(cfg)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Scoring policy shared by lead creation and activity aggregation
	policy := scoring.DefaultPolicy()
	if threshold := cfg.GetPromotionThreshold(); threshold > 0 {
		policy = policy.WithPromotionMinimum(threshold)
	}

	// WATI WhatsApp gateway (degrades to local echo when not configured)
	watiClient := whatsapp.NewClient(cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.NewModule(eventBus, mailSender, pool, log)
	if alertNumber := cfg.GetNotifyWhatsAppNumber(); alertNumber != "" && watiClient != nil {
		notificationModule.SetWhatsAppAlerts(watiClient, alertNumber)
	}

	usersModule := users.NewModule(pool, cfg, val)

	leadsOpts := []leadssvc.Option{}
	if reminderScheduler != nil {
		leadsOpts = append(leadsOpts, leadssvc.WithReminderScheduler(reminderScheduler))
	}
	leadsModule := leads.NewModule(pool, policy, eventBus, val, leadsOpts...)

	// Activity aggregation promotes high-intent sessions into leads via
	// the promotion store adapter (anti-corruption layer).
	promotionStore := adapters.NewPromotionStore(leadsModule.Repository())
	activityModule := activity.NewModule(pool, policy, promotionStore, eventBus, log, val)

	ordersModule := orders.NewModule(pool, eventBus, val)
	designsModule := designs.NewModule(pool, val)
	calendarModule := calendar.NewModule(pool, val)

	// Comms: outbound WhatsApp plus the WATI inbound webhook. Reference
	// checks and lead intake cross context boundaries through adapters.
	refs := adapters.NewCommsRefValidator(usersModule.Repository(), leadsModule.Repository(), ordersModule.Repository())
	intake := adapters.NewWatiLeadIntake(leadsModule.Repository(), eventBus)
	deduper := dedup.New(redisClient, webhookDedupTTL)
	commsModule := comms.NewModule(pool, watiClient, refs, intake, deduper, log, val)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			usersModule,
			leadsModule,
			activityModule,
			ordersModule,
			designsModule,
			calendarModule,
			commsModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: engine}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; follow-up reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

// initRedisClient returns nil when Redis is not configured or the URL is
// malformed; webhook dedup then degrades to accepting every delivery.
func initRedisClient(cfg config.SchedulerConfig, log *logger.Logger) *redis.Client {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		log.Warn("REDIS_URL not configured; webhook deduplication disabled")
		return nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Error("failed to parse REDIS_URL", "error", err)
		return nil
	}

	return redis.NewClient(opt)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
