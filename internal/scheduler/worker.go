package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm_backend/internal/events"
	leadsrepo "crm_backend/internal/leads/repository"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// staleTolerance is how far a lead's stored follow-up time may drift
// from a task's scheduled time before the task is considered superseded
// by a reschedule.
const staleTolerance = time.Minute

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	leads  *leadsrepo.Repository
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		leads:  leadsrepo.New(pool),
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskFollowUpReminder, w.handleFollowUpReminder)

	return w, nil
}

// handleFollowUpReminder fires the follow-up event unless the lead has
// been deleted, the follow-up was cleared, or it was rescheduled after
// this task was enqueued.
func (w *Worker) handleFollowUpReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpReminderPayload(task)
	if err != nil {
		return err
	}

	lead, err := w.leads.GetByID(ctx, payload.LeadID)
	if err != nil {
		if errors.Is(err, leadsrepo.ErrNotFound) {
			w.log.Info("follow-up reminder dropped, lead gone", "lead_id", payload.LeadID)
			return nil
		}
		return err
	}

	if lead.NextFollowUpAt == nil {
		w.log.Info("follow-up reminder dropped, follow-up cleared", "lead_id", payload.LeadID)
		return nil
	}
	if lead.NextFollowUpAt.Sub(payload.ScheduledFor) > staleTolerance {
		w.log.Info("follow-up reminder dropped, rescheduled later",
			"lead_id", payload.LeadID, "next_follow_up_at", lead.NextFollowUpAt)
		return nil
	}

	if w.bus == nil {
		return nil
	}
	return w.bus.PublishSync(ctx, events.FollowUpDue{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
	})
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
