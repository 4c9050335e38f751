package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskFollowUpReminder = "leads.follow_up.reminder"

// FollowUpReminderPayload identifies which lead's follow-up is due and
// when it was scheduled for, so a rescheduled follow-up can supersede a
// stale task.
type FollowUpReminderPayload struct {
	LeadID       int64     `json:"leadId"`
	ScheduledFor time.Time `json:"scheduledFor"`
}

func NewFollowUpReminderTask(payload FollowUpReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowUpReminder, data), nil
}

func ParseFollowUpReminderPayload(task *asynq.Task) (FollowUpReminderPayload, error) {
	var payload FollowUpReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpReminderPayload{}, err
	}
	return payload, nil
}
