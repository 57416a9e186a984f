package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"kiings/models"
)

const (
	TypeSendReminder = "reminder:send"
	TypeReapOrphan   = "booking:reap_orphan"
)

// NewReminderTask builds a delayed reminder-email task.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// NewReapOrphanTask builds a delayed cleanup task for a booking whose
// checkout session creation failed. The worker deletes the booking unless a
// payment record has appeared by then.
func NewReapOrphanTask(bookingID string, after time.Duration) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(models.ReapOrphanPayload{BookingID: bookingID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReapOrphan, b)
	opts := []asynq.Option{asynq.ProcessIn(after)}

	return task, opts, nil
}
