package worker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/hibiken/asynq"
)

// TypeBillReminder is the asynq task type for scheduled bill reminder mails
const TypeBillReminder = "bill:reminder"

type BillReminderPayload struct {
	BillID int64  `json:"bill_id"`
	UserID int64  `json:"user_id"`
	Day    string `json:"day"`
}

// NewBillReminderTask builds a reminder task. The task id is derived from bill and day,
// so a bill is queued at most once per day however often the scan runs.
func NewBillReminderTask(bill models.ScheduledBill, day models.Date) (*asynq.Task, error) {
	payload, err := json.Marshal(BillReminderPayload{BillID: bill.ID, UserID: bill.UserID, Day: day.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reminder payload: %w", err)
	}
	return asynq.NewTask(TypeBillReminder, payload,
		asynq.TaskID(fmt.Sprintf("%s:%d:%s", TypeBillReminder, bill.ID, day)),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
		asynq.Retention(24*time.Hour),
	), nil
}
