package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/store"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// BillStore is the part of the store the reminder worker needs
type BillStore interface {
	ListBillsForReminder(ctx context.Context, dueBy models.Date, remindedBefore time.Time) ([]models.ScheduledBill, error)
	GetBill(ctx context.Context, ownerID, id int64) (*models.ScheduledBill, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	MarkBillReminded(ctx context.Context, id int64, at time.Time) error
}

// Mailer delivers reminder emails
type Mailer interface {
	SendBillReminder(to, name string, bill models.ScheduledBill, overdue bool) error
}

// ReminderHandler processes bill reminder tasks
type ReminderHandler struct {
	store  BillStore
	mailer Mailer
	log    *logrus.Logger
	now    func() time.Time
}

func NewReminderHandler(st BillStore, mailer Mailer, log *logrus.Logger) *ReminderHandler {
	return &ReminderHandler{store: st, mailer: mailer, log: log, now: time.Now}
}

// Handle mails the bill owner and stamps the bill as reminded.
// Bills that were deleted or paid since the scan are skipped.
func (h *ReminderHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload BillReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	logger := h.log.WithFields(logrus.Fields{"bill_id": payload.BillID, "owner": payload.UserID})

	bill, err := h.store.GetBill(ctx, payload.UserID, payload.BillID)
	if errors.Is(err, store.ErrNotFound) {
		logger.Info("Bill no longer exists, skipping reminder")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get bill: %w", err)
	}
	if bill.Status == models.BillPaid {
		logger.Info("Bill already paid, skipping reminder")
		return nil
	}

	user, err := h.store.GetUserByID(ctx, bill.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	now := h.now()
	overdue := bill.DueDate.Before(models.DateOf(now))
	if err := h.mailer.SendBillReminder(user.Email, user.FullName, *bill, overdue); err != nil {
		return err
	}
	if err := h.store.MarkBillReminded(ctx, bill.ID, now); err != nil {
		return fmt.Errorf("failed to mark bill reminded: %w", err)
	}

	logger.WithField("overdue", overdue).Info("Bill reminder sent")
	return nil
}

// RegisterHandlers binds task types to their handlers
func RegisterHandlers(mux *asynq.ServeMux, reminders *ReminderHandler) {
	mux.HandleFunc(TypeBillReminder, reminders.Handle)
}
