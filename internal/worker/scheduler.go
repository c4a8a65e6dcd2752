package worker

import (
	"context"
	"errors"
	"time"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Enqueuer is satisfied by *asynq.Client
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler periodically queues reminders for pending bills that are due soon or overdue
type Scheduler struct {
	store    BillStore
	enqueuer Enqueuer
	cfg      *config.Config
	log      *logrus.Logger
	now      func() time.Time
}

func NewScheduler(st BillStore, enqueuer Enqueuer, cfg *config.Config, log *logrus.Logger) *Scheduler {
	return &Scheduler{store: st, enqueuer: enqueuer, cfg: cfg, log: log, now: time.Now}
}

// Scan queues one task per bill due within the lead window that was not reminded today.
// It returns the number of newly queued tasks.
func (s *Scheduler) Scan(ctx context.Context) (int, error) {
	today := models.DateOf(s.now())
	dueBy := today.AddDays(s.cfg.ReminderLeadDays)

	bills, err := s.store.ListBillsForReminder(ctx, dueBy, today.Time)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, bill := range bills {
		task, err := NewBillReminderTask(bill, today)
		if err != nil {
			return queued, err
		}
		if _, err := s.enqueuer.EnqueueContext(ctx, task); err != nil {
			if errors.Is(err, asynq.ErrTaskIDConflict) {
				continue
			}
			s.log.WithFields(logrus.Fields{"bill_id": bill.ID, "owner": bill.UserID}).
				WithError(err).Error("Failed to enqueue bill reminder")
			continue
		}
		queued++
	}

	s.log.WithFields(logrus.Fields{"due_by": dueBy.String(), "found": len(bills), "queued": queued}).Info("Bill reminder scan finished")
	return queued, nil
}

// Register adds the scan to c on the configured cron spec
func (s *Scheduler) Register(c *cron.Cron) error {
	_, err := c.AddFunc(s.cfg.ReminderCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.Scan(ctx); err != nil {
			s.log.WithError(err).Error("Bill reminder scan failed")
		}
	})
	return err
}
