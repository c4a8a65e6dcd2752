package service

import (
	"context"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/shopspring/decimal"
)

// BillInput is the body of scheduled bill calls. On update, nil fields are unchanged,
// so {"status":"PAID"} alone marks a bill paid.
type BillInput struct {
	Title   *string            `json:"title"`
	Amount  *decimal.Decimal   `json:"amount"`
	DueDate *models.Date       `json:"due_date"`
	Status  *models.BillStatus `json:"status"`
}

func (in BillInput) apply(bill *models.ScheduledBill) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return validationf("title is required")
		}
		bill.Title = title
	}
	if in.Amount != nil {
		if err := positiveAmount("amount", *in.Amount); err != nil {
			return err
		}
		bill.Amount = *in.Amount
	}
	if in.DueDate != nil {
		if in.DueDate.IsZero() {
			return validationf("due_date is required")
		}
		bill.DueDate = *in.DueDate
	}
	if in.Status != nil {
		status := models.BillStatus(strings.ToUpper(string(*in.Status)))
		if !status.Valid() {
			return validationf("status must be PENDING or PAID")
		}
		bill.Status = status
	}
	return nil
}

func (s *Service) billView(b models.ScheduledBill) models.ScheduledBillView {
	return models.ScheduledBillView{ScheduledBill: b, DisplayStatus: b.DisplayStatus(s.today())}
}

// CreateBill schedules a bill reminder
func (s *Service) CreateBill(ctx context.Context, ownerID int64, in BillInput) (*models.ScheduledBillView, error) {
	if in.Title == nil || in.Amount == nil || in.DueDate == nil {
		return nil, validationf("title, amount and due_date are required")
	}
	bill := &models.ScheduledBill{UserID: ownerID, Status: models.BillPending}
	if err := in.apply(bill); err != nil {
		return nil, err
	}

	if err := s.store.CreateBill(ctx, bill); err != nil {
		return nil, s.fail(ctx, "create", "bill", ownerID, err)
	}
	view := s.billView(*bill)
	return &view, nil
}

// ListBills returns the caller's bills ordered by due date with display status
func (s *Service) ListBills(ctx context.Context, ownerID int64) ([]models.ScheduledBillView, error) {
	bills, err := s.store.ListBills(ctx, ownerID)
	if err != nil {
		return nil, s.fail(ctx, "list", "bill", ownerID, err)
	}
	views := make([]models.ScheduledBillView, 0, len(bills))
	for _, b := range bills {
		views = append(views, s.billView(b))
	}
	return views, nil
}

// UpdateBill edits a bill or marks it paid. Paying a bill does not post a transaction.
func (s *Service) UpdateBill(ctx context.Context, ownerID, id int64, in BillInput) (*models.ScheduledBillView, error) {
	bill, err := s.store.GetBill(ctx, ownerID, id)
	if err != nil {
		return nil, s.fail(ctx, "get", "bill", ownerID, err)
	}
	if err := in.apply(bill); err != nil {
		return nil, err
	}

	if err := s.store.UpdateBill(ctx, bill); err != nil {
		return nil, s.fail(ctx, "update", "bill", ownerID, err)
	}
	view := s.billView(*bill)
	return &view, nil
}

// DeleteBill removes a bill
func (s *Service) DeleteBill(ctx context.Context, ownerID, id int64) error {
	if err := s.store.DeleteBill(ctx, ownerID, id); err != nil {
		return s.fail(ctx, "delete", "bill", ownerID, err)
	}
	return nil
}
