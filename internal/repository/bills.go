package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
)

const billColumns = `id, user_id, title, amount, due_date, status, reminded_at, created_at, updated_at`

// CreateBill inserts a scheduled bill
func (r *Repository) CreateBill(ctx context.Context, bill *models.ScheduledBill) error {
	query := `
		INSERT INTO finance.scheduled_bills (user_id, title, amount, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRowxContext(ctx, query, bill.UserID, bill.Title, bill.Amount, bill.DueDate, bill.Status).
		Scan(&bill.ID, &bill.CreatedAt, &bill.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", mapError(err))
	}
	return nil
}

// GetBill retrieves one bill of the owner
func (r *Repository) GetBill(ctx context.Context, ownerID, id int64) (*models.ScheduledBill, error) {
	bill := &models.ScheduledBill{}
	query := `SELECT ` + billColumns + ` FROM finance.scheduled_bills WHERE id = $1 AND user_id = $2`
	if err := r.q.GetContext(ctx, bill, query, id, ownerID); err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", mapError(err))
	}
	return bill, nil
}

// ListBills returns the owner's bills by due date
func (r *Repository) ListBills(ctx context.Context, ownerID int64) ([]models.ScheduledBill, error) {
	bills := []models.ScheduledBill{}
	query := `SELECT ` + billColumns + ` FROM finance.scheduled_bills WHERE user_id = $1 ORDER BY due_date, id`
	if err := r.q.SelectContext(ctx, &bills, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", mapError(err))
	}
	return bills, nil
}

// UpdateBill overwrites title, amount, due date and status
func (r *Repository) UpdateBill(ctx context.Context, bill *models.ScheduledBill) error {
	query := `
		UPDATE finance.scheduled_bills
		SET title = $1, amount = $2, due_date = $3, status = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND user_id = $6
		RETURNING updated_at`
	err := r.q.QueryRowxContext(ctx, query, bill.Title, bill.Amount, bill.DueDate, bill.Status, bill.ID, bill.UserID).
		Scan(&bill.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", mapError(err))
	}
	return nil
}

// DeleteBill removes a bill
func (r *Repository) DeleteBill(ctx context.Context, ownerID, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM finance.scheduled_bills WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", mapError(err))
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return nil
}

// ListBillsForReminder scans pending bills of all owners that are due soon and not yet reminded
func (r *Repository) ListBillsForReminder(ctx context.Context, dueBy models.Date, remindedBefore time.Time) ([]models.ScheduledBill, error) {
	bills := []models.ScheduledBill{}
	query := `
		SELECT ` + billColumns + `
		FROM finance.scheduled_bills
		WHERE status = 'PENDING' AND due_date <= $1
		  AND (reminded_at IS NULL OR reminded_at < $2)
		ORDER BY due_date, id`
	if err := r.q.SelectContext(ctx, &bills, query, dueBy, remindedBefore); err != nil {
		return nil, fmt.Errorf("failed to list bills for reminder: %w", mapError(err))
	}
	return bills, nil
}

// MarkBillReminded stamps the time a reminder was sent
func (r *Repository) MarkBillReminded(ctx context.Context, id int64, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `UPDATE finance.scheduled_bills SET reminded_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark bill reminded: %w", mapError(err))
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("failed to mark bill reminded: %w", err)
	}
	return nil
}
