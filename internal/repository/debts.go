package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/finance-service/internal/models"
)

const debtColumns = `id, user_id, name, type, total_amount, remaining_amount, due_date, description, status, created_at, updated_at`

// CreateDebt inserts a debt
func (r *Repository) CreateDebt(ctx context.Context, debt *models.Debt) error {
	query := `
		INSERT INTO finance.debts
			(user_id, name, type, total_amount, remaining_amount, due_date, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRowxContext(ctx, query,
		debt.UserID, debt.Name, debt.Type, debt.TotalAmount, debt.RemainingAmount,
		debt.DueDate, debt.Description, debt.Status).
		Scan(&debt.ID, &debt.CreatedAt, &debt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create debt: %w", mapError(err))
	}
	return nil
}

// GetDebt retrieves one debt of the owner
func (r *Repository) GetDebt(ctx context.Context, ownerID, id int64) (*models.Debt, error) {
	debt := &models.Debt{}
	query := `SELECT ` + debtColumns + ` FROM finance.debts WHERE id = $1 AND user_id = $2`
	if err := r.q.GetContext(ctx, debt, query, id, ownerID); err != nil {
		return nil, fmt.Errorf("failed to get debt: %w", mapError(err))
	}
	return debt, nil
}

// LockDebt retrieves a debt and locks its row for a read-modify-write
func (r *Repository) LockDebt(ctx context.Context, ownerID, id int64) (*models.Debt, error) {
	debt := &models.Debt{}
	query := `SELECT ` + debtColumns + ` FROM finance.debts WHERE id = $1 AND user_id = $2 FOR UPDATE`
	if err := r.q.GetContext(ctx, debt, query, id, ownerID); err != nil {
		return nil, fmt.Errorf("failed to lock debt: %w", mapError(err))
	}
	return debt, nil
}

// ListDebts returns the owner's debts
func (r *Repository) ListDebts(ctx context.Context, ownerID int64) ([]models.Debt, error) {
	debts := []models.Debt{}
	query := `SELECT ` + debtColumns + ` FROM finance.debts WHERE user_id = $1 ORDER BY id`
	if err := r.q.SelectContext(ctx, &debts, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", mapError(err))
	}
	return debts, nil
}

// UpdateDebtBalance writes remaining_amount and status
func (r *Repository) UpdateDebtBalance(ctx context.Context, debt *models.Debt) error {
	query := `
		UPDATE finance.debts
		SET remaining_amount = $1, status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3 AND user_id = $4
		RETURNING updated_at`
	err := r.q.QueryRowxContext(ctx, query, debt.RemainingAmount, debt.Status, debt.ID, debt.UserID).
		Scan(&debt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update debt: %w", mapError(err))
	}
	return nil
}

// DeleteDebt removes a debt and its payment history
func (r *Repository) DeleteDebt(ctx context.Context, ownerID, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM finance.debts WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete debt: %w", mapError(err))
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}
	return nil
}

// CreateDebtPayment records a pay call
func (r *Repository) CreateDebtPayment(ctx context.Context, payment *models.DebtPayment) error {
	query := `
		INSERT INTO finance.debt_payments (debt_id, user_id, amount, applied, paid_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING id, paid_at`
	err := r.q.QueryRowxContext(ctx, query, payment.DebtID, payment.UserID, payment.Amount, payment.Applied).
		Scan(&payment.ID, &payment.PaidAt)
	if err != nil {
		return fmt.Errorf("failed to record debt payment: %w", mapError(err))
	}
	return nil
}

// ListDebtPayments returns the payment history of a debt, oldest first
func (r *Repository) ListDebtPayments(ctx context.Context, ownerID, debtID int64) ([]models.DebtPayment, error) {
	payments := []models.DebtPayment{}
	query := `
		SELECT id, debt_id, user_id, amount, applied, paid_at
		FROM finance.debt_payments
		WHERE debt_id = $1 AND user_id = $2
		ORDER BY paid_at, id`
	if err := r.q.SelectContext(ctx, &payments, query, debtID, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list debt payments: %w", mapError(err))
	}
	return payments, nil
}
