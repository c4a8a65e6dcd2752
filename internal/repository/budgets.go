package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/finance-service/internal/models"
)

const budgetColumns = `id, user_id, category_id, name, amount_limit, month_period, created_at, updated_at`

// CreateBudget inserts a budget; the (owner, category, month) unique key rejects duplicates
func (r *Repository) CreateBudget(ctx context.Context, budget *models.Budget) error {
	query := `
		INSERT INTO finance.budgets (user_id, category_id, name, amount_limit, month_period, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRowxContext(ctx, query, budget.UserID, budget.CategoryID, budget.Name, budget.AmountLimit, budget.MonthPeriod).
		Scan(&budget.ID, &budget.CreatedAt, &budget.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", mapError(err))
	}
	return nil
}

// GetBudget retrieves one budget of the owner
func (r *Repository) GetBudget(ctx context.Context, ownerID, id int64) (*models.Budget, error) {
	budget := &models.Budget{}
	query := `SELECT ` + budgetColumns + ` FROM finance.budgets WHERE id = $1 AND user_id = $2`
	if err := r.q.GetContext(ctx, budget, query, id, ownerID); err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", mapError(err))
	}
	return budget, nil
}

// ListBudgets returns budgets joined with category names
func (r *Repository) ListBudgets(ctx context.Context, ownerID int64, month models.Date) ([]models.BudgetView, error) {
	query := `
		SELECT b.id, b.user_id, b.category_id, b.name, b.amount_limit, b.month_period, b.created_at, b.updated_at,
		       c.name AS category_name, c.icon AS category_icon
		FROM finance.budgets b
		JOIN finance.categories c ON c.id = b.category_id
		WHERE b.user_id = $1 AND ($2::date IS NULL OR b.month_period = $2::date)
		ORDER BY b.month_period DESC, b.id`
	budgets := []models.BudgetView{}
	if err := r.q.SelectContext(ctx, &budgets, query, ownerID, month); err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", mapError(err))
	}
	return budgets, nil
}

// UpdateBudget overwrites category, name, limit and month
func (r *Repository) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	query := `
		UPDATE finance.budgets
		SET category_id = $1, name = $2, amount_limit = $3, month_period = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND user_id = $6
		RETURNING updated_at`
	err := r.q.QueryRowxContext(ctx, query,
		budget.CategoryID, budget.Name, budget.AmountLimit, budget.MonthPeriod, budget.ID, budget.UserID).
		Scan(&budget.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", mapError(err))
	}
	return nil
}

// DeleteBudget removes a budget
func (r *Repository) DeleteBudget(ctx context.Context, ownerID, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM finance.budgets WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", mapError(err))
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}
