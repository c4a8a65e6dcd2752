package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/shopspring/decimal"
)

const goalColumns = `id, user_id, name, icon, target_amount, current_amount, deadline, priority, created_at, updated_at`

// CreateGoal inserts a savings goal
func (r *Repository) CreateGoal(ctx context.Context, goal *models.Goal) error {
	query := `
		INSERT INTO finance.goals (user_id, name, icon, target_amount, current_amount, deadline, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRowxContext(ctx, query,
		goal.UserID, goal.Name, goal.Icon, goal.TargetAmount, goal.CurrentAmount, goal.Deadline, goal.Priority).
		Scan(&goal.ID, &goal.CreatedAt, &goal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", mapError(err))
	}
	return nil
}

// GetGoal retrieves one goal of the owner
func (r *Repository) GetGoal(ctx context.Context, ownerID, id int64) (*models.Goal, error) {
	goal := &models.Goal{}
	query := `SELECT ` + goalColumns + ` FROM finance.goals WHERE id = $1 AND user_id = $2`
	if err := r.q.GetContext(ctx, goal, query, id, ownerID); err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", mapError(err))
	}
	return goal, nil
}

// ListGoals returns the owner's goals
func (r *Repository) ListGoals(ctx context.Context, ownerID int64) ([]models.Goal, error) {
	goals := []models.Goal{}
	query := `SELECT ` + goalColumns + ` FROM finance.goals WHERE user_id = $1 ORDER BY id`
	if err := r.q.SelectContext(ctx, &goals, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", mapError(err))
	}
	return goals, nil
}

// UpdateGoal writes the descriptive fields; current_amount only moves through AddToGoal
func (r *Repository) UpdateGoal(ctx context.Context, goal *models.Goal) error {
	query := `
		UPDATE finance.goals
		SET name = $1, icon = $2, target_amount = $3, deadline = $4, priority = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6 AND user_id = $7
		RETURNING ` + goalColumns
	err := r.q.GetContext(ctx, goal, query,
		goal.Name, goal.Icon, goal.TargetAmount, goal.Deadline, goal.Priority, goal.ID, goal.UserID)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", mapError(err))
	}
	return nil
}

// AddToGoal increments current_amount in a single statement
func (r *Repository) AddToGoal(ctx context.Context, ownerID, id int64, amount decimal.Decimal) (*models.Goal, error) {
	goal := &models.Goal{}
	query := `
		UPDATE finance.goals
		SET current_amount = current_amount + $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND user_id = $3
		RETURNING ` + goalColumns
	if err := r.q.GetContext(ctx, goal, query, amount, id, ownerID); err != nil {
		return nil, fmt.Errorf("failed to deposit to goal: %w", mapError(err))
	}
	return goal, nil
}

// DeleteGoal removes a goal
func (r *Repository) DeleteGoal(ctx context.Context, ownerID, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM finance.goals WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", mapError(err))
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}
