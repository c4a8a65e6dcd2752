package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/finance-service/internal/models"
)

const categoryColumns = `id, user_id, name, type, icon, archived_at, created_at`

// CreateCategory creates a new category
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO finance.categories (user_id, name, type, icon, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.q.QueryRowxContext(ctx, query, category.UserID, category.Name, category.Type, category.Icon).
		Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", mapError(err))
	}
	return nil
}

// ListCategories returns the owner's active categories
func (r *Repository) ListCategories(ctx context.Context, ownerID int64) ([]models.Category, error) {
	categories := []models.Category{}
	query := `
		SELECT ` + categoryColumns + `
		FROM finance.categories
		WHERE user_id = $1 AND archived_at IS NULL
		ORDER BY type, name, id`
	if err := r.q.SelectContext(ctx, &categories, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", mapError(err))
	}
	return categories, nil
}

// GetCategory retrieves a category, archived or not
func (r *Repository) GetCategory(ctx context.Context, ownerID, id int64) (*models.Category, error) {
	category := &models.Category{}
	query := `SELECT ` + categoryColumns + ` FROM finance.categories WHERE id = $1 AND user_id = $2`
	if err := r.q.GetContext(ctx, category, query, id, ownerID); err != nil {
		return nil, fmt.Errorf("failed to get category: %w", mapError(err))
	}
	return category, nil
}

// FindCategoryByName looks an active category up by case-insensitive name and type
func (r *Repository) FindCategoryByName(ctx context.Context, ownerID int64, name string, typ models.TransactionType) (*models.Category, error) {
	category := &models.Category{}
	query := `
		SELECT ` + categoryColumns + `
		FROM finance.categories
		WHERE user_id = $1 AND LOWER(name) = LOWER($2) AND type = $3 AND archived_at IS NULL
		ORDER BY id
		LIMIT 1`
	if err := r.q.GetContext(ctx, category, query, ownerID, name, typ); err != nil {
		return nil, fmt.Errorf("failed to find category: %w", mapError(err))
	}
	return category, nil
}

// ArchiveCategory soft-deletes a category so history keeps its reference
func (r *Repository) ArchiveCategory(ctx context.Context, ownerID, id int64) error {
	query := `
		UPDATE finance.categories
		SET archived_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2 AND archived_at IS NULL`
	res, err := r.q.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to archive category: %w", mapError(err))
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("failed to archive category: %w", err)
	}
	return nil
}

// CountCategoryBudgets counts budgets referencing the category
func (r *Repository) CountCategoryBudgets(ctx context.Context, ownerID, categoryID int64) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM finance.budgets WHERE category_id = $1 AND user_id = $2`
	if err := r.q.GetContext(ctx, &n, query, categoryID, ownerID); err != nil {
		return 0, fmt.Errorf("failed to count budgets: %w", mapError(err))
	}
	return n, nil
}
