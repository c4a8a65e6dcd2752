package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/utils"
)

const transactionColumns = `id, user_id, account_id, category_id, title, amount, type, transaction_date, created_at, updated_at`

const transactionViewSelect = `
	SELECT t.id, t.user_id, t.account_id, t.category_id, t.title, t.amount, t.type,
	       t.transaction_date, t.created_at, t.updated_at,
	       c.name AS category_name, a.name AS account_name
	FROM finance.transactions t
	JOIN finance.categories c ON c.id = t.category_id
	JOIN finance.accounts a ON a.id = t.account_id`

// CreateTransaction inserts a transaction row. Balance adjustment is the caller's job.
func (r *Repository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO finance.transactions
			(user_id, account_id, category_id, title, amount, type, transaction_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRowxContext(ctx, query,
		txn.UserID, txn.AccountID, txn.CategoryID, txn.Title, txn.Amount, txn.Type, txn.Date).
		Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", mapError(err))
	}
	return nil
}

// GetTransaction retrieves one transaction of the owner
func (r *Repository) GetTransaction(ctx context.Context, ownerID, id int64) (*models.Transaction, error) {
	txn := &models.Transaction{}
	query := `SELECT ` + transactionColumns + ` FROM finance.transactions WHERE id = $1 AND user_id = $2`
	if err := r.q.GetContext(ctx, txn, query, id, ownerID); err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", mapError(err))
	}
	return txn, nil
}

// LockTransaction retrieves a transaction and locks its row
func (r *Repository) LockTransaction(ctx context.Context, ownerID, id int64) (*models.Transaction, error) {
	txn := &models.Transaction{}
	query := `SELECT ` + transactionColumns + ` FROM finance.transactions WHERE id = $1 AND user_id = $2 FOR UPDATE`
	if err := r.q.GetContext(ctx, txn, query, id, ownerID); err != nil {
		return nil, fmt.Errorf("failed to lock transaction: %w", mapError(err))
	}
	return txn, nil
}

// UpdateTransaction overwrites the editable fields of a transaction
func (r *Repository) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		UPDATE finance.transactions
		SET account_id = $1, category_id = $2, title = $3, amount = $4, type = $5,
		    transaction_date = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $7 AND user_id = $8
		RETURNING updated_at`
	err := r.q.QueryRowxContext(ctx, query,
		txn.AccountID, txn.CategoryID, txn.Title, txn.Amount, txn.Type, txn.Date, txn.ID, txn.UserID).
		Scan(&txn.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", mapError(err))
	}
	return nil
}

// DeleteTransaction removes a transaction row
func (r *Repository) DeleteTransaction(ctx context.Context, ownerID, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM finance.transactions WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", mapError(err))
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// ListTransactions returns one page of the owner's transactions, newest first
func (r *Repository) ListTransactions(ctx context.Context, ownerID int64, filter models.TransactionFilter) ([]models.TransactionView, int, error) {
	where := ` WHERE t.user_id = $1`
	args := []interface{}{ownerID}
	if filter.Month > 0 && filter.Year > 0 {
		where += ` AND EXTRACT(MONTH FROM t.transaction_date) = $2 AND EXTRACT(YEAR FROM t.transaction_date) = $3`
		args = append(args, filter.Month, filter.Year)
	}

	var total int
	if err := r.q.GetContext(ctx, &total, `SELECT COUNT(*) FROM finance.transactions t`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", mapError(err))
	}

	query := transactionViewSelect + where +
		fmt.Sprintf(` ORDER BY t.transaction_date DESC, t.id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, utils.Offset(filter.Page, filter.Limit))

	txns := []models.TransactionView{}
	if err := r.q.SelectContext(ctx, &txns, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", mapError(err))
	}
	return txns, total, nil
}

// ListTransactionsBetween returns transactions dated in [from, to), oldest first
func (r *Repository) ListTransactionsBetween(ctx context.Context, ownerID int64, from, to models.Date) ([]models.TransactionView, error) {
	query := transactionViewSelect + `
		WHERE t.user_id = $1
		  AND ($2::date IS NULL OR t.transaction_date >= $2::date)
		  AND ($3::date IS NULL OR t.transaction_date < $3::date)
		ORDER BY t.transaction_date, t.id`
	txns := []models.TransactionView{}
	if err := r.q.SelectContext(ctx, &txns, query, ownerID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", mapError(err))
	}
	return txns, nil
}

// SumByCategory aggregates amounts of one type per category over [from, to), largest first
func (r *Repository) SumByCategory(ctx context.Context, ownerID int64, typ models.TransactionType, from, to models.Date) ([]models.CategoryTotal, error) {
	query := `
		SELECT t.category_id, c.name, SUM(t.amount) AS total
		FROM finance.transactions t
		JOIN finance.categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.type = $2
		  AND t.transaction_date >= $3 AND t.transaction_date < $4
		GROUP BY t.category_id, c.name
		ORDER BY total DESC, t.category_id`
	totals := []models.CategoryTotal{}
	if err := r.q.SelectContext(ctx, &totals, query, ownerID, typ, from, to); err != nil {
		return nil, fmt.Errorf("failed to sum by category: %w", mapError(err))
	}
	return totals, nil
}

// SumByType returns income and expense totals over [from, to)
func (r *Repository) SumByType(ctx context.Context, ownerID int64, from, to models.Date) (models.IncomeExpenseStats, error) {
	var stats models.IncomeExpenseStats
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'INCOME'), 0) AS income,
			COALESCE(SUM(amount) FILTER (WHERE type = 'EXPENSE'), 0) AS expense
		FROM finance.transactions
		WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date < $3`
	if err := r.q.GetContext(ctx, &stats, query, ownerID, from, to); err != nil {
		return stats, fmt.Errorf("failed to sum by type: %w", mapError(err))
	}
	stats.NetBalance = stats.Income.Sub(stats.Expense)
	return stats, nil
}
