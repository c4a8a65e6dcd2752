package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, user_id, name, type, opening_balance, balance, created_at, updated_at`

// CreateAccount creates a new account with balance equal to its opening balance
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO finance.accounts (user_id, name, type, opening_balance, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, balance, created_at, updated_at`
	err := r.q.QueryRowxContext(ctx, query, account.UserID, account.Name, account.Type, account.OpeningBalance).
		Scan(&account.ID, &account.Balance, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", mapError(err))
	}
	return nil
}

// ListAccounts returns all accounts of the owner
func (r *Repository) ListAccounts(ctx context.Context, ownerID int64) ([]models.Account, error) {
	accounts := []models.Account{}
	query := `SELECT ` + accountColumns + ` FROM finance.accounts WHERE user_id = $1 ORDER BY id`
	if err := r.q.SelectContext(ctx, &accounts, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", mapError(err))
	}
	return accounts, nil
}

// GetAccount retrieves one account of the owner
func (r *Repository) GetAccount(ctx context.Context, ownerID, id int64) (*models.Account, error) {
	account := &models.Account{}
	query := `SELECT ` + accountColumns + ` FROM finance.accounts WHERE id = $1 AND user_id = $2`
	if err := r.q.GetContext(ctx, account, query, id, ownerID); err != nil {
		return nil, fmt.Errorf("failed to get account: %w", mapError(err))
	}
	return account, nil
}

// LockAccount retrieves an account and locks its row until the transaction ends
func (r *Repository) LockAccount(ctx context.Context, ownerID, id int64) (*models.Account, error) {
	account := &models.Account{}
	query := `SELECT ` + accountColumns + ` FROM finance.accounts WHERE id = $1 AND user_id = $2 FOR UPDATE`
	if err := r.q.GetContext(ctx, account, query, id, ownerID); err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", mapError(err))
	}
	return account, nil
}

// FindAccountByName looks an account up by case-insensitive name
func (r *Repository) FindAccountByName(ctx context.Context, ownerID int64, name string) (*models.Account, error) {
	account := &models.Account{}
	query := `
		SELECT ` + accountColumns + `
		FROM finance.accounts
		WHERE user_id = $1 AND LOWER(name) = LOWER($2)
		ORDER BY id
		LIMIT 1`
	if err := r.q.GetContext(ctx, account, query, ownerID, name); err != nil {
		return nil, fmt.Errorf("failed to find account: %w", mapError(err))
	}
	return account, nil
}

// UpdateAccount updates name and type. Balance is never written here.
func (r *Repository) UpdateAccount(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE finance.accounts
		SET name = $1, type = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3 AND user_id = $4
		RETURNING ` + accountColumns
	err := r.q.GetContext(ctx, account, query, account.Name, account.Type, account.ID, account.UserID)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", mapError(err))
	}
	return nil
}

// AdjustBalance applies a signed delta to the account balance
func (r *Repository) AdjustBalance(ctx context.Context, ownerID, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	query := `
		UPDATE finance.accounts
		SET balance = balance + $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND user_id = $3
		RETURNING balance`
	if err := r.q.QueryRowxContext(ctx, query, delta, id, ownerID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to adjust balance: %w", mapError(err))
	}
	return balance, nil
}

// DeleteAccount removes an account
func (r *Repository) DeleteAccount(ctx context.Context, ownerID, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM finance.accounts WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", mapError(err))
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// CountAccountTransactions counts transactions posted against the account
func (r *Repository) CountAccountTransactions(ctx context.Context, ownerID, accountID int64) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM finance.transactions WHERE account_id = $1 AND user_id = $2`
	if err := r.q.GetContext(ctx, &n, query, accountID, ownerID); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", mapError(err))
	}
	return n, nil
}

// SumAccountPostings returns the signed sum of all postings against the account
func (r *Repository) SumAccountPostings(ctx context.Context, ownerID, accountID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount ELSE -amount END), 0)
		FROM finance.transactions
		WHERE account_id = $1 AND user_id = $2`
	if err := r.q.GetContext(ctx, &sum, query, accountID, ownerID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum postings: %w", mapError(err))
	}
	return sum, nil
}
