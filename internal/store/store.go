// Package store defines the persistence contract used by the service layer.
// Every owner-scoped method filters by owner id; rows of other owners behave as missing.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicate     = errors.New("duplicate key")
	ErrReferenced    = errors.New("still referenced")
	ErrSerialization = errors.New("serialization failure")
	ErrTimeout       = errors.New("statement timeout")
	ErrOutOfRange    = errors.New("numeric value out of range")
)

// Store is implemented by the PostgreSQL repository and the in-memory store.
type Store interface {
	// WithTx runs fn inside one atomic unit. Lock* methods only hold their
	// row locks for the duration of the enclosing WithTx.
	WithTx(ctx context.Context, fn func(Store) error) error

	Users
	Accounts
	Categories
	Transactions
	Budgets
	Goals
	Debts
	Bills
}

type Users interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

type Accounts interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	ListAccounts(ctx context.Context, ownerID int64) ([]models.Account, error)
	GetAccount(ctx context.Context, ownerID, id int64) (*models.Account, error)
	LockAccount(ctx context.Context, ownerID, id int64) (*models.Account, error)
	FindAccountByName(ctx context.Context, ownerID int64, name string) (*models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) error
	// AdjustBalance adds delta to the balance and returns the new balance.
	AdjustBalance(ctx context.Context, ownerID, id int64, delta decimal.Decimal) (decimal.Decimal, error)
	DeleteAccount(ctx context.Context, ownerID, id int64) error
	CountAccountTransactions(ctx context.Context, ownerID, accountID int64) (int, error)
	SumAccountPostings(ctx context.Context, ownerID, accountID int64) (decimal.Decimal, error)
}

type Categories interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	// ListCategories returns active categories only.
	ListCategories(ctx context.Context, ownerID int64) ([]models.Category, error)
	GetCategory(ctx context.Context, ownerID, id int64) (*models.Category, error)
	FindCategoryByName(ctx context.Context, ownerID int64, name string, typ models.TransactionType) (*models.Category, error)
	ArchiveCategory(ctx context.Context, ownerID, id int64) error
	CountCategoryBudgets(ctx context.Context, ownerID, categoryID int64) (int, error)
}

type Transactions interface {
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransaction(ctx context.Context, ownerID, id int64) (*models.Transaction, error)
	LockTransaction(ctx context.Context, ownerID, id int64) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *models.Transaction) error
	DeleteTransaction(ctx context.Context, ownerID, id int64) error
	// ListTransactions returns one page, newest first, and the total row count.
	ListTransactions(ctx context.Context, ownerID int64, filter models.TransactionFilter) ([]models.TransactionView, int, error)
	// ListTransactionsBetween returns rows dated in [from, to), oldest first. Zero bounds are open.
	ListTransactionsBetween(ctx context.Context, ownerID int64, from, to models.Date) ([]models.TransactionView, error)
	SumByCategory(ctx context.Context, ownerID int64, typ models.TransactionType, from, to models.Date) ([]models.CategoryTotal, error)
	SumByType(ctx context.Context, ownerID int64, from, to models.Date) (models.IncomeExpenseStats, error)
}

type Budgets interface {
	CreateBudget(ctx context.Context, budget *models.Budget) error
	GetBudget(ctx context.Context, ownerID, id int64) (*models.Budget, error)
	// ListBudgets lists budgets for one month, or all months when month is zero.
	ListBudgets(ctx context.Context, ownerID int64, month models.Date) ([]models.BudgetView, error)
	UpdateBudget(ctx context.Context, budget *models.Budget) error
	DeleteBudget(ctx context.Context, ownerID, id int64) error
}

type Goals interface {
	CreateGoal(ctx context.Context, goal *models.Goal) error
	GetGoal(ctx context.Context, ownerID, id int64) (*models.Goal, error)
	ListGoals(ctx context.Context, ownerID int64) ([]models.Goal, error)
	// UpdateGoal writes name, icon, target, deadline and priority. current_amount is left alone.
	UpdateGoal(ctx context.Context, goal *models.Goal) error
	AddToGoal(ctx context.Context, ownerID, id int64, amount decimal.Decimal) (*models.Goal, error)
	DeleteGoal(ctx context.Context, ownerID, id int64) error
}

type Debts interface {
	CreateDebt(ctx context.Context, debt *models.Debt) error
	GetDebt(ctx context.Context, ownerID, id int64) (*models.Debt, error)
	LockDebt(ctx context.Context, ownerID, id int64) (*models.Debt, error)
	ListDebts(ctx context.Context, ownerID int64) ([]models.Debt, error)
	// UpdateDebtBalance writes remaining_amount and status.
	UpdateDebtBalance(ctx context.Context, debt *models.Debt) error
	DeleteDebt(ctx context.Context, ownerID, id int64) error
	CreateDebtPayment(ctx context.Context, payment *models.DebtPayment) error
	ListDebtPayments(ctx context.Context, ownerID, debtID int64) ([]models.DebtPayment, error)
}

type Bills interface {
	CreateBill(ctx context.Context, bill *models.ScheduledBill) error
	GetBill(ctx context.Context, ownerID, id int64) (*models.ScheduledBill, error)
	ListBills(ctx context.Context, ownerID int64) ([]models.ScheduledBill, error)
	UpdateBill(ctx context.Context, bill *models.ScheduledBill) error
	DeleteBill(ctx context.Context, ownerID, id int64) error
	// ListBillsForReminder scans all owners for pending bills due on or before dueBy
	// that have not been reminded since remindedBefore.
	ListBillsForReminder(ctx context.Context, dueBy models.Date, remindedBefore time.Time) ([]models.ScheduledBill, error)
	MarkBillReminded(ctx context.Context, id int64, at time.Time) error
}
