// Package memstore is an in-memory store.Store used for tests and local runs.
// A single mutex serializes access, so WithTx behaves like a serializable transaction
// and rolls back by restoring a snapshot when fn fails.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/store"
	"github.com/Dan9191/finance-service/internal/utils"
	"github.com/shopspring/decimal"
)

type data struct {
	seq          int64
	users        map[int64]models.User
	accounts     map[int64]models.Account
	categories   map[int64]models.Category
	transactions map[int64]models.Transaction
	budgets      map[int64]models.Budget
	goals        map[int64]models.Goal
	debts        map[int64]models.Debt
	payments     map[int64]models.DebtPayment
	bills        map[int64]models.ScheduledBill
}

func newData() *data {
	return &data{
		users:        map[int64]models.User{},
		accounts:     map[int64]models.Account{},
		categories:   map[int64]models.Category{},
		transactions: map[int64]models.Transaction{},
		budgets:      map[int64]models.Budget{},
		goals:        map[int64]models.Goal{},
		debts:        map[int64]models.Debt{},
		payments:     map[int64]models.DebtPayment{},
		bills:        map[int64]models.ScheduledBill{},
	}
}

func (d *data) clone() *data {
	return &data{
		seq:          d.seq,
		users:        cloneMap(d.users),
		accounts:     cloneMap(d.accounts),
		categories:   cloneMap(d.categories),
		transactions: cloneMap(d.transactions),
		budgets:      cloneMap(d.budgets),
		goals:        cloneMap(d.goals),
		debts:        cloneMap(d.debts),
		payments:     cloneMap(d.payments),
		bills:        cloneMap(d.bills),
	}
}

func cloneMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *data) nextID() int64 {
	d.seq++
	return d.seq
}

// Store keeps all rows in maps guarded by one mutex
type Store struct {
	mu   *sync.Mutex
	data *data
	inTx bool
	now  func() time.Time
}

var _ store.Store = (*Store)(nil)

// New creates an empty store
func New() *Store {
	return &Store{mu: &sync.Mutex{}, data: newData(), now: time.Now}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithTx holds the store lock for the whole of fn and restores the previous state on error
func (s *Store) WithTx(ctx context.Context, fn func(store.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrTimeout, err)
	}
	snapshot := s.data.clone()
	if err := fn(&Store{mu: s.mu, data: s.data, inTx: true, now: s.now}); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

func notFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, store.ErrNotFound)
}

// Users

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	defer s.lock()()
	for _, u := range s.data.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("%w: users_email_key", store.ErrDuplicate)
		}
	}
	user.ID = s.data.nextID()
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	s.data.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer s.lock()()
	for _, u := range s.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, notFound("user")
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	defer s.lock()()
	u, ok := s.data.users[id]
	if !ok {
		return nil, notFound("user")
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	defer s.lock()()
	if _, ok := s.data.users[user.ID]; !ok {
		return notFound("user")
	}
	for id, u := range s.data.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("%w: users_email_key", store.ErrDuplicate)
		}
	}
	user.UpdatedAt = s.now()
	s.data.users[user.ID] = *user
	return nil
}

// Accounts

func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	defer s.lock()()
	account.ID = s.data.nextID()
	account.Balance = account.OpeningBalance
	account.CreatedAt = s.now()
	account.UpdatedAt = account.CreatedAt
	s.data.accounts[account.ID] = *account
	return nil
}

func (s *Store) ListAccounts(ctx context.Context, ownerID int64) ([]models.Account, error) {
	defer s.lock()()
	accounts := []models.Account{}
	for _, a := range s.data.accounts {
		if a.UserID == ownerID {
			accounts = append(accounts, a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (s *Store) GetAccount(ctx context.Context, ownerID, id int64) (*models.Account, error) {
	defer s.lock()()
	a, ok := s.data.accounts[id]
	if !ok || a.UserID != ownerID {
		return nil, notFound("account")
	}
	return &a, nil
}

func (s *Store) LockAccount(ctx context.Context, ownerID, id int64) (*models.Account, error) {
	return s.GetAccount(ctx, ownerID, id)
}

func (s *Store) FindAccountByName(ctx context.Context, ownerID int64, name string) (*models.Account, error) {
	accounts, _ := s.ListAccounts(ctx, ownerID)
	for _, a := range accounts {
		if strings.EqualFold(a.Name, name) {
			return &a, nil
		}
	}
	return nil, notFound("account")
}

func (s *Store) UpdateAccount(ctx context.Context, account *models.Account) error {
	defer s.lock()()
	a, ok := s.data.accounts[account.ID]
	if !ok || a.UserID != account.UserID {
		return notFound("account")
	}
	a.Name = account.Name
	a.Type = account.Type
	a.UpdatedAt = s.now()
	s.data.accounts[a.ID] = a
	*account = a
	return nil
}

func (s *Store) AdjustBalance(ctx context.Context, ownerID, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	defer s.lock()()
	a, ok := s.data.accounts[id]
	if !ok || a.UserID != ownerID {
		return decimal.Zero, notFound("account")
	}
	a.Balance = a.Balance.Add(delta)
	a.UpdatedAt = s.now()
	s.data.accounts[id] = a
	return a.Balance, nil
}

func (s *Store) DeleteAccount(ctx context.Context, ownerID, id int64) error {
	defer s.lock()()
	a, ok := s.data.accounts[id]
	if !ok || a.UserID != ownerID {
		return notFound("account")
	}
	for _, t := range s.data.transactions {
		if t.AccountID == id {
			return fmt.Errorf("%w: transactions_account_id_fkey", store.ErrReferenced)
		}
	}
	delete(s.data.accounts, id)
	return nil
}

func (s *Store) CountAccountTransactions(ctx context.Context, ownerID, accountID int64) (int, error) {
	defer s.lock()()
	n := 0
	for _, t := range s.data.transactions {
		if t.UserID == ownerID && t.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (s *Store) SumAccountPostings(ctx context.Context, ownerID, accountID int64) (decimal.Decimal, error) {
	defer s.lock()()
	sum := decimal.Zero
	for _, t := range s.data.transactions {
		if t.UserID == ownerID && t.AccountID == accountID {
			sum = sum.Add(t.SignedAmount())
		}
	}
	return sum, nil
}

// Categories

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	defer s.lock()()
	category.ID = s.data.nextID()
	category.CreatedAt = s.now()
	s.data.categories[category.ID] = *category
	return nil
}

func (s *Store) ListCategories(ctx context.Context, ownerID int64) ([]models.Category, error) {
	defer s.lock()()
	categories := []models.Category{}
	for _, c := range s.data.categories {
		if c.UserID == ownerID && !c.Archived() {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		a, b := categories[i], categories[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return categories, nil
}

func (s *Store) GetCategory(ctx context.Context, ownerID, id int64) (*models.Category, error) {
	defer s.lock()()
	c, ok := s.data.categories[id]
	if !ok || c.UserID != ownerID {
		return nil, notFound("category")
	}
	return &c, nil
}

func (s *Store) FindCategoryByName(ctx context.Context, ownerID int64, name string, typ models.TransactionType) (*models.Category, error) {
	defer s.lock()()
	var found *models.Category
	for _, c := range s.data.categories {
		if c.UserID != ownerID || c.Archived() || c.Type != typ || !strings.EqualFold(c.Name, name) {
			continue
		}
		if found == nil || c.ID < found.ID {
			c := c
			found = &c
		}
	}
	if found == nil {
		return nil, notFound("category")
	}
	return found, nil
}

func (s *Store) ArchiveCategory(ctx context.Context, ownerID, id int64) error {
	defer s.lock()()
	c, ok := s.data.categories[id]
	if !ok || c.UserID != ownerID || c.Archived() {
		return notFound("category")
	}
	now := s.now()
	c.ArchivedAt = &now
	s.data.categories[id] = c
	return nil
}

func (s *Store) CountCategoryBudgets(ctx context.Context, ownerID, categoryID int64) (int, error) {
	defer s.lock()()
	n := 0
	for _, b := range s.data.budgets {
		if b.UserID == ownerID && b.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// Transactions

func (s *Store) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	defer s.lock()()
	if err := s.checkTransactionRefs(txn); err != nil {
		return err
	}
	txn.ID = s.data.nextID()
	txn.CreatedAt = s.now()
	txn.UpdatedAt = txn.CreatedAt
	s.data.transactions[txn.ID] = *txn
	return nil
}

func (s *Store) checkTransactionRefs(txn *models.Transaction) error {
	if _, ok := s.data.accounts[txn.AccountID]; !ok {
		return fmt.Errorf("%w: transactions_account_id_fkey", store.ErrReferenced)
	}
	if _, ok := s.data.categories[txn.CategoryID]; !ok {
		return fmt.Errorf("%w: transactions_category_id_fkey", store.ErrReferenced)
	}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, ownerID, id int64) (*models.Transaction, error) {
	defer s.lock()()
	t, ok := s.data.transactions[id]
	if !ok || t.UserID != ownerID {
		return nil, notFound("transaction")
	}
	return &t, nil
}

func (s *Store) LockTransaction(ctx context.Context, ownerID, id int64) (*models.Transaction, error) {
	return s.GetTransaction(ctx, ownerID, id)
}

func (s *Store) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	defer s.lock()()
	t, ok := s.data.transactions[txn.ID]
	if !ok || t.UserID != txn.UserID {
		return notFound("transaction")
	}
	if err := s.checkTransactionRefs(txn); err != nil {
		return err
	}
	txn.CreatedAt = t.CreatedAt
	txn.UpdatedAt = s.now()
	s.data.transactions[txn.ID] = *txn
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, ownerID, id int64) error {
	defer s.lock()()
	t, ok := s.data.transactions[id]
	if !ok || t.UserID != ownerID {
		return notFound("transaction")
	}
	delete(s.data.transactions, id)
	return nil
}

func (s *Store) view(t models.Transaction) models.TransactionView {
	return models.TransactionView{
		Transaction:  t,
		CategoryName: s.data.categories[t.CategoryID].Name,
		AccountName:  s.data.accounts[t.AccountID].Name,
	}
}

func (s *Store) ListTransactions(ctx context.Context, ownerID int64, filter models.TransactionFilter) ([]models.TransactionView, int, error) {
	defer s.lock()()
	all := []models.TransactionView{}
	for _, t := range s.data.transactions {
		if t.UserID != ownerID {
			continue
		}
		if filter.Month > 0 && filter.Year > 0 &&
			(int(t.Date.Month()) != filter.Month || t.Date.Year() != filter.Year) {
			continue
		}
		all = append(all, s.view(t))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.After(all[j].Date)
		}
		return all[i].ID > all[j].ID
	})

	total := len(all)
	start := utils.Offset(filter.Page, filter.Limit)
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func inRange(d, from, to models.Date) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && !d.Before(to) {
		return false
	}
	return true
}

func (s *Store) ListTransactionsBetween(ctx context.Context, ownerID int64, from, to models.Date) ([]models.TransactionView, error) {
	defer s.lock()()
	txns := []models.TransactionView{}
	for _, t := range s.data.transactions {
		if t.UserID == ownerID && inRange(t.Date, from, to) {
			txns = append(txns, s.view(t))
		}
	}
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.Before(txns[j].Date)
		}
		return txns[i].ID < txns[j].ID
	})
	return txns, nil
}

func (s *Store) SumByCategory(ctx context.Context, ownerID int64, typ models.TransactionType, from, to models.Date) ([]models.CategoryTotal, error) {
	defer s.lock()()
	byCategory := map[int64]decimal.Decimal{}
	for _, t := range s.data.transactions {
		if t.UserID == ownerID && t.Type == typ && inRange(t.Date, from, to) {
			byCategory[t.CategoryID] = byCategory[t.CategoryID].Add(t.Amount)
		}
	}
	totals := []models.CategoryTotal{}
	for id, total := range byCategory {
		totals = append(totals, models.CategoryTotal{CategoryID: id, Name: s.data.categories[id].Name, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if !totals[i].Total.Equal(totals[j].Total) {
			return totals[i].Total.GreaterThan(totals[j].Total)
		}
		return totals[i].CategoryID < totals[j].CategoryID
	})
	return totals, nil
}

func (s *Store) SumByType(ctx context.Context, ownerID int64, from, to models.Date) (models.IncomeExpenseStats, error) {
	defer s.lock()()
	stats := models.IncomeExpenseStats{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range s.data.transactions {
		if t.UserID != ownerID || !inRange(t.Date, from, to) {
			continue
		}
		if t.Type == models.Income {
			stats.Income = stats.Income.Add(t.Amount)
		} else {
			stats.Expense = stats.Expense.Add(t.Amount)
		}
	}
	stats.NetBalance = stats.Income.Sub(stats.Expense)
	return stats, nil
}

// Budgets

func (s *Store) budgetConflict(b *models.Budget) error {
	for id, other := range s.data.budgets {
		if id != b.ID && other.UserID == b.UserID && other.CategoryID == b.CategoryID &&
			other.MonthPeriod.Equal(b.MonthPeriod) {
			return fmt.Errorf("%w: budgets_user_category_month_key", store.ErrDuplicate)
		}
	}
	return nil
}

func (s *Store) CreateBudget(ctx context.Context, budget *models.Budget) error {
	defer s.lock()()
	if err := s.budgetConflict(budget); err != nil {
		return err
	}
	budget.ID = s.data.nextID()
	budget.CreatedAt = s.now()
	budget.UpdatedAt = budget.CreatedAt
	s.data.budgets[budget.ID] = *budget
	return nil
}

func (s *Store) GetBudget(ctx context.Context, ownerID, id int64) (*models.Budget, error) {
	defer s.lock()()
	b, ok := s.data.budgets[id]
	if !ok || b.UserID != ownerID {
		return nil, notFound("budget")
	}
	return &b, nil
}

func (s *Store) ListBudgets(ctx context.Context, ownerID int64, month models.Date) ([]models.BudgetView, error) {
	defer s.lock()()
	budgets := []models.BudgetView{}
	for _, b := range s.data.budgets {
		if b.UserID != ownerID || (!month.IsZero() && !b.MonthPeriod.Equal(month)) {
			continue
		}
		c := s.data.categories[b.CategoryID]
		budgets = append(budgets, models.BudgetView{Budget: b, CategoryName: c.Name, CategoryIcon: c.Icon})
	}
	sort.Slice(budgets, func(i, j int) bool {
		if !budgets[i].MonthPeriod.Equal(budgets[j].MonthPeriod) {
			return budgets[i].MonthPeriod.After(budgets[j].MonthPeriod)
		}
		return budgets[i].ID < budgets[j].ID
	})
	return budgets, nil
}

func (s *Store) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	defer s.lock()()
	b, ok := s.data.budgets[budget.ID]
	if !ok || b.UserID != budget.UserID {
		return notFound("budget")
	}
	if err := s.budgetConflict(budget); err != nil {
		return err
	}
	budget.CreatedAt = b.CreatedAt
	budget.UpdatedAt = s.now()
	s.data.budgets[budget.ID] = *budget
	return nil
}

func (s *Store) DeleteBudget(ctx context.Context, ownerID, id int64) error {
	defer s.lock()()
	b, ok := s.data.budgets[id]
	if !ok || b.UserID != ownerID {
		return notFound("budget")
	}
	delete(s.data.budgets, id)
	return nil
}

// Goals

func (s *Store) CreateGoal(ctx context.Context, goal *models.Goal) error {
	defer s.lock()()
	goal.ID = s.data.nextID()
	goal.CreatedAt = s.now()
	goal.UpdatedAt = goal.CreatedAt
	s.data.goals[goal.ID] = *goal
	return nil
}

func (s *Store) GetGoal(ctx context.Context, ownerID, id int64) (*models.Goal, error) {
	defer s.lock()()
	g, ok := s.data.goals[id]
	if !ok || g.UserID != ownerID {
		return nil, notFound("goal")
	}
	return &g, nil
}

func (s *Store) ListGoals(ctx context.Context, ownerID int64) ([]models.Goal, error) {
	defer s.lock()()
	goals := []models.Goal{}
	for _, g := range s.data.goals {
		if g.UserID == ownerID {
			goals = append(goals, g)
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
	return goals, nil
}

func (s *Store) UpdateGoal(ctx context.Context, goal *models.Goal) error {
	defer s.lock()()
	g, ok := s.data.goals[goal.ID]
	if !ok || g.UserID != goal.UserID {
		return notFound("goal")
	}
	g.Name = goal.Name
	g.Icon = goal.Icon
	g.TargetAmount = goal.TargetAmount
	g.Deadline = goal.Deadline
	g.Priority = goal.Priority
	g.UpdatedAt = s.now()
	s.data.goals[g.ID] = g
	*goal = g
	return nil
}

func (s *Store) AddToGoal(ctx context.Context, ownerID, id int64, amount decimal.Decimal) (*models.Goal, error) {
	defer s.lock()()
	g, ok := s.data.goals[id]
	if !ok || g.UserID != ownerID {
		return nil, notFound("goal")
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	g.UpdatedAt = s.now()
	s.data.goals[id] = g
	return &g, nil
}

func (s *Store) DeleteGoal(ctx context.Context, ownerID, id int64) error {
	defer s.lock()()
	g, ok := s.data.goals[id]
	if !ok || g.UserID != ownerID {
		return notFound("goal")
	}
	delete(s.data.goals, id)
	return nil
}

// Debts

func (s *Store) CreateDebt(ctx context.Context, debt *models.Debt) error {
	defer s.lock()()
	debt.ID = s.data.nextID()
	debt.CreatedAt = s.now()
	debt.UpdatedAt = debt.CreatedAt
	s.data.debts[debt.ID] = *debt
	return nil
}

func (s *Store) GetDebt(ctx context.Context, ownerID, id int64) (*models.Debt, error) {
	defer s.lock()()
	d, ok := s.data.debts[id]
	if !ok || d.UserID != ownerID {
		return nil, notFound("debt")
	}
	return &d, nil
}

func (s *Store) LockDebt(ctx context.Context, ownerID, id int64) (*models.Debt, error) {
	return s.GetDebt(ctx, ownerID, id)
}

func (s *Store) ListDebts(ctx context.Context, ownerID int64) ([]models.Debt, error) {
	defer s.lock()()
	debts := []models.Debt{}
	for _, d := range s.data.debts {
		if d.UserID == ownerID {
			debts = append(debts, d)
		}
	}
	sort.Slice(debts, func(i, j int) bool { return debts[i].ID < debts[j].ID })
	return debts, nil
}

func (s *Store) UpdateDebtBalance(ctx context.Context, debt *models.Debt) error {
	defer s.lock()()
	d, ok := s.data.debts[debt.ID]
	if !ok || d.UserID != debt.UserID {
		return notFound("debt")
	}
	d.RemainingAmount = debt.RemainingAmount
	d.Status = debt.Status
	d.UpdatedAt = s.now()
	s.data.debts[d.ID] = d
	debt.UpdatedAt = d.UpdatedAt
	return nil
}

func (s *Store) DeleteDebt(ctx context.Context, ownerID, id int64) error {
	defer s.lock()()
	d, ok := s.data.debts[id]
	if !ok || d.UserID != ownerID {
		return notFound("debt")
	}
	delete(s.data.debts, id)
	for pid, p := range s.data.payments {
		if p.DebtID == id {
			delete(s.data.payments, pid)
		}
	}
	return nil
}

func (s *Store) CreateDebtPayment(ctx context.Context, payment *models.DebtPayment) error {
	defer s.lock()()
	if _, ok := s.data.debts[payment.DebtID]; !ok {
		return fmt.Errorf("%w: debt_payments_debt_id_fkey", store.ErrReferenced)
	}
	payment.ID = s.data.nextID()
	payment.PaidAt = s.now()
	s.data.payments[payment.ID] = *payment
	return nil
}

func (s *Store) ListDebtPayments(ctx context.Context, ownerID, debtID int64) ([]models.DebtPayment, error) {
	defer s.lock()()
	payments := []models.DebtPayment{}
	for _, p := range s.data.payments {
		if p.UserID == ownerID && p.DebtID == debtID {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID < payments[j].ID })
	return payments, nil
}

// Bills

func (s *Store) CreateBill(ctx context.Context, bill *models.ScheduledBill) error {
	defer s.lock()()
	bill.ID = s.data.nextID()
	bill.CreatedAt = s.now()
	bill.UpdatedAt = bill.CreatedAt
	s.data.bills[bill.ID] = *bill
	return nil
}

func (s *Store) GetBill(ctx context.Context, ownerID, id int64) (*models.ScheduledBill, error) {
	defer s.lock()()
	b, ok := s.data.bills[id]
	if !ok || b.UserID != ownerID {
		return nil, notFound("bill")
	}
	return &b, nil
}

func sortBills(bills []models.ScheduledBill) {
	sort.Slice(bills, func(i, j int) bool {
		if !bills[i].DueDate.Equal(bills[j].DueDate) {
			return bills[i].DueDate.Before(bills[j].DueDate)
		}
		return bills[i].ID < bills[j].ID
	})
}

func (s *Store) ListBills(ctx context.Context, ownerID int64) ([]models.ScheduledBill, error) {
	defer s.lock()()
	bills := []models.ScheduledBill{}
	for _, b := range s.data.bills {
		if b.UserID == ownerID {
			bills = append(bills, b)
		}
	}
	sortBills(bills)
	return bills, nil
}

func (s *Store) UpdateBill(ctx context.Context, bill *models.ScheduledBill) error {
	defer s.lock()()
	b, ok := s.data.bills[bill.ID]
	if !ok || b.UserID != bill.UserID {
		return notFound("bill")
	}
	b.Title = bill.Title
	b.Amount = bill.Amount
	b.DueDate = bill.DueDate
	b.Status = bill.Status
	b.UpdatedAt = s.now()
	s.data.bills[b.ID] = b
	*bill = b
	return nil
}

func (s *Store) DeleteBill(ctx context.Context, ownerID, id int64) error {
	defer s.lock()()
	b, ok := s.data.bills[id]
	if !ok || b.UserID != ownerID {
		return notFound("bill")
	}
	delete(s.data.bills, id)
	return nil
}

func (s *Store) ListBillsForReminder(ctx context.Context, dueBy models.Date, remindedBefore time.Time) ([]models.ScheduledBill, error) {
	defer s.lock()()
	bills := []models.ScheduledBill{}
	for _, b := range s.data.bills {
		if b.Status != models.BillPending || b.DueDate.After(dueBy) {
			continue
		}
		if b.RemindedAt != nil && !b.RemindedAt.Before(remindedBefore) {
			continue
		}
		bills = append(bills, b)
	}
	sortBills(bills)
	return bills, nil
}

func (s *Store) MarkBillReminded(ctx context.Context, id int64, at time.Time) error {
	defer s.lock()()
	b, ok := s.data.bills[id]
	if !ok {
		return notFound("bill")
	}
	b.RemindedAt = &at
	s.data.bills[id] = b
	return nil
}
