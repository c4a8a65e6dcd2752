package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/store"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

const maxBudgetName = 100

// BudgetInput is the body of budget create and update calls. Update treats zero fields as unchanged.
type BudgetInput struct {
	CategoryID  int64           `json:"category_id"`
	Name        string          `json:"name"`
	AmountLimit decimal.Decimal `json:"amount_limit"`
	MonthPeriod string          `json:"month_period"`
}

func budgetName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > maxBudgetName {
		return "", validationf("name must be at most %d characters", maxBudgetName)
	}
	return name, nil
}

func (s *Service) budgetCategory(ctx context.Context, ownerID, id int64) error {
	category, err := s.store.GetCategory(ctx, ownerID, id)
	if err != nil {
		return mapMissing(err, "category")
	}
	if category.Archived() {
		return validationf("category %q is archived", category.Name)
	}
	if category.Type != models.Expense {
		return validationf("budgets can only track EXPENSE categories")
	}
	return nil
}

// CreateBudget sets a spending limit for one category and month. A second budget
// for the same category and month is rejected.
func (s *Service) CreateBudget(ctx context.Context, ownerID int64, in BudgetInput) (*models.Budget, error) {
	if in.CategoryID <= 0 {
		return nil, validationf("category_id is required")
	}
	name, err := budgetName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := positiveAmount("amount_limit", in.AmountLimit); err != nil {
		return nil, err
	}
	month := s.today().MonthStart()
	if in.MonthPeriod != "" {
		parsed, err := models.ParseMonth(in.MonthPeriod)
		if err != nil {
			return nil, validationf("%s", err)
		}
		month = parsed
	}
	if err := s.budgetCategory(ctx, ownerID, in.CategoryID); err != nil {
		return nil, s.fail(ctx, "create", "budget", ownerID, err)
	}

	budget := &models.Budget{
		UserID:      ownerID,
		CategoryID:  in.CategoryID,
		Name:        name,
		AmountLimit: in.AmountLimit,
		MonthPeriod: month,
	}
	if err := s.store.CreateBudget(ctx, budget); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, conflictf("a budget for this category already exists for %s", month.Format("2006-01"))
		}
		return nil, s.fail(ctx, "create", "budget", ownerID, err)
	}

	s.log.WithField("owner", ownerID).Infof("Budget %d created for %s", budget.ID, month)
	return budget, nil
}

// UpdateBudget changes name, limit, month or category of a budget
func (s *Service) UpdateBudget(ctx context.Context, ownerID, id int64, in BudgetInput) (*models.Budget, error) {
	budget, err := s.store.GetBudget(ctx, ownerID, id)
	if err != nil {
		return nil, s.fail(ctx, "get", "budget", ownerID, err)
	}

	if in.Name != "" {
		if budget.Name, err = budgetName(in.Name); err != nil {
			return nil, err
		}
	}
	if !in.AmountLimit.IsZero() {
		if err := positiveAmount("amount_limit", in.AmountLimit); err != nil {
			return nil, err
		}
		budget.AmountLimit = in.AmountLimit
	}
	if in.MonthPeriod != "" {
		month, err := models.ParseMonth(in.MonthPeriod)
		if err != nil {
			return nil, validationf("%s", err)
		}
		budget.MonthPeriod = month
	}
	if in.CategoryID != 0 && in.CategoryID != budget.CategoryID {
		if err := s.budgetCategory(ctx, ownerID, in.CategoryID); err != nil {
			return nil, s.fail(ctx, "update", "budget", ownerID, err)
		}
		budget.CategoryID = in.CategoryID
	}

	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, conflictf("a budget for this category already exists for %s", budget.MonthPeriod.Format("2006-01"))
		}
		return nil, s.fail(ctx, "update", "budget", ownerID, err)
	}
	return budget, nil
}

// DeleteBudget removes a budget
func (s *Service) DeleteBudget(ctx context.Context, ownerID, id int64) error {
	if err := s.store.DeleteBudget(ctx, ownerID, id); err != nil {
		return s.fail(ctx, "delete", "budget", ownerID, err)
	}
	return nil
}

// BudgetStatus lists budgets with spending aggregated from transactions at read time.
// An empty month lists every month.
func (s *Service) BudgetStatus(ctx context.Context, ownerID int64, month string) ([]models.BudgetStatus, error) {
	var period models.Date
	if month != "" {
		parsed, err := models.ParseMonth(month)
		if err != nil {
			return nil, validationf("%s", err)
		}
		period = parsed
	}

	budgets, err := s.store.ListBudgets(ctx, ownerID, period)
	if err != nil {
		return nil, s.fail(ctx, "list", "budget", ownerID, err)
	}

	spentByMonth := make(map[string]map[int64]decimal.Decimal)
	statuses := make([]models.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent, ok := spentByMonth[b.MonthPeriod.String()]
		if !ok {
			totals, err := s.store.SumByCategory(ctx, ownerID, models.Expense, b.MonthPeriod, b.MonthPeriod.AddMonths(1))
			if err != nil {
				return nil, s.fail(ctx, "status", "budget", ownerID, err)
			}
			spent = make(map[int64]decimal.Decimal, len(totals))
			for _, t := range totals {
				spent[t.CategoryID] = t.Total
			}
			spentByMonth[b.MonthPeriod.String()] = spent
		}
		statuses = append(statuses, budgetStatus(b, spent[b.CategoryID]))
	}
	return statuses, nil
}

// budgetStatus derives the spending figures of one budget
func budgetStatus(b models.BudgetView, spent decimal.Decimal) models.BudgetStatus {
	status := models.BudgetStatus{
		BudgetView:   b,
		AmountSpent:  spent,
		CurrentSpent: spent,
		Remaining:    b.AmountLimit.Sub(spent),
		OverBudget:   spent.GreaterThan(b.AmountLimit),
	}
	if b.AmountLimit.IsPositive() {
		status.Percentage = spent.Div(b.AmountLimit).Mul(hundred).Round(2).InexactFloat64()
	}
	status.DisplayPercentage = clampPercent(status.Percentage)
	return status
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// BudgetingSummary analyses one month of cash flow. An empty month means the current one.
func (s *Service) BudgetingSummary(ctx context.Context, ownerID int64, month string) (*models.BudgetingSummary, error) {
	period := s.today().MonthStart()
	if month != "" {
		parsed, err := models.ParseMonth(month)
		if err != nil {
			return nil, validationf("%s", err)
		}
		period = parsed
	}
	end := period.AddMonths(1)

	stats, err := s.store.SumByType(ctx, ownerID, period, end)
	if err != nil {
		return nil, s.fail(ctx, "summary", "budget", ownerID, err)
	}
	byCategory, err := s.store.SumByCategory(ctx, ownerID, models.Expense, period, end)
	if err != nil {
		return nil, s.fail(ctx, "summary", "budget", ownerID, err)
	}
	if byCategory == nil {
		byCategory = []models.CategoryTotal{}
	}

	summary := &models.BudgetingSummary{
		Month:      period.Format("2006-01"),
		Income:     stats.Income,
		Expense:    stats.Expense,
		Remaining:  stats.Income.Sub(stats.Expense),
		ByCategory: byCategory,
	}
	if len(byCategory) > 0 {
		biggest := byCategory[0]
		summary.BiggestExpense = &biggest
	}
	return summary, nil
}
