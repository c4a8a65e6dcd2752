package models

import "github.com/shopspring/decimal"

// IncomeExpenseStats represents income and expense totals for a period
type IncomeExpenseStats struct {
	Income     decimal.Decimal `json:"income" db:"income"`
	Expense    decimal.Decimal `json:"expense" db:"expense"`
	NetBalance decimal.Decimal `json:"net_balance" db:"-"`
}

// BudgetingSummary is the monthly cash-flow analysis
type BudgetingSummary struct {
	Month          string          `json:"month"`
	Income         decimal.Decimal `json:"income"`
	Expense        decimal.Decimal `json:"expense"`
	Remaining      decimal.Decimal `json:"remaining"`
	BiggestExpense *CategoryTotal  `json:"biggest_expense"`
	ByCategory     []CategoryTotal `json:"by_category"`
}

// ForecastStats describes how much history is available for forecasting
type ForecastStats struct {
	TotalCount      int             `json:"total_count"`
	IncomeCount     int             `json:"income_count"`
	ExpenseCount    int             `json:"expense_count"`
	DataSufficiency DataSufficiency `json:"data_sufficiency"`
}

// DataSufficiency tells whether a forecast can be requested
type DataSufficiency struct {
	MinRequired  int  `json:"minRequired"`
	HasIncome    bool `json:"hasIncome"`
	IsSufficient bool `json:"isSufficient"`
}

// ImportResult summarises a CSV import
type ImportResult struct {
	Imported          int      `json:"imported"`
	CreatedAccounts   []string `json:"created_accounts"`
	CreatedCategories []string `json:"created_categories"`
}
