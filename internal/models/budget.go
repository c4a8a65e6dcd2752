package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a spending limit for one category in one month
type Budget struct {
	ID          int64           `json:"id" db:"id"`
	UserID      int64           `json:"user_id" db:"user_id"`
	CategoryID  int64           `json:"category_id" db:"category_id"`
	Name        string          `json:"name" db:"name"`
	AmountLimit decimal.Decimal `json:"amount_limit" db:"amount_limit"`
	MonthPeriod Date            `json:"month_period" db:"month_period"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// BudgetView is a budget joined with its category name
type BudgetView struct {
	Budget
	CategoryName string `json:"category_name" db:"category_name"`
	CategoryIcon string `json:"category_icon" db:"category_icon"`
}

// BudgetStatus carries the spending derived from transactions at read time.
// Percentage is raw and may exceed 100; DisplayPercentage is clamped to [0,100].
type BudgetStatus struct {
	BudgetView
	AmountSpent       decimal.Decimal `json:"amount_spent"`
	CurrentSpent      decimal.Decimal `json:"current_spent"`
	Remaining         decimal.Decimal `json:"remaining"`
	Percentage        float64         `json:"percentage"`
	DisplayPercentage float64         `json:"display_percentage"`
	OverBudget        bool            `json:"over_budget"`
}
