package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies transactions and budgets
type Category struct {
	ID         int64           `json:"id" db:"id"`
	UserID     int64           `json:"user_id" db:"user_id"`
	Name       string          `json:"name" db:"name"`
	Type       TransactionType `json:"type" db:"type"`
	Icon       string          `json:"icon" db:"icon"`
	ArchivedAt *time.Time      `json:"archived_at,omitempty" db:"archived_at"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// Archived reports whether the category was soft-deleted
func (c Category) Archived() bool {
	return c.ArchivedAt != nil
}

// CategoryTotal is an aggregated amount per category
type CategoryTotal struct {
	CategoryID int64           `json:"category_id" db:"category_id"`
	Name       string          `json:"name" db:"name"`
	Total      decimal.Decimal `json:"total" db:"total"`
}
