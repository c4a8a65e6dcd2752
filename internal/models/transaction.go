package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a posting
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// Valid reports whether t is INCOME or EXPENSE
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Transaction represents an income or expense posted against one account
type Transaction struct {
	ID         int64           `json:"id" db:"id"`
	UserID     int64           `json:"user_id" db:"user_id"`
	AccountID  int64           `json:"account_id" db:"account_id"`
	CategoryID int64           `json:"category_id" db:"category_id"`
	Title      string          `json:"title" db:"title"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Type       TransactionType `json:"type" db:"type"`
	Date       Date            `json:"transaction_date" db:"transaction_date"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// SignedAmount is the effect of the transaction on its account balance
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == Income {
		return t.Amount
	}
	return t.Amount.Neg()
}

// TransactionView is a transaction joined with display names
type TransactionView struct {
	Transaction
	CategoryName string `json:"category_name" db:"category_name"`
	AccountName  string `json:"account_name" db:"account_name"`
}

// TransactionFilter narrows a paginated transaction listing
type TransactionFilter struct {
	Page  int
	Limit int
	Month int
	Year  int
}

// Pagination describes a page of results
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
}

// Page wraps a slice of results with pagination metadata
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
