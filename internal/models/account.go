package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies where money is held
type AccountType string

const (
	AccountBank    AccountType = "BANK"
	AccountEWallet AccountType = "E-WALLET"
	AccountCash    AccountType = "CASH"
)

// Valid reports whether t is a known account type
func (t AccountType) Valid() bool {
	switch t {
	case AccountBank, AccountEWallet, AccountCash:
		return true
	}
	return false
}

// Icon returns the display icon tag for the account type
func (t AccountType) Icon() string {
	switch t {
	case AccountBank:
		return "building-columns"
	case AccountEWallet:
		return "wallet"
	}
	return "money-bill-wave"
}

// Account represents a wallet or bank account owned by a user
type Account struct {
	ID             int64           `json:"id" db:"id"`
	UserID         int64           `json:"user_id" db:"user_id"`
	Name           string          `json:"name" db:"name"`
	Type           AccountType     `json:"type" db:"type"`
	OpeningBalance decimal.Decimal `json:"opening_balance" db:"opening_balance"`
	Balance        decimal.Decimal `json:"balance" db:"balance"`
	Icon           string          `json:"icon" db:"-"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// AccountReconciliation compares the stored balance with the ledger
type AccountReconciliation struct {
	AccountID      int64           `json:"account_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	LedgerSum      decimal.Decimal `json:"ledger_sum"`
	Expected       decimal.Decimal `json:"expected"`
	Balance        decimal.Decimal `json:"balance"`
	Consistent     bool            `json:"consistent"`
}
