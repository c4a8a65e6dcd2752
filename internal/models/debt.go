package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtType distinguishes money owed by the user from money owed to the user
type DebtType string

const (
	DebtPayable    DebtType = "PAYABLE"
	DebtReceivable DebtType = "RECEIVABLE"
)

// Valid reports whether t is a known debt type
func (t DebtType) Valid() bool {
	return t == DebtPayable || t == DebtReceivable
}

// DebtStatus follows remaining_amount: PAID iff it is zero
type DebtStatus string

const (
	DebtUnpaid DebtStatus = "UNPAID"
	DebtPaid   DebtStatus = "PAID"
)

// Debt represents a payable or receivable with a stored remaining amount
type Debt struct {
	ID              int64           `json:"id" db:"id"`
	UserID          int64           `json:"user_id" db:"user_id"`
	Name            string          `json:"name" db:"name"`
	Type            DebtType        `json:"type" db:"type"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount" db:"remaining_amount"`
	DueDate         *Date           `json:"due_date" db:"due_date"`
	Description     string          `json:"description" db:"description"`
	Status          DebtStatus      `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// DebtPayment records one pay call. Applied is Amount clamped to what was outstanding.
type DebtPayment struct {
	ID      int64           `json:"id" db:"id"`
	DebtID  int64           `json:"debt_id" db:"debt_id"`
	UserID  int64           `json:"user_id" db:"user_id"`
	Amount  decimal.Decimal `json:"amount" db:"amount"`
	Applied decimal.Decimal `json:"applied" db:"applied"`
	PaidAt  time.Time       `json:"paid_at" db:"paid_at"`
}
