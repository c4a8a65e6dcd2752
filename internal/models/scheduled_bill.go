package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus is the stored state of a scheduled bill
type BillStatus string

const (
	BillPending BillStatus = "PENDING"
	BillPaid    BillStatus = "PAID"
)

// Valid reports whether s is a known bill status
func (s BillStatus) Valid() bool {
	return s == BillPending || s == BillPaid
}

// Display states derived at read time
const (
	BillDisplayPaid     = "paid"
	BillDisplayOverdue  = "overdue"
	BillDisplayDueToday = "due_today"
	BillDisplayPending  = "pending"
)

// ScheduledBill is a reminder for an upcoming payment. Marking it paid does not touch the ledger.
type ScheduledBill struct {
	ID         int64           `json:"id" db:"id"`
	UserID     int64           `json:"user_id" db:"user_id"`
	Title      string          `json:"title" db:"title"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	DueDate    Date            `json:"due_date" db:"due_date"`
	Status     BillStatus      `json:"status" db:"status"`
	RemindedAt *time.Time      `json:"reminded_at,omitempty" db:"reminded_at"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// DisplayStatus derives the presentation state relative to today
func (b ScheduledBill) DisplayStatus(today Date) string {
	switch {
	case b.Status == BillPaid:
		return BillDisplayPaid
	case b.DueDate.Before(today):
		return BillDisplayOverdue
	case b.DueDate.Equal(today):
		return BillDisplayDueToday
	}
	return BillDisplayPending
}

// ScheduledBillView is a bill with its derived display status
type ScheduledBillView struct {
	ScheduledBill
	DisplayStatus string `json:"display_status"`
}
