package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalPriority ranks savings goals
type GoalPriority string

const (
	PriorityHigh   GoalPriority = "HIGH"
	PriorityMedium GoalPriority = "MEDIUM"
	PriorityLow    GoalPriority = "LOW"
)

// Valid reports whether p is a known priority
func (p GoalPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Goal is a savings target with a stored running total
type Goal struct {
	ID            int64           `json:"id" db:"id"`
	UserID        int64           `json:"user_id" db:"user_id"`
	Name          string          `json:"name" db:"name"`
	Icon          string          `json:"icon" db:"icon"`
	TargetAmount  decimal.Decimal `json:"target_amount" db:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount" db:"current_amount"`
	Deadline      *Date           `json:"deadline" db:"deadline"`
	Priority      GoalPriority    `json:"priority" db:"priority"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// GoalView adds progress figures. Progress is unclamped, DisplayProgress stops at 100.
type GoalView struct {
	Goal
	Progress        float64         `json:"progress"`
	DisplayProgress float64         `json:"display_progress"`
	Remaining       decimal.Decimal `json:"remaining"`
	Reached         bool            `json:"reached"`
}
