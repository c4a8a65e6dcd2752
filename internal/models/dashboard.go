package models

import "github.com/shopspring/decimal"

// DashboardSummary is the landing page overview. Income and expense cover the
// current month while recent transactions follow the requested month.
type DashboardSummary struct {
	UserName           string              `json:"userName"`
	TotalBalance       decimal.Decimal     `json:"totalBalance"`
	MonthlyIncome      decimal.Decimal     `json:"monthlyIncome"`
	MonthlyExpense     decimal.Decimal     `json:"monthlyExpense"`
	RecentTransactions []TransactionView   `json:"recentTransactions"`
	UpcomingBills      []ScheduledBillView `json:"upcomingBills"`
}

// ChartPoint is one labelled value of a dashboard chart
type ChartPoint struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}
