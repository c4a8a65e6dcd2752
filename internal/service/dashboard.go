package service

import (
	"context"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/shopspring/decimal"
)

const (
	dashboardRecentLimit = 10
	dashboardBillsLimit  = 3
	dashboardPieSlices   = 5
)

// Chart ranges
const (
	Range7D  = "7D"
	Range30D = "30D"
)

// Dashboard builds the overview for one owner. Month and year pick the month of
// the recent transactions list and default to the current month.
func (s *Service) Dashboard(ctx context.Context, ownerID int64, month, year int) (*models.DashboardSummary, error) {
	today := s.today()
	if month == 0 && year == 0 {
		month, year = int(today.Month()), today.Year()
	}

	user, err := s.store.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, s.fail(ctx, "get", "user", ownerID, err)
	}
	accounts, err := s.store.ListAccounts(ctx, ownerID)
	if err != nil {
		return nil, s.fail(ctx, "list", "account", ownerID, err)
	}
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}

	start := today.MonthStart()
	stats, err := s.store.SumByType(ctx, ownerID, start, start.AddMonths(1))
	if err != nil {
		return nil, s.fail(ctx, "summary", "transaction", ownerID, err)
	}

	recent, err := s.ListTransactions(ctx, ownerID, models.TransactionFilter{
		Page: 1, Limit: dashboardRecentLimit, Month: month, Year: year,
	})
	if err != nil {
		return nil, err
	}

	bills, err := s.store.ListBills(ctx, ownerID)
	if err != nil {
		return nil, s.fail(ctx, "list", "bill", ownerID, err)
	}
	upcoming := []models.ScheduledBillView{}
	for _, b := range bills {
		if b.Status != models.BillPending {
			continue
		}
		upcoming = append(upcoming, s.billView(b))
		if len(upcoming) == dashboardBillsLimit {
			break
		}
	}

	return &models.DashboardSummary{
		UserName:           user.FullName,
		TotalBalance:       total,
		MonthlyIncome:      stats.Income,
		MonthlyExpense:     stats.Expense,
		RecentTransactions: recent.Data,
		UpcomingBills:      upcoming,
	}, nil
}

// ExpenseChart returns daily expense totals for the last 7 or 30 days, oldest
// first, with days without spending reported as zero.
func (s *Service) ExpenseChart(ctx context.Context, ownerID int64, rng string) ([]models.ChartPoint, error) {
	days := 7
	switch strings.ToUpper(strings.TrimSpace(rng)) {
	case "", Range7D:
	case Range30D:
		days = 30
	default:
		return nil, validationf("range must be 7D or 30D")
	}

	today := s.today()
	from := today.AddDays(1 - days)
	rows, err := s.store.ListTransactionsBetween(ctx, ownerID, from, today.AddDays(1))
	if err != nil {
		return nil, s.fail(ctx, "chart", "transaction", ownerID, err)
	}
	perDay := map[string]decimal.Decimal{}
	for _, r := range rows {
		if r.Type == models.Expense {
			key := r.Date.String()
			perDay[key] = perDay[key].Add(r.Amount)
		}
	}

	points := make([]models.ChartPoint, 0, days)
	for d := from; !d.After(today); d = d.AddDays(1) {
		points = append(points, models.ChartPoint{
			Label: d.Format("02 Jan"),
			Value: perDay[d.String()],
		})
	}
	return points, nil
}

// ExpensePie returns the five expense categories with the highest spend this month
func (s *Service) ExpensePie(ctx context.Context, ownerID int64) ([]models.ChartPoint, error) {
	start := s.today().MonthStart()
	totals, err := s.store.SumByCategory(ctx, ownerID, models.Expense, start, start.AddMonths(1))
	if err != nil {
		return nil, s.fail(ctx, "pie", "transaction", ownerID, err)
	}
	if len(totals) > dashboardPieSlices {
		totals = totals[:dashboardPieSlices]
	}
	points := make([]models.ChartPoint, 0, len(totals))
	for _, t := range totals {
		points = append(points, models.ChartPoint{Label: t.Name, Value: t.Total})
	}
	return points, nil
}
