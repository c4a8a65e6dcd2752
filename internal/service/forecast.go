package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/finance-service/internal/integrations/forecast"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/sirupsen/logrus"
)

// Forecast modes accepted by the prediction engine
const (
	ModeWeekly  = "weekly"
	ModeMonthly = "monthly"
)

const forecastWindowDays = 365

// Cached forecasts are keyed by a per-owner generation that every ledger change
// bumps. A result computed before a bump is stored under the old generation and
// never read again.
func forecastGenerationKey(ownerID int64) string {
	return fmt.Sprintf("forecast:%d:gen", ownerID)
}

func forecastCacheKey(ownerID int64, mode, generation string) string {
	return fmt.Sprintf("forecast:%d:%s:%s", ownerID, mode, generation)
}

func (s *Service) forecastKey(ctx context.Context, ownerID int64, mode string) (string, error) {
	gen, ok, err := s.cache.Get(ctx, forecastGenerationKey(ownerID))
	if err != nil {
		return "", err
	}
	if !ok {
		gen = []byte("0")
	}
	return forecastCacheKey(ownerID, mode, string(gen)), nil
}

// forecastHistory loads the transactions inside the forecast window
func (s *Service) forecastHistory(ctx context.Context, ownerID int64) ([]models.TransactionView, error) {
	today := s.today()
	from := today.AddDays(-forecastWindowDays)
	rows, err := s.store.ListTransactionsBetween(ctx, ownerID, from, today.AddDays(1))
	if err != nil {
		return nil, s.fail(ctx, "history", "forecast", ownerID, err)
	}
	return rows, nil
}

func countByType(rows []models.TransactionView) (income, expense int) {
	for _, r := range rows {
		if r.Type == models.Income {
			income++
		} else {
			expense++
		}
	}
	return income, expense
}

// Forecast asks the prediction engine for a cash-flow forecast over the last year of history
func (s *Service) Forecast(ctx context.Context, ownerID int64, mode string) (*forecast.Result, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = ModeMonthly
	}
	if mode != ModeWeekly && mode != ModeMonthly {
		return nil, validationf("mode must be weekly or monthly")
	}
	if s.forecaster == nil {
		return nil, unavailable("forecast unavailable")
	}

	logger := s.log.WithFields(logrus.Fields{"owner": ownerID, "mode": mode})
	var key string
	if s.cache != nil {
		var err error
		if key, err = s.forecastKey(ctx, ownerID, mode); err != nil {
			logger.WithError(err).Warn("Forecast cache read failed")
		} else if cached, ok, err := s.cache.Get(ctx, key); err != nil {
			logger.WithError(err).Warn("Forecast cache read failed")
		} else if ok {
			var result forecast.Result
			if err := json.Unmarshal(cached, &result); err == nil && result.Metadata != nil {
				result.Metadata.Cached = true
				return &result, nil
			}
		}
	}

	rows, err := s.forecastHistory(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(rows) < s.config.ForecastMinTransactions {
		return nil, validationf("insufficient data: at least %d transactions in the last year are required, found %d",
			s.config.ForecastMinTransactions, len(rows))
	}

	points := make([]forecast.Point, 0, len(rows))
	for _, r := range rows {
		points = append(points, forecast.Point{
			Date:   r.Date.String(),
			Amount: r.Amount.InexactFloat64(),
			Type:   string(r.Type),
		})
	}

	start := time.Now()
	result, err := s.forecaster.Analyze(ctx, forecast.Request{Transactions: points, Mode: mode, UserID: ownerID})
	if err != nil {
		logger.WithError(err).Error("Forecast engine request failed")
		return nil, unavailable("forecast unavailable")
	}

	income, expense := countByType(rows)
	if result.Metadata == nil {
		result.Metadata = &forecast.Metadata{}
	}
	result.Metadata.UserID = ownerID
	result.Metadata.Mode = mode
	result.Metadata.DataPointsUsed = len(rows)
	result.Metadata.IncomeCount = income
	result.Metadata.ExpenseCount = expense
	result.Metadata.ProcessingTime = time.Since(start).Round(time.Millisecond).String()

	if key != "" {
		if b, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, key, b, s.config.ForecastCacheTTL); err != nil {
				logger.WithError(err).Warn("Forecast cache write failed")
			}
		}
	}
	return result, nil
}

// ForecastStats reports how much history is available for a forecast
func (s *Service) ForecastStats(ctx context.Context, ownerID int64) (*models.ForecastStats, error) {
	rows, err := s.forecastHistory(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	income, expense := countByType(rows)
	minRequired := s.config.ForecastMinTransactions
	return &models.ForecastStats{
		TotalCount:   len(rows),
		IncomeCount:  income,
		ExpenseCount: expense,
		DataSufficiency: models.DataSufficiency{
			MinRequired:  minRequired,
			HasIncome:    income > 0,
			IsSufficient: len(rows) >= minRequired,
		},
	}, nil
}

// ForecastHealth probes the prediction engine
func (s *Service) ForecastHealth(ctx context.Context) (json.RawMessage, error) {
	if s.forecaster == nil {
		return nil, unavailable("forecast unavailable")
	}
	body, err := s.forecaster.Health(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Forecast engine health check failed")
		return nil, unavailable("forecast unavailable")
	}
	return body, nil
}

// invalidateForecast retires cached forecasts after the owner's ledger changed
func (s *Service) invalidateForecast(ctx context.Context, ownerID int64) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, forecastGenerationKey(ownerID)); err != nil {
		s.log.WithError(err).WithField("owner", ownerID).Warn("Forecast cache invalidation failed")
	}
}
