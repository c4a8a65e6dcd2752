package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/integrations/forecast"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/store"
	"github.com/sirupsen/logrus"
)

// Forecaster is the prediction engine collaborator
type Forecaster interface {
	Analyze(ctx context.Context, req forecast.Request) (*forecast.Result, error)
	Health(ctx context.Context) (json.RawMessage, error)
}

// Cache stores serialized values with a TTL and keeps atomic counters
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// Service handles business logic
type Service struct {
	store      store.Store
	log        *logrus.Logger
	config     *config.Config
	forecaster Forecaster
	cache      Cache
	now        func() time.Time
}

// Option customizes a Service
type Option func(*Service)

// WithForecaster sets the prediction engine client
func WithForecaster(f Forecaster) Option {
	return func(s *Service) { s.forecaster = f }
}

// WithCache enables forecast caching
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService initializes a new service
func NewService(st store.Store, log *logrus.Logger, cfg *config.Config, opts ...Option) *Service {
	s := &Service{store: st, log: log, config: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() models.Date {
	return models.DateOf(s.now())
}
