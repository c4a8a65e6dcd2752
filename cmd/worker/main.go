package main

import (
	"context"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/database"
	"github.com/Dan9191/finance-service/internal/repository"
	"github.com/Dan9191/finance-service/internal/utils/email"
	"github.com/Dan9191/finance-service/internal/worker"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if logLevel, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(logLevel)
	}
	if cfg.Store != "postgres" {
		logger.Fatal("Worker requires STORE=postgres")
	}
	if cfg.RedisAddr == "" {
		logger.Fatal("Worker requires REDIS_ADDR for the task queue")
	}

	// Initialize database
	db, err := database.NewPostgres(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	repo := repository.NewRepository(db, cfg.StatementTimeout)

	redisOpt := database.AsynqRedis(cfg)
	client := asynq.NewClient(redisOpt)
	defer client.Close()

	// Create Asynq server
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
		Queues: map[string]int{
			"default": 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.WithField("task", task.Type()).Errorf("Error processing task: %v", err)
		}),
		Logger: logger,
	})

	// Register task handlers
	mux := asynq.NewServeMux()
	worker.RegisterHandlers(mux, worker.NewReminderHandler(repo, email.NewSender(cfg, logger), logger))

	// Schedule the reminder scan
	scheduler := worker.NewScheduler(repo, client, cfg, logger)
	c := cron.New()
	if err := scheduler.Register(c); err != nil {
		logger.Fatalf("Invalid REMINDER_CRON %q: %v", cfg.ReminderCron, err)
	}
	c.Start()

	// Run blocks until SIGINT or SIGTERM and then drains in-flight tasks
	logger.Infof("Worker starting with concurrency: %d", cfg.WorkerConcurrency)
	if err := srv.Run(mux); err != nil {
		logger.Fatalf("Failed to start worker: %v", err)
	}
	<-c.Stop().Done()
	logger.Info("Worker exited")
}
