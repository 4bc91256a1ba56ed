package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"tally/internal/amqp"
	"tally/internal/cache"
	"tally/internal/cli"
	"tally/internal/core"
	applog "tally/internal/log"
	"tally/internal/services"
	"tally/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting tally-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo := cli.OpenRepository(logger, cfg)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	budgetCache := cache.NewLRU[[]core.Budget](cfg.BudgetCacheSize, cfg.BudgetCacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(budgetCache)
	cacheManager.StartCleanup(cfg.CleanupInterval)
	defer cacheManager.Stop()

	monitor := services.NewBudgetMonitor(repo, budgetCache)
	alertWorker := worker.NewAlertWorker(monitor, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return amqpClient.ConsumeEntryEvents(ctx, alertWorker.HandleEntryEvent)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
