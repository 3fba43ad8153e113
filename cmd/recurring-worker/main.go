package main

import (
	"context"
	"os"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/cache"
	"ledger/internal/cli"
	"ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel).With(log.FieldComponent, log.ComponentWorker)

	logger.Info("Starting recurring-worker")

	if !cfg.RemindersEnabled() {
		logger.Error("AMQP_URL is required: the worker publishes and delivers reminders")
		os.Exit(1)
	}

	store := cli.InitStore(context.Background(), logger, cfg.SQLiteDBPath)

	var res cli.Resources
	res.Add(store.Close)
	reminders := worker.NewReminderWorker(worker.LogNotifier{Log: logger})
	res.Add(func() error {
		reminders.Stop()
		return nil
	})
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if err := res.Close(); err != nil {
			logger.Warn("Cleanup failed", log.FieldError, err)
		}
	})
	ctx = log.WithLogger(ctx, logger)

	client, err := amqp.Connect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", log.FieldError, err)
		res.Close()
		os.Exit(1)
	}
	res.Add(client.Close)

	processor := services.NewRecurringProcessor(store, client, cfg.Currency)
	logger.Info("Recurring processor configured",
		"interval", cfg.RecurringInterval,
		"sqlite_db", cfg.SQLiteDBPath,
		"queue", cfg.AMQPQueue)

	run := func(now time.Time) {
		count, err := processor.ProcessDue(ctx, now)
		if err != nil {
			logger.Error("Recurring processing failed", log.FieldError, err)
			return
		}
		logger.Info("Recurring processing complete",
			"reminders_published", count,
			"next_check", now.Add(cfg.RecurringInterval).Format("15:04:05"))
	}

	go func() {
		if err := client.ConsumeReminders(ctx, reminders.HandleReminder); err != nil && ctx.Err() == nil {
			logger.Error("Reminder consumer stopped", log.FieldError, err)
		}
	}()
	go cache.RunCleanup(ctx, time.Hour, reminders.Delivered())

	run(time.Now())

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down recurring-worker")
			cli.WaitForShutdown(ctx, done)
			return
		case now := <-ticker.C:
			run(now)
		}
	}
}
