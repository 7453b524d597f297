package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reminderd/internal/config"
	"reminderd/internal/database"
	"reminderd/internal/guard"
	"reminderd/internal/repository"
	"reminderd/internal/scheduler"
	"reminderd/internal/server"
	"reminderd/internal/services"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		logger = logger.Level(level)
	}

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	itemRepo := repository.NewItemRepository(db)
	prefsRepo := repository.NewPreferencesRepository(db)
	logRepo := repository.NewNotificationLogRepository(db)

	registry := guard.NewRegistry()
	mailer := services.NewEmailService(cfg)
	dispatcher := services.NewDispatcher(prefsRepo, mailer, logRepo, logger)

	scanners := []*scheduler.Scanner{
		scheduler.NewScanner(scheduler.TaskScan(itemRepo.ListDueTasks), registry, logRepo, dispatcher, logger),
		scheduler.NewScanner(scheduler.MeetingScan(itemRepo.ListDueMeetings), registry, logRepo, dispatcher, logger),
		scheduler.NewScanner(scheduler.AppointmentScan(itemRepo.ListDueAppointments), registry, logRepo, dispatcher, logger),
	}

	status := scheduler.NewStatus()
	loop := scheduler.NewLoop(scanners, logRepo.EnsureSchema, status, logger, scheduler.LoopOptions{
		Interval: cfg.ScanInterval,
	})

	cronRunner := cron.New()
	if _, err := cronRunner.AddFunc("@daily", scheduler.NewRetentionJob(logRepo, scheduler.SystemClock(), logger)); err != nil {
		logger.Fatal().Err(err).Msg("failed to schedule retention cleanup")
	}
	cronRunner.Start()

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: server.New(status)}
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("ops server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("ops server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("scheduler loop stopped")
	}

	<-cronRunner.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)

	logger.Info().Msg("shutdown complete")
}
