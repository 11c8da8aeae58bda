package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/quotebill/quotebill/internal/app"
	"github.com/quotebill/quotebill/internal/documents"
	jobmetrics "github.com/quotebill/quotebill/internal/jobs"
	"github.com/quotebill/quotebill/internal/observability"
	"github.com/quotebill/quotebill/internal/platform/db"
	"github.com/quotebill/quotebill/internal/settings"
	"github.com/quotebill/quotebill/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// The sweep only touches the bill tables; settings and rendering stay unset.
	documentService := documents.NewService(
		documents.NewRepository(pool),
		settings.NewService(settings.NewRepository(pool), nil, logger),
		documents.NewPresenter(cfg.CurrencySymbol, cfg.CurrencyWords, cfg.WordsLegacyCents),
		logger,
	)
	metrics := observability.NewMetrics()
	overdueJob := jobs.NewMarkOverdueJob(documentService, logger, jobmetrics.NewMetrics(metrics.Registerer()))

	metricsServer := jobs.NewMetricsServer(cfg.WorkerMetricsAddr, metrics.Handler())
	go func() {
		logger.Info("worker metrics listening", slog.String("addr", cfg.WorkerMetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker metrics server", slog.Any("error", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	sweepTask, err := jobs.NewMarkOverdueTask(jobs.MarkOverduePayload{Trigger: "cron"})
	if err != nil {
		logger.Error("build overdue task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Location:  cfg.SweepLocation(),
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskMarkOverdue, Handler: overdueJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.OverdueSweepCron, Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("cron", cfg.OverdueSweepCron))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
