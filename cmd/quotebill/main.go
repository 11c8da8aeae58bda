package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/quotebill/quotebill/cmd/quotebill/cli"
	"github.com/quotebill/quotebill/internal/app"
	"github.com/quotebill/quotebill/internal/documents"
	"github.com/quotebill/quotebill/internal/observability"
	"github.com/quotebill/quotebill/internal/platform/cache"
	"github.com/quotebill/quotebill/internal/platform/db"
	"github.com/quotebill/quotebill/internal/settings"
	"github.com/quotebill/quotebill/jobs"
	"github.com/quotebill/quotebill/report"
)

const usage = `usage: quotebill [command]

commands:
  serve                 run the HTTP API (default)
  migrate               apply database migrations and exit
  jobs trigger <task>   enqueue a background task (bills:mark_overdue)
  jobs stats            print default queue statistics
  amounts <value>...    print formatted amounts and their words
`

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	args := flag.Args()
	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		err = serve(ctx, cfg, logger)
	case "migrate":
		err = migrate(ctx, cfg, logger)
	case "jobs":
		err = runJobs(ctx, cfg, args)
	case "amounts":
		err = cli.Amounts(os.Stdout, args, cli.AmountOptions{Suffix: cfg.CurrencyWords, LegacyCents: cfg.WordsLegacyCents})
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(command, slog.Any("error", err))
		os.Exit(1)
	}
}

func migrate(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()
	return db.Migrate(ctx, pool, logger)
}

func runJobs(ctx context.Context, cfg *app.Config, args []string) error {
	if len(args) == 0 {
		return errors.New("jobs: missing subcommand")
	}
	c := cli.NewJobsCLI(cfg.RedisAddr)
	defer c.Close()

	switch args[0] {
	case "trigger":
		if len(args) < 2 {
			return errors.New("jobs trigger: missing task name")
		}
		info, err := c.Trigger(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
	case "stats":
		stats, err := c.InspectQueue(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
			stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
	default:
		return fmt.Errorf("jobs: unknown subcommand %q", args[0])
	}
	return nil
}

func serve(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, pool, logger); err != nil {
			return err
		}
	}

	var settingsStore settings.Store
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, settings cache disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		settingsStore = cache.NewJSONStore(redisClient, "quotebill:settings", cfg.SettingsCacheTTL)
	}

	metrics := observability.NewMetrics()

	settingsService := settings.NewService(settings.NewRepository(pool), settingsStore, logger)

	reportClient := report.NewClient(cfg.GotenbergURL, cfg.GotenbergTimeout)
	exporter, err := documents.NewPDFExporter(reportClient)
	if err != nil {
		return fmt.Errorf("parse document template: %w", err)
	}
	documentService := documents.NewService(
		documents.NewRepository(pool),
		settingsService,
		documents.NewPresenter(cfg.CurrencySymbol, cfg.CurrencyWords, cfg.WordsLegacyCents),
		logger,
		documents.WithExporter(exporter),
		documents.WithRecorder(metrics),
	)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SettingsHandler:  settings.NewHandler(logger, settingsService),
		DocumentsHandler: documents.NewHandler(logger, documentService),
		ReportHandler:    report.NewHandler(reportClient, logger),
		JobHandler:       jobs.NewHandler(inspector, logger),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
