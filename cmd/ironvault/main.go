// Command ironvault runs the gym engine with its background worker and a
// Prometheus endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"golang.org/x/sync/errgroup"

	ironvault "github.com/HassanShehryar1/IronVault-Gym-Management"
	audithook "github.com/HassanShehryar1/IronVault-Gym-Management/audit_hook"
	"github.com/HassanShehryar1/IronVault-Gym-Management/dedupe"
	"github.com/HassanShehryar1/IronVault-Gym-Management/extension"
	"github.com/HassanShehryar1/IronVault-Gym-Management/internal/app"
	"github.com/HassanShehryar1/IronVault-Gym-Management/jobs"
	"github.com/HassanShehryar1/IronVault-Gym-Management/lock"
	"github.com/HassanShehryar1/IronVault-Gym-Management/observability"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("ironvault exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	metrics := observability.NewPrometheusFactory(nil)
	audit := audithook.New(audithook.RecorderFunc(func(_ context.Context, e *audithook.AuditEvent) error {
		logger.Info("audit",
			slog.String("action", e.Action),
			slog.String("resource_id", e.ResourceID),
			slog.String("outcome", e.Outcome),
		)
		return nil
	}), audithook.WithLogger(logger))

	opts := []ironvault.Option{
		ironvault.WithLogger(logger),
		ironvault.WithCurrency(cfg.Currency),
		ironvault.WithLocation(cfg.Loc()),
		ironvault.WithStoreTimeout(cfg.StoreTimeout),
		ironvault.WithPlugin(observability.NewMetricsExtension(metrics)),
		ironvault.WithPlugin(audit),
	}

	var (
		redisOpts asynq.RedisClientOpt
		queue     *jobs.Client
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}

		redisOpts = asynq.RedisClientOpt{Addr: cfg.RedisAddr}
		queue = jobs.NewClient(redisOpts)
		defer func() { _ = queue.Close() }()

		opts = append(opts,
			ironvault.WithLocker(lock.NewRedis(rdb)),
			ironvault.WithDeduper(dedupe.NewRedis(rdb, "")),
			ironvault.WithPlugin(jobs.NewNotifier(queue, logger)),
		)
	} else {
		logger.Warn("IRONVAULT_REDIS_ADDR not set; using in-process lock and hourly expiry scan")
		opts = append(opts, ironvault.WithExpiryScan(time.Hour))
	}

	gym := ironvault.New(s, opts...)
	if err := gym.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := gym.Stop(); err != nil {
			logger.Warn("gym stop", slog.Any("error", err))
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := s.Ping(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g.Go(func() error {
		logger.Info("metrics listening", slog.String("addr", cfg.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if queue != nil {
		worker, err := jobs.NewWorker(jobs.WorkerConfig{
			RedisOpts:   redisOpts,
			Logger:      logger,
			Handlers:    jobs.NewHandlers(gym, nil, logger, jobs.NewMetrics(metrics)),
			ExpiryCron:  cfg.ExpiryCron,
			PayrollCron: cfg.PayrollCron,
			Location:    cfg.Loc(),
		})
		if err != nil {
			return fmt.Errorf("init worker: %w", err)
		}
		g.Go(func() error { return worker.Run(gctx) })
	}

	return g.Wait()
}

// openStore opens the configured backend and wraps it in the matching store.
func openStore(ctx context.Context, cfg *app.Config) (store.Store, error) {
	var drv grove.GroveDriver
	switch cfg.DBDriver {
	case "memory":
		return memory.New(), nil
	case "postgres":
		pg := pgdriver.New()
		if err := pg.Open(ctx, cfg.DBDSN); err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		drv = pg
	case "sqlite":
		sq := sqlitedriver.New()
		if err := sq.Open(ctx, cfg.DBDSN); err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		drv = sq
	case "mongo":
		mdb := mongodriver.New()
		if err := mdb.Open(ctx, cfg.DBDSN); err != nil {
			return nil, fmt.Errorf("open mongo: %w", err)
		}
		drv = mdb
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.DBDriver)
	}

	db, err := grove.Open(drv)
	if err != nil {
		return nil, err
	}
	return extension.StoreFromGrove(db)
}
