// Package jobs runs IronVault's background work on asynq: the daily
// expiration scan, the monthly payroll run and reminder email delivery.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Worker wraps the asynq server and optional scheduler.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	logger    *slog.Logger
}

// WorkerConfig collects dependencies required to bootstrap the worker.
type WorkerConfig struct {
	RedisOpts asynq.RedisClientOpt
	Logger    *slog.Logger
	Handlers  *Handlers

	// ExpiryCron and PayrollCron schedule the scan and payroll tasks.
	// Empty disables the entry.
	ExpiryCron  string
	PayrollCron string
	Location    *time.Location

	Concurrency int
}

// NewWorker constructs a Worker instance.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.Handlers == nil {
		return nil, errors.New("jobs: handlers not configured")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueCritical: 6,
			QueueDefault:  3,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			level := slog.LevelWarn
			if IsSkipRetry(err) {
				level = slog.LevelError
			}
			logger.Log(context.Background(), level, "task failed",
				slog.String("type", task.Type()),
				slog.Any("error", err),
			)
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskExpirationScan, cfg.Handlers.HandleExpirationScan)
	mux.HandleFunc(TaskPayrollRun, cfg.Handlers.HandlePayrollRun)
	mux.HandleFunc(TaskExpiryReminder, cfg.Handlers.HandleExpiryReminder)

	var scheduler *asynq.Scheduler
	cron := []struct {
		spec string
		task *asynq.Task
	}{
		{cfg.ExpiryCron, NewExpirationScanTask()},
		{cfg.PayrollCron, NewPayrollRunTask()},
	}
	for _, entry := range cron {
		if entry.spec == "" {
			continue
		}
		if scheduler == nil {
			scheduler = asynq.NewScheduler(cfg.RedisOpts, &asynq.SchedulerOpts{Location: loc})
		}
		if _, err := scheduler.Register(entry.spec, entry.task); err != nil {
			return nil, err
		}
	}

	return &Worker{server: srv, mux: mux, scheduler: scheduler, logger: logger}, nil
}

// Run starts processing jobs until context cancellation.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("jobs: worker not configured")
	}
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			return err
		}
	}
	w.logger.Info("jobs worker started")

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		return err
	}
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

var _ Enqueuer = (*Client)(nil)

// NewClient constructs an asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueContext implements Enqueuer.
func (c *Client) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	return c.client.EnqueueContext(ctx, task, opts...)
}

// EnqueuePayrollRun queues an immediate payroll run.
func (c *Client) EnqueuePayrollRun(ctx context.Context) (*asynq.TaskInfo, error) {
	return c.client.EnqueueContext(ctx, NewPayrollRunTask())
}

// EnqueueExpirationScan queues an immediate expiration scan.
func (c *Client) EnqueueExpirationScan(ctx context.Context) (*asynq.TaskInfo, error) {
	return c.client.EnqueueContext(ctx, NewExpirationScanTask())
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
