package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	ironvault "github.com/HassanShehryar1/IronVault-Gym-Management"
)

// Engine is the part of *ironvault.Gym the scheduled tasks drive.
type Engine interface {
	ProcessDailyExpirations(ctx context.Context) (int, error)
	PayAllSalaries(ctx context.Context) ([]*ironvault.SalaryResult, error)
}

// Mailer delivers reminder emails.
type Mailer interface {
	SendExpiryReminder(ctx context.Context, p ExpiryReminderPayload) error
}

// LogMailer writes reminders to the log instead of sending them.
type LogMailer struct {
	Logger *slog.Logger
}

// SendExpiryReminder implements Mailer.
func (m LogMailer) SendExpiryReminder(_ context.Context, p ExpiryReminderPayload) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("membership expiry reminder",
		slog.String("member_id", p.MemberID),
		slog.String("to", p.Email),
		slog.Time("expires_at", p.ExpiresAt),
	)
	return nil
}

// Handlers serves the IronVault task types.
type Handlers struct {
	engine  Engine
	mailer  Mailer
	logger  *slog.Logger
	metrics *Metrics
}

// NewHandlers wires the task handlers. A nil mailer logs reminders.
func NewHandlers(engine Engine, mailer Mailer, logger *slog.Logger, metrics *Metrics) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	if mailer == nil {
		mailer = LogMailer{Logger: logger}
	}
	return &Handlers{engine: engine, mailer: mailer, logger: logger, metrics: metrics}
}

// HandleExpirationScan processes TaskExpirationScan tasks.
func (h *Handlers) HandleExpirationScan(ctx context.Context, _ *asynq.Task) (err error) {
	tracker := h.metrics.Track("expiration_scan")
	defer func() { err = tracker.End(err) }()

	n, err := h.engine.ProcessDailyExpirations(ctx)
	if err != nil {
		h.logger.Error("expiration scan failed", slog.Any("error", err))
		return err
	}
	h.logger.Info("expiration scan finished", slog.Int("notified", n))
	return nil
}

// HandlePayrollRun processes TaskPayrollRun tasks. Failures skip retry so a
// half-finished run is never replayed automatically.
func (h *Handlers) HandlePayrollRun(ctx context.Context, _ *asynq.Task) (err error) {
	tracker := h.metrics.Track("payroll_run")
	defer func() { err = tracker.End(err) }()

	results, err := h.engine.PayAllSalaries(ctx)

	paid, skipped := 0, 0
	for _, r := range results {
		if r.AlreadyPaid {
			skipped++
		} else {
			paid++
		}
	}
	logger := h.logger.With(slog.Int("paid", paid), slog.Int("already_paid", skipped))

	if err != nil {
		logger.Error("payroll run stopped", slog.Any("error", err))
		return fmt.Errorf("payroll run: %w: %w", err, asynq.SkipRetry)
	}
	logger.Info("payroll run finished")
	return nil
}

// HandleExpiryReminder processes TaskExpiryReminder tasks.
func (h *Handlers) HandleExpiryReminder(ctx context.Context, t *asynq.Task) (err error) {
	tracker := h.metrics.Track("expiry_reminder")
	defer func() { err = tracker.End(err) }()

	var payload ExpiryReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode reminder: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Email == "" {
		return fmt.Errorf("reminder for %s has no email: %w", payload.MemberID, asynq.SkipRetry)
	}
	return h.mailer.SendExpiryReminder(ctx, payload)
}

// IsSkipRetry reports whether err asked asynq not to retry.
func IsSkipRetry(err error) bool {
	return errors.Is(err, asynq.SkipRetry)
}
