package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/HassanShehryar1/IronVault-Gym-Management/event"
	"github.com/HassanShehryar1/IronVault-Gym-Management/plugin"
)

// Enqueuer submits tasks. *asynq.Client and *Client satisfy it.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

var (
	_ plugin.Plugin               = (*Notifier)(nil)
	_ plugin.OnMembershipExpiring = (*Notifier)(nil)
)

// Notifier is a plugin that turns MembershipExpiring events into reminder
// tasks, so email delivery happens off the engine's goroutine.
type Notifier struct {
	queue  Enqueuer
	logger *slog.Logger
}

// NewNotifier creates a Notifier that enqueues through queue.
func NewNotifier(queue Enqueuer, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{queue: queue, logger: logger}
}

// Name implements plugin.Plugin.
func (n *Notifier) Name() string { return "jobs-expiry-notifier" }

// OnMembershipExpiring implements plugin.OnMembershipExpiring.
func (n *Notifier) OnMembershipExpiring(ctx context.Context, e *event.MembershipExpiring) error {
	task, err := NewExpiryReminderTask(e)
	if err != nil {
		return err
	}

	info, err := n.queue.EnqueueContext(ctx, task, asynq.TaskID(ReminderTaskID(e)))
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		n.logger.Debug("expiry reminder already queued", slog.String("member_id", e.MemberID.String()))
		return nil
	}
	if err != nil {
		return err
	}

	n.logger.Debug("expiry reminder queued",
		slog.String("member_id", e.MemberID.String()),
		slog.String("task_id", info.ID),
	)
	return nil
}
