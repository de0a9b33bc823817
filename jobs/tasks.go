package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/HassanShehryar1/IronVault-Gym-Management/event"
)

const (
	// QueueDefault is the queue for notifications and scans.
	QueueDefault = "default"
	// QueueCritical is the queue for money-moving tasks.
	QueueCritical = "critical"

	// TaskExpirationScan runs Gym.ProcessDailyExpirations.
	TaskExpirationScan = "membership:daily_expirations"
	// TaskPayrollRun runs Gym.PayAllSalaries. It is never retried.
	TaskPayrollRun = "payroll:monthly"
	// TaskExpiryReminder delivers one expiry reminder email.
	TaskExpiryReminder = "notify:expiring_email"
)

// ExpiryReminderPayload describes the reminder for one expiring member.
type ExpiryReminderPayload struct {
	MemberID  string    `json:"member_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewExpirationScanTask constructs the daily scan task.
func NewExpirationScanTask() *asynq.Task {
	return asynq.NewTask(TaskExpirationScan, nil, asynq.Queue(QueueDefault), asynq.MaxRetry(3))
}

// NewPayrollRunTask constructs the payroll task. Payroll writes money, so the
// task carries MaxRetry(0) and a failed run is archived for a human to look at.
func NewPayrollRunTask() *asynq.Task {
	return asynq.NewTask(TaskPayrollRun, nil, asynq.Queue(QueueCritical), asynq.MaxRetry(0))
}

// NewExpiryReminderTask constructs a reminder task from an expiry event.
func NewExpiryReminderTask(e *event.MembershipExpiring) (*asynq.Task, error) {
	data, err := json.Marshal(ExpiryReminderPayload{
		MemberID:  e.MemberID.String(),
		Name:      e.Name,
		Email:     e.Email,
		ExpiresAt: e.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExpiryReminder, data, asynq.Queue(QueueDefault), asynq.MaxRetry(5)), nil
}

// ReminderTaskID keys a reminder by member and expiry date so a second
// enqueue for the same notice is rejected by the queue.
func ReminderTaskID(e *event.MembershipExpiring) string {
	return "expiry_reminder:" + e.MemberID.String() + ":" + e.ExpiresAt.Format(time.DateOnly)
}
