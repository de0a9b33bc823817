package jobs_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ironvault "github.com/HassanShehryar1/IronVault-Gym-Management"
	"github.com/HassanShehryar1/IronVault-Gym-Management/credential"
	"github.com/HassanShehryar1/IronVault-Gym-Management/event"
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/jobs"
	"github.com/HassanShehryar1/IronVault-Gym-Management/member"
	"github.com/HassanShehryar1/IronVault-Gym-Management/observability"
	"github.com/HassanShehryar1/IronVault-Gym-Management/plan"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store/memory"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeEngine struct {
	scans    int
	notified int
	results  []*ironvault.SalaryResult
	err      error
}

func (f *fakeEngine) ProcessDailyExpirations(context.Context) (int, error) {
	f.scans++
	return f.notified, f.err
}

func (f *fakeEngine) PayAllSalaries(context.Context) ([]*ironvault.SalaryResult, error) {
	return f.results, f.err
}

type recordingMailer struct {
	sent []jobs.ExpiryReminderPayload
}

func (m *recordingMailer) SendExpiryReminder(_ context.Context, p jobs.ExpiryReminderPayload) error {
	m.sent = append(m.sent, p)
	return nil
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	seen  map[string]bool
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	taskID := ""
	for _, o := range opts {
		if o.Type() == asynq.TaskIDOpt {
			taskID = o.Value().(string)
		}
	}
	if q.seen == nil {
		q.seen = make(map[string]bool)
	}
	if taskID != "" && q.seen[taskID] {
		return nil, asynq.ErrTaskIDConflict
	}
	q.seen[taskID] = true
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: taskID, Type: task.Type()}, nil
}

func TestExpirationScanHandler(t *testing.T) {
	engine := &fakeEngine{notified: 2}
	h := jobs.NewHandlers(engine, nil, quiet, nil)

	require.NoError(t, h.HandleExpirationScan(context.Background(), jobs.NewExpirationScanTask()))
	assert.Equal(t, 1, engine.scans)

	engine.err = errors.New("store down")
	err := h.HandleExpirationScan(context.Background(), jobs.NewExpirationScanTask())
	require.ErrorIs(t, err, engine.err)
	assert.False(t, jobs.IsSkipRetry(err))
}

func TestPayrollRunFailureSkipsRetry(t *testing.T) {
	engine := &fakeEngine{
		results: []*ironvault.SalaryResult{{AlreadyPaid: true}},
		err:     ironvault.ErrInsufficientFunds,
	}
	h := jobs.NewHandlers(engine, nil, quiet, nil)

	err := h.HandlePayrollRun(context.Background(), jobs.NewPayrollRunTask())
	require.ErrorIs(t, err, ironvault.ErrInsufficientFunds)
	assert.True(t, jobs.IsSkipRetry(err))

	engine.err = nil
	require.NoError(t, h.HandlePayrollRun(context.Background(), jobs.NewPayrollRunTask()))
}

func TestExpiryReminderHandler(t *testing.T) {
	mailer := &recordingMailer{}
	h := jobs.NewHandlers(&fakeEngine{}, mailer, quiet, nil)

	e := &event.MembershipExpiring{
		MemberID:  id.NewMemberID(),
		Name:      "Ana",
		Email:     "ana@gym.test",
		ExpiresAt: time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC),
	}
	task, err := jobs.NewExpiryReminderTask(e)
	require.NoError(t, err)
	assert.Equal(t, jobs.TaskExpiryReminder, task.Type())

	require.NoError(t, h.HandleExpiryReminder(context.Background(), task))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, e.MemberID.String(), mailer.sent[0].MemberID)
	assert.Equal(t, "ana@gym.test", mailer.sent[0].Email)
	assert.True(t, mailer.sent[0].ExpiresAt.Equal(e.ExpiresAt))

	err = h.HandleExpiryReminder(context.Background(), asynq.NewTask(jobs.TaskExpiryReminder, []byte("{")))
	assert.True(t, jobs.IsSkipRetry(err))
	assert.Len(t, mailer.sent, 1)
}

func TestNotifierEnqueuesOncePerNotice(t *testing.T) {
	q := &fakeQueue{}
	n := jobs.NewNotifier(q, quiet)

	e := &event.MembershipExpiring{
		MemberID:  id.NewMemberID(),
		Email:     "sam@gym.test",
		ExpiresAt: time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, n.OnMembershipExpiring(context.Background(), e))
	require.NoError(t, n.OnMembershipExpiring(context.Background(), e), "a queued duplicate is not an error")

	require.Len(t, q.tasks, 1)
	var payload jobs.ExpiryReminderPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &payload))
	assert.Equal(t, "sam@gym.test", payload.Email)
}

func TestJobMetricsTrackRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := jobs.NewMetrics(observability.NewPrometheusFactory(reg))
	engine := &fakeEngine{}
	h := jobs.NewHandlers(engine, nil, quiet, metrics)

	require.NoError(t, h.HandleExpirationScan(context.Background(), jobs.NewExpirationScanTask()))
	engine.err = errors.New("boom")
	require.Error(t, h.HandleExpirationScan(context.Background(), jobs.NewExpirationScanTask()))

	families, err := reg.Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			counts[f.GetName()] += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 2.0, counts["ironvault_jobs_expiration_scan_runs_total"])
	assert.Equal(t, 1.0, counts["ironvault_jobs_expiration_scan_failures_total"])
}

func TestGymExpiryScanQueuesReminders(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	q := &fakeQueue{}
	gym := ironvault.New(memory.New(),
		ironvault.WithLogger(quiet),
		ironvault.WithClock(clock),
		ironvault.WithLocation(time.UTC),
		ironvault.WithPasswordParams(credential.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}),
		ironvault.WithPlugin(jobs.NewNotifier(q, quiet)),
	)
	require.NoError(t, gym.Start(ctx))
	t.Cleanup(func() { _ = gym.Stop() })

	p := &plan.Plan{Name: "Basic", MonthlyPrice: types.USD(5000)}
	require.NoError(t, gym.CreatePlan(ctx, p))
	reg, err := gym.Register(ctx, ironvault.RegisterInput{Name: "Ana", Email: "ana@gym.test", PlanID: p.ID})
	require.NoError(t, err)

	now = now.Add(member.Term - 24*time.Hour)

	h := jobs.NewHandlers(gym, nil, quiet, nil)
	require.NoError(t, h.HandleExpirationScan(ctx, jobs.NewExpirationScanTask()))
	require.NoError(t, h.HandleExpirationScan(ctx, jobs.NewExpirationScanTask()))

	require.Len(t, q.tasks, 1)
	var payload jobs.ExpiryReminderPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &payload))
	assert.Equal(t, reg.Member.ID.String(), payload.MemberID)
}
