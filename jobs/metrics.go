package jobs

import (
	"time"

	"github.com/HassanShehryar1/IronVault-Gym-Management/observability"
)

// Metrics counts job runs through an observability.MetricFactory. A nil
// *Metrics records nothing.
type Metrics struct {
	factory observability.MetricFactory
}

// NewMetrics creates job metrics over factory.
func NewMetrics(factory observability.MetricFactory) *Metrics {
	if factory == nil {
		return nil
	}
	return &Metrics{factory: factory}
}

// Tracker instruments a single job run.
type Tracker struct {
	metrics *Metrics
	job     string
	start   time.Time
}

// Track starts a tracker for job.
func (m *Metrics) Track(job string) *Tracker {
	return &Tracker{metrics: m, job: job, start: time.Now()}
}

// End records the run outcome and duration and returns err untouched.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil || t.job == "" {
		return err
	}
	prefix := "ironvault.jobs." + t.job
	t.metrics.factory.Counter(prefix + ".runs").Inc()
	if err != nil {
		t.metrics.factory.Counter(prefix + ".failures").Inc()
	}
	t.metrics.factory.Histogram(prefix + ".duration_ms").Observe(float64(time.Since(t.start).Milliseconds()))
	return err
}
