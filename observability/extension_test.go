package observability_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HassanShehryar1/IronVault-Gym-Management/event"
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/observability"
	"github.com/HassanShehryar1/IronVault-Gym-Management/plugin"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

func gathered(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]float64, len(families))
	for _, f := range families {
		for _, m := range f.GetMetric() {
			if c := m.GetCounter(); c != nil {
				out[f.GetName()] += c.GetValue()
			}
			if h := m.GetHistogram(); h != nil {
				out[f.GetName()] += float64(h.GetSampleCount())
			}
		}
	}
	return out
}

func TestMetricsExtensionCountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	ext := observability.NewMetricsExtension(observability.NewPrometheusFactory(reg))

	r := plugin.NewRegistry().WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, r.Register(ext))

	ctx := context.Background()
	r.EmitMemberRegistered(ctx, &event.MemberRegistered{MemberID: id.NewMemberID(), Fee: types.USD(5000)})
	r.EmitMemberCheckedIn(ctx, &event.MemberCheckedIn{Admitted: true})
	r.EmitMemberCheckedIn(ctx, &event.MemberCheckedIn{Admitted: false})
	r.EmitSalaryPaid(ctx, &event.SalaryPaid{Amount: types.USD(8000)})
	r.EmitSalaryPaid(ctx, &event.SalaryPaid{Amount: types.USD(8000), AlreadyPaid: true})
	r.EmitExpenseRecorded(ctx, &event.ExpenseRecorded{Amount: types.USD(8000)})

	got := gathered(t, reg)
	assert.Equal(t, 1.0, got["ironvault_member_registered_total"])
	assert.Equal(t, 1.0, got["ironvault_checkin_admitted_total"])
	assert.Equal(t, 1.0, got["ironvault_checkin_denied_total"])
	assert.Equal(t, 1.0, got["ironvault_salary_paid_total"])
	assert.Equal(t, 1.0, got["ironvault_salary_already_paid_total"])
	assert.Equal(t, 1.0, got["ironvault_expense_amount_cents"])
	assert.Equal(t, 1.0, got["ironvault_membership_fee_cents"])
}

func TestPrometheusFactoryReusesMetrics(t *testing.T) {
	f := observability.NewPrometheusFactory(nil)

	a := f.Counter("ironvault.test.reused")
	b := f.Counter("ironvault.test.reused")
	a.Inc()
	b.Add(2)

	got := gathered(t, f.Registry())
	assert.Equal(t, 3.0, got["ironvault_test_reused_total"])
}

func TestPrometheusHandlerServesMetrics(t *testing.T) {
	f := observability.NewPrometheusFactory(nil)
	f.Counter("ironvault.staff.hired").Inc()

	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ironvault_staff_hired_total 1")
}
