package ironvault_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ironvault "github.com/HassanShehryar1/IronVault-Gym-Management"
	"github.com/HassanShehryar1/IronVault-Gym-Management/credential"
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/member"
	"github.com/HassanShehryar1/IronVault-Gym-Management/payment"
	"github.com/HassanShehryar1/IronVault-Gym-Management/plan"
	"github.com/HassanShehryar1/IronVault-Gym-Management/staff"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store/memory"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

var epoch = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	gym   *ironvault.Gym
	store *memory.Store
	clock *clock
}

func newFixture(t *testing.T, opts ...ironvault.Option) *fixture {
	t.Helper()
	return newFixtureOver(t, nil, opts...)
}

// newFixtureOver runs the engine over wrap(memory store). A nil wrap uses the
// memory store directly.
func newFixtureOver(t *testing.T, wrap func(*memory.Store) store.Store, opts ...ironvault.Option) *fixture {
	t.Helper()
	f := &fixture{store: memory.New(), clock: &clock{t: epoch}}
	var s store.Store = f.store
	if wrap != nil {
		s = wrap(f.store)
	}
	base := []ironvault.Option{
		ironvault.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		ironvault.WithClock(f.clock.Now),
		ironvault.WithLocation(time.UTC),
		ironvault.WithPasswordParams(credential.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}),
	}
	f.gym = ironvault.New(s, append(base, opts...)...)
	require.NoError(t, f.gym.Start(context.Background()))
	t.Cleanup(func() { _ = f.gym.Stop() })
	return f
}

func (f *fixture) plan(t *testing.T, name string, cents int64) *plan.Plan {
	t.Helper()
	p := &plan.Plan{Name: name, MonthlyPrice: types.USD(cents)}
	require.NoError(t, f.gym.CreatePlan(context.Background(), p))
	return p
}

func (f *fixture) register(t *testing.T, name string, p *plan.Plan) *ironvault.Registration {
	t.Helper()
	reg, err := f.gym.Register(context.Background(), ironvault.RegisterInput{
		Name:   name,
		Email:  id.NewMemberID().String() + "@gym.test",
		PlanID: p.ID,
	})
	require.NoError(t, err)
	return reg
}

func (f *fixture) hire(t *testing.T, name string, role staff.Role, cents int64) *staff.Staff {
	t.Helper()
	st, err := f.gym.HireStaff(context.Background(), ironvault.HireInput{
		Name:     name,
		Role:     role,
		Salary:   types.USD(cents),
		Username: "u-" + id.NewStaffID().String(),
		Password: "password",
	})
	require.NoError(t, err)
	return st
}

// fund records a walk-in payment so outflows have money to draw on.
func (f *fixture) fund(t *testing.T, cents int64) {
	t.Helper()
	require.NoError(t, f.store.CreatePayment(context.Background(), &payment.Payment{
		ID:     id.NewPaymentID(),
		Amount: types.USD(cents),
		PaidAt: f.clock.Now(),
		Note:   "opening balance",
	}))
}

// seedMember inserts a member with an arbitrary expiry and payment time.
func (f *fixture) seedMember(t *testing.T, name string, expiresAt, paidAt time.Time) *member.Member {
	t.Helper()
	m := &member.Member{
		Entity:    types.NewEntity(f.clock.Now()),
		ID:        id.NewMemberID(),
		Name:      name,
		Email:     id.NewMemberID().String() + "@gym.test",
		PlanID:    id.NewPlanID(),
		ExpiresAt: expiresAt,
		Status:    member.DeriveStatus(expiresAt, f.clock.Now()),
	}
	p := &payment.Payment{
		ID:       id.NewPaymentID(),
		MemberID: m.ID.Ptr(),
		Amount:   types.USD(5000),
		PaidAt:   paidAt,
	}
	require.NoError(t, f.store.RegisterMember(context.Background(), m, p))
	return m
}
