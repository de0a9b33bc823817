package ironvault_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ironvault "github.com/HassanShehryar1/IronVault-Gym-Management"
	"github.com/HassanShehryar1/IronVault-Gym-Management/event"
	"github.com/HassanShehryar1/IronVault-Gym-Management/expense"
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/lock"
	"github.com/HassanShehryar1/IronVault-Gym-Management/plugin"
	"github.com/HassanShehryar1/IronVault-Gym-Management/salary"
	"github.com/HassanShehryar1/IronVault-Gym-Management/staff"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store/memory"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

func TestPaySalaryWritesPairAndEvent(t *testing.T) {
	ctx := context.Background()
	var events []*event.SalaryPaid
	f := newFixture(t, ironvault.WithPlugin(plugin.SubscribeSalaryPaid("capture",
		func(_ context.Context, e *event.SalaryPaid) error {
			events = append(events, e)
			return nil
		})))
	f.fund(t, 100000)
	st := f.hire(t, "Sana", staff.RoleReceptionist, 4500)

	res, err := f.gym.PaySalary(ctx, st.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Expense)
	assert.Equal(t, "2026-10", res.Payment.Period)
	assert.Equal(t, "2026", res.Payment.Year)
	assert.Equal(t, "Salary payment for Sana (Receptionist) - 2026-10", res.Expense.Description)
	assert.Equal(t, expense.TypeSalary, res.Expense.Type)
	require.NotNil(t, res.Expense.StaffID)
	assert.Equal(t, st.ID, *res.Expense.StaffID)

	_, err = f.gym.PaySalary(ctx, st.ID)
	require.NoError(t, err)

	require.Len(t, events, 2, "both branches emit")
	assert.False(t, events[0].AlreadyPaid)
	assert.True(t, events[1].AlreadyPaid)
	assert.Equal(t, types.USD(4500), events[1].Amount)

	history, err := f.gym.SalaryHistory(ctx, st.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestPaySalaryNextMonthPaysAgain(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fund(t, 100000)
	st := f.hire(t, "Omar", staff.RoleCleaner, 2000)

	_, err := f.gym.PaySalary(ctx, st.ID)
	require.NoError(t, err)

	f.clock.Advance(31 * 24 * time.Hour)
	res, err := f.gym.PaySalary(ctx, st.ID)
	require.NoError(t, err)
	assert.False(t, res.AlreadyPaid)
	assert.Equal(t, "2026-11", res.Payment.Period)

	all, err := f.gym.ListSalaryPayments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPaySalaryAlreadyPaidSkipsSolvency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fund(t, 5000)
	st := f.hire(t, "Hina", staff.RoleTrainer, 5000)

	_, err := f.gym.PaySalary(ctx, st.ID)
	require.NoError(t, err)

	res, err := f.gym.PaySalary(ctx, st.ID)
	require.NoError(t, err, "a settled period needs no funds")
	assert.True(t, res.AlreadyPaid)
}

func TestPaySalaryInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fund(t, 1000)
	st := f.hire(t, "Zain", staff.RoleManager, 9000)

	_, err := f.gym.PaySalary(ctx, st.ID)
	require.ErrorIs(t, err, ironvault.ErrInsufficientFunds)

	history, err := f.gym.SalaryHistory(ctx, st.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPaySalaryConcurrentPaysOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fund(t, 1000000)
	st := f.hire(t, "Ali", staff.RoleTrainer, 8000)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		news int
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.gym.PaySalary(ctx, st.ID)
			if !assert.NoError(t, err) {
				return
			}
			if !res.AlreadyPaid {
				mu.Lock()
				news++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, news)
	salaries, err := f.gym.ListExpenses(ctx, expense.ListOpts{Type: expense.TypeSalary})
	require.NoError(t, err)
	assert.Len(t, salaries, 1)
}

func TestPaySalaryUnknownAndTerminated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fund(t, 10000)

	_, err := f.gym.PaySalary(ctx, id.NewStaffID())
	assert.True(t, ironvault.IsNotFound(err))

	st := f.hire(t, "Gone", staff.RoleCleaner, 1000)
	require.NoError(t, f.gym.TerminateStaff(ctx, st.ID))
	_, err = f.gym.PaySalary(ctx, st.ID)
	assert.ErrorIs(t, err, ironvault.ErrStaffTerminated)
}

func TestPayAllSalariesStopsAtFirstShortfall(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fund(t, 5000)
	a := f.hire(t, "A", staff.RoleTrainer, 3000)
	time.Sleep(2 * time.Millisecond)
	f.hire(t, "B", staff.RoleTrainer, 3000)
	time.Sleep(2 * time.Millisecond)
	f.hire(t, "C", staff.RoleTrainer, 1000)

	results, err := f.gym.PayAllSalaries(ctx)
	require.Error(t, err)
	var insufficient *ironvault.InsufficientFundsError
	require.True(t, errors.As(err, &insufficient))
	require.Len(t, results, 1)
	assert.Equal(t, a.ID, results[0].Staff.ID)
}

func TestFailingSubscriberDoesNotUndoSalary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ironvault.WithPlugin(plugin.SubscribeSalaryPaid("broken",
		func(context.Context, *event.SalaryPaid) error { panic("mailer exploded") })))
	f.fund(t, 10000)
	st := f.hire(t, "Rida", staff.RoleTrainer, 1000)

	res, err := f.gym.PaySalary(ctx, st.ID)
	require.NoError(t, err)
	assert.False(t, res.AlreadyPaid)

	summary, err := f.gym.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.USD(9000), summary.AvailableBalance)
}

// noLocker hands out every key at once, like two instances that each hold
// their own in-process lock.
type noLocker struct{}

func (noLocker) Lock(context.Context, string) (lock.Release, error) {
	return func(context.Context) error { return nil }, nil
}

// staleSalaryStore misses the first GetSalaryPayment, as a read that ran
// before another instance committed the period.
type staleSalaryStore struct {
	*memory.Store
	stale atomic.Bool
}

func (s *staleSalaryStore) GetSalaryPayment(ctx context.Context, staffID id.StaffID, period string) (*salary.Payment, error) {
	if s.stale.CompareAndSwap(true, false) {
		return nil, ironvault.ErrSalaryPaymentNotFound
	}
	return s.Store.GetSalaryPayment(ctx, staffID, period)
}

func TestPaySalaryLostRaceReportsAlreadyPaid(t *testing.T) {
	ctx := context.Background()
	var stale *staleSalaryStore
	f := newFixtureOver(t, func(ms *memory.Store) store.Store {
		stale = &staleSalaryStore{Store: ms}
		return stale
	}, ironvault.WithLocker(noLocker{}))
	f.fund(t, 100000)
	st := f.hire(t, "Ali", staff.RoleTrainer, 8000)

	// Another instance settles the period first.
	settled := &salary.Payment{
		Entity:  types.NewEntity(epoch),
		ID:      id.NewSalaryPaymentID(),
		StaffID: st.ID,
		Amount:  st.Salary,
		PaidAt:  epoch,
		Period:  salary.PeriodOf(epoch),
		Year:    salary.YearOf(epoch),
	}
	require.NoError(t, f.store.RecordSalaryPayment(ctx, settled, &expense.Expense{
		Entity:  types.NewEntity(epoch),
		ID:      id.NewExpenseID(),
		Type:    expense.TypeSalary,
		Amount:  st.Salary,
		SpentAt: epoch,
		StaffID: st.ID.Ptr(),
	}))
	stale.stale.Store(true)

	res, err := f.gym.PaySalary(ctx, st.ID)
	require.NoError(t, err)
	assert.True(t, res.AlreadyPaid)
	assert.Equal(t, settled.ID, res.Payment.ID)
	assert.Nil(t, res.Expense)

	history, err := f.gym.SalaryHistory(ctx, st.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	salaries, err := f.gym.ListExpenses(ctx, expense.ListOpts{Type: expense.TypeSalary})
	require.NoError(t, err)
	assert.Len(t, salaries, 1)
}

func TestPaySalaryWithoutSharedLockPaysOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ironvault.WithLocker(noLocker{}))
	f.fund(t, 1000000)
	st := f.hire(t, "Sana", staff.RoleCleaner, 3000)

	var (
		wg   sync.WaitGroup
		news atomic.Int32
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.gym.PaySalary(ctx, st.ID)
			if assert.NoError(t, err) && !res.AlreadyPaid {
				news.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), news.Load())
	history, err := f.gym.SalaryHistory(ctx, st.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	salaries, err := f.gym.ListExpenses(ctx, expense.ListOpts{Type: expense.TypeSalary})
	require.NoError(t, err)
	assert.Len(t, salaries, 1)
}

// raiseFirstLocker runs before once, ahead of the first acquisition of key.
type raiseFirstLocker struct {
	lock.Locker
	key    string
	once   sync.Once
	before func()
}

func (l *raiseFirstLocker) Lock(ctx context.Context, key string) (lock.Release, error) {
	if key == l.key && l.before != nil {
		l.once.Do(l.before)
	}
	return l.Locker.Lock(ctx, key)
}

func TestPaySalaryUsesSalaryCurrentAtLock(t *testing.T) {
	ctx := context.Background()
	locker := &raiseFirstLocker{Locker: lock.NewLocal(), key: ironvault.OutflowLockKey}
	f := newFixture(t, ironvault.WithLocker(locker))
	f.fund(t, 100000)
	st := f.hire(t, "Hamza", staff.RoleTrainer, 8000)

	// The raise commits after PaySalary starts but before it holds the lock.
	locker.before = func() {
		_, err := f.gym.UpdateStaffSalary(ctx, st.ID, types.USD(9000))
		assert.NoError(t, err)
	}

	res, err := f.gym.PaySalary(ctx, st.ID)
	require.NoError(t, err)
	require.False(t, res.AlreadyPaid)
	assert.Equal(t, types.USD(9000), res.Payment.Amount)
	assert.Equal(t, types.USD(9000), res.Staff.Salary)
	require.NotNil(t, res.Expense)
	assert.Equal(t, types.USD(9000), res.Expense.Amount)
}
