package memory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ironvault "github.com/HassanShehryar1/IronVault-Gym-Management"
	"github.com/HassanShehryar1/IronVault-Gym-Management/equipment"
	"github.com/HassanShehryar1/IronVault-Gym-Management/expense"
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/ledger"
	"github.com/HassanShehryar1/IronVault-Gym-Management/member"
	"github.com/HassanShehryar1/IronVault-Gym-Management/payment"
	"github.com/HassanShehryar1/IronVault-Gym-Management/salary"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store/memory"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

var now = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newMember(email string, expires time.Time) (*member.Member, *payment.Payment) {
	m := &member.Member{
		Entity:    types.NewEntity(now),
		ID:        id.NewMemberID(),
		Name:      "Member " + email,
		Email:     email,
		PlanID:    id.NewPlanID(),
		ExpiresAt: expires,
		Status:    member.StatusActive,
	}
	p := &payment.Payment{
		Entity:   types.NewEntity(now),
		ID:       id.NewPaymentID(),
		MemberID: m.ID.Ptr(),
		Amount:   types.USD(5000),
		PaidAt:   now,
	}
	return m, p
}

func salaryPair(staffID id.StaffID, cents int64) (*salary.Payment, *expense.Expense) {
	sp := &salary.Payment{
		ID:      id.NewSalaryPaymentID(),
		StaffID: staffID,
		Amount:  types.USD(cents),
		PaidAt:  now,
		Period:  salary.PeriodOf(now),
		Year:    salary.YearOf(now),
	}
	e := &expense.Expense{
		ID:      id.NewExpenseID(),
		Type:    expense.TypeSalary,
		Amount:  types.USD(cents),
		SpentAt: now,
		StaffID: staffID.Ptr(),
	}
	return sp, e
}

func TestRegisterMemberWritesPair(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	m, p := newMember("a@gym.test", now.Add(member.Term))
	require.NoError(t, s.RegisterMember(ctx, m, p))

	got, err := s.GetMember(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Email, got.Email)

	totals, err := s.LedgerTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger.Totals{Revenue: 5000}, totals)

	dup, dupPay := newMember("A@gym.test", now)
	assert.ErrorIs(t, s.RegisterMember(ctx, dup, dupPay), ironvault.ErrAlreadyExists)

	totals, err = s.LedgerTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), totals.Revenue, "rejected registration must not record a payment")
}

func TestReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	m, p := newMember("copy@gym.test", now)
	require.NoError(t, s.RegisterMember(ctx, m, p))

	m.Name = "mutated after insert"
	got, err := s.GetMember(ctx, m.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated after insert", got.Name)

	got.Name = "mutated after read"
	again, err := s.GetMember(ctx, m.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated after read", again.Name)
}

func TestRecordSalaryPaymentIsUniquePerPeriod(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	staffID := id.NewStaffID()

	sp, e := salaryPair(staffID, 8000)
	require.NoError(t, s.RecordSalaryPayment(ctx, sp, e))

	sp2, e2 := salaryPair(staffID, 8000)
	assert.ErrorIs(t, s.RecordSalaryPayment(ctx, sp2, e2), ironvault.ErrAlreadyExists)

	totals, err := s.LedgerTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger.Totals{Expenses: 8000, Salaries: 8000}, totals)

	got, err := s.GetSalaryPayment(ctx, staffID, salary.PeriodOf(now))
	require.NoError(t, err)
	assert.Equal(t, sp.ID, got.ID)

	_, err = s.GetSalaryPayment(ctx, staffID, "1999-01")
	assert.True(t, ironvault.IsNotFound(err))
}

func TestRecordSalaryPaymentConcurrent(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	staffID := id.NewStaffID()

	var wg sync.WaitGroup
	var wins atomic.Int32
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sp, e := salaryPair(staffID, 100)
			if s.RecordSalaryPayment(ctx, sp, e) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	list, err := s.ListExpenses(ctx, expense.ListOpts{Type: expense.TypeSalary})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSettleEquipmentOrderOnce(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	o := &equipment.Order{
		ID:            id.NewOrderID(),
		EquipmentName: "Kettlebell",
		Quantity:      4,
		TotalPrice:    types.USD(12000),
		OrderedAt:     now,
	}
	require.NoError(t, s.CreateOrder(ctx, o))

	exp := &expense.Expense{ID: id.NewExpenseID(), Type: expense.TypeEquipment, Amount: o.TotalPrice, SpentAt: now, OrderID: o.ID.Ptr()}
	require.NoError(t, s.SettleEquipmentOrder(ctx, o.ID, now, exp))

	again := &expense.Expense{ID: id.NewExpenseID(), Type: expense.TypeEquipment, Amount: o.TotalPrice, SpentAt: now}
	assert.ErrorIs(t, s.SettleEquipmentOrder(ctx, o.ID, now, again), ironvault.ErrOrderAlreadyPaid)
	assert.ErrorIs(t, s.SettleEquipmentOrder(ctx, id.NewOrderID(), now, again), ironvault.ErrOrderNotFound)

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Paid)
	require.NotNil(t, got.PaidAt)

	unpaid, err := s.ListOrders(ctx, equipment.ListOpts{UnpaidOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unpaid)

	totals, err := s.LedgerTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), totals.Expenses)
}

func TestMemberQueries(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	tomorrow := now.Add(24 * time.Hour)

	expiring, p1 := newMember("soon@gym.test", tomorrow)
	require.NoError(t, s.RegisterMember(ctx, expiring, p1))
	later, p2 := newMember("later@gym.test", now.Add(10*24*time.Hour))
	require.NoError(t, s.RegisterMember(ctx, later, p2))
	lapsed, p3 := newMember("lapsed@gym.test", now.Add(-time.Hour))
	require.NoError(t, s.RegisterMember(ctx, lapsed, p3))

	hits, err := s.ListMembersExpiringBetween(ctx, tomorrow.Add(-time.Hour), tomorrow.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, expiring.ID, hits[0].ID)

	active, err := s.CountMembersActiveAt(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), active)

	terminatedAt := now
	expiring.TerminatedAt = &terminatedAt
	require.NoError(t, s.UpdateMember(ctx, expiring))

	hits, err = s.ListMembersExpiringBetween(ctx, tomorrow.Add(-time.Hour), tomorrow.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, hits, "terminated members never expire")

	live, err := s.ListMembers(ctx, member.ListOpts{})
	require.NoError(t, err)
	assert.Len(t, live, 2)

	all, err := s.ListMembers(ctx, member.ListOpts{IncludeTerminated: true})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, expiring.ID, all[0].ID, "ordered by ID, which is creation order")

	counts, err := s.CountPaymentsByMember(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[expiring.ID], "payments survive termination")
}

func TestListPaymentsFilters(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	m, first := newMember("pay@gym.test", now)
	first.PaidAt = now.AddDate(0, -2, 0)
	require.NoError(t, s.RegisterMember(ctx, m, first))

	recent := &payment.Payment{ID: id.NewPaymentID(), MemberID: m.ID.Ptr(), Amount: types.USD(5000), PaidAt: now}
	require.NoError(t, s.RenewMember(ctx, m, recent))
	walkIn := &payment.Payment{ID: id.NewPaymentID(), Amount: types.USD(500), PaidAt: now.Add(time.Minute)}
	require.NoError(t, s.CreatePayment(ctx, walkIn))

	all, err := s.ListPayments(ctx, payment.ListOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, walkIn.ID, all[0].ID, "newest first")

	sinceMonth, err := s.ListPayments(ctx, payment.ListOpts{Since: now.AddDate(0, -1, 0)})
	require.NoError(t, err)
	assert.Len(t, sinceMonth, 2)

	mine, err := s.ListPayments(ctx, payment.ListOpts{MemberID: m.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	counts, err := s.CountPaymentsByMember(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[id.MemberID]int{m.ID: 2}, counts)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	_, err := s.GetMember(ctx, id.NewMemberID())
	assert.ErrorIs(t, err, ironvault.ErrMemberNotFound)
	_, err = s.GetStaff(ctx, id.NewStaffID())
	assert.ErrorIs(t, err, ironvault.ErrStaffNotFound)
	_, err = s.GetPlan(ctx, id.NewPlanID())
	assert.ErrorIs(t, err, ironvault.ErrPlanNotFound)
	_, err = s.GetMachine(ctx, id.NewMachineID())
	assert.ErrorIs(t, err, ironvault.ErrMachineNotFound)
	_, err = s.GetOwnerByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ironvault.ErrOwnerNotFound)
	assert.ErrorIs(t, s.UpdateMachineStatus(ctx, id.NewMachineID(), equipment.MachineOutOfOrder, time.Now()), ironvault.ErrMachineNotFound)
}
