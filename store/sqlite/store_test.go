package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"

	ironvault "github.com/HassanShehryar1/IronVault-Gym-Management"
	"github.com/HassanShehryar1/IronVault-Gym-Management/equipment"
	"github.com/HassanShehryar1/IronVault-Gym-Management/expense"
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/ledger"
	"github.com/HassanShehryar1/IronVault-Gym-Management/member"
	"github.com/HassanShehryar1/IronVault-Gym-Management/payment"
	"github.com/HassanShehryar1/IronVault-Gym-Management/salary"
	"github.com/HassanShehryar1/IronVault-Gym-Management/staff"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store/sqlite"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

var now = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	ctx := context.Background()

	sdb := sqlitedriver.New()
	require.NoError(t, sdb.Open(ctx, filepath.Join(t.TempDir(), "ironvault.db")))
	db, err := grove.Open(sdb)
	require.NoError(t, err)

	s := sqlite.New(db)
	require.NoError(t, s.Migrate(ctx))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newMember(email string) (*member.Member, *payment.Payment) {
	m := &member.Member{
		Entity:    types.NewEntity(now),
		ID:        id.NewMemberID(),
		Name:      "Member",
		Email:     email,
		PlanID:    id.NewPlanID(),
		ExpiresAt: now.Add(member.Term),
		Status:    member.StatusActive,
	}
	p := &payment.Payment{
		Entity:   types.NewEntity(now),
		ID:       id.NewPaymentID(),
		MemberID: m.ID.Ptr(),
		Amount:   types.USD(5000),
		PaidAt:   now,
		Note:     "Registration - Basic",
	}
	return m, p
}

func newStaff(username string) *staff.Staff {
	return &staff.Staff{
		Entity:   types.NewEntity(now),
		ID:       id.NewStaffID(),
		Name:     "Sam",
		Role:     staff.RoleTrainer,
		Salary:   types.USD(8000),
		Username: username,
		Active:   true,
	}
}

func TestRegisterAndRenew(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	m, p := newMember("Ana@Gym.test")
	require.NoError(t, s.RegisterMember(ctx, m, p))

	got, err := s.GetMemberByEmail(ctx, "ana@gym.test")
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.True(t, got.ExpiresAt.Equal(m.ExpiresAt))
	assert.Nil(t, got.TerminatedAt)

	dup, dupPay := newMember("ana@gym.test")
	err = s.RegisterMember(ctx, dup, dupPay)
	require.ErrorIs(t, err, ironvault.ErrAlreadyExists)

	m.ExpiresAt = m.ExpiresAt.Add(member.Term)
	renewal := &payment.Payment{
		Entity:   types.NewEntity(now),
		ID:       id.NewPaymentID(),
		MemberID: m.ID.Ptr(),
		Amount:   types.USD(5000),
		PaidAt:   now.Add(time.Hour),
	}
	require.NoError(t, s.RenewMember(ctx, m, renewal))

	counts, err := s.CountPaymentsByMember(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[m.ID])

	history, err := s.ListPayments(ctx, payment.ListOpts{MemberID: m.ID})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, renewal.ID, history[0].ID)

	totals, err := s.LedgerTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger.Totals{Revenue: 10000}, totals)
}

func TestSalaryPaymentUniquePerPeriod(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	st := newStaff("sam")
	require.NoError(t, s.CreateStaff(ctx, st))

	pair := func() (*salary.Payment, *expense.Expense) {
		return &salary.Payment{
				Entity:  types.NewEntity(now),
				ID:      id.NewSalaryPaymentID(),
				StaffID: st.ID,
				Amount:  types.USD(8000),
				PaidAt:  now,
				Period:  salary.PeriodOf(now),
				Year:    salary.YearOf(now),
			}, &expense.Expense{
				Entity:  types.NewEntity(now),
				ID:      id.NewExpenseID(),
				Type:    expense.TypeSalary,
				Amount:  types.USD(8000),
				SpentAt: now,
				StaffID: st.ID.Ptr(),
			}
	}

	sp, e := pair()
	require.NoError(t, s.RecordSalaryPayment(ctx, sp, e))

	again, againExp := pair()
	err := s.RecordSalaryPayment(ctx, again, againExp)
	require.ErrorIs(t, err, ironvault.ErrAlreadyExists)

	expenses, err := s.ListExpenses(ctx, expense.ListOpts{Type: expense.TypeSalary})
	require.NoError(t, err)
	assert.Len(t, expenses, 1, "the losing expense must be rolled back")

	got, err := s.GetSalaryPayment(ctx, st.ID, salary.PeriodOf(now))
	require.NoError(t, err)
	assert.Equal(t, sp.ID, got.ID)

	totals, err := s.LedgerTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger.Totals{Expenses: 8000, Salaries: 8000}, totals)
}

func TestSettleEquipmentOrder(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	o := &equipment.Order{
		Entity:        types.NewEntity(now),
		ID:            id.NewOrderID(),
		EquipmentName: "Kettlebell",
		Quantity:      4,
		TotalPrice:    types.USD(12000),
		OrderedAt:     now,
	}
	require.NoError(t, s.CreateOrder(ctx, o))

	expenseFor := func() *expense.Expense {
		return &expense.Expense{
			Entity:  types.NewEntity(now),
			ID:      id.NewExpenseID(),
			Type:    expense.TypeEquipment,
			Amount:  o.TotalPrice,
			SpentAt: now,
			OrderID: o.ID.Ptr(),
		}
	}

	require.NoError(t, s.SettleEquipmentOrder(ctx, o.ID, now, expenseFor()))
	err := s.SettleEquipmentOrder(ctx, o.ID, now, expenseFor())
	require.ErrorIs(t, err, ironvault.ErrOrderAlreadyPaid)

	err = s.SettleEquipmentOrder(ctx, id.NewOrderID(), now, expenseFor())
	require.ErrorIs(t, err, ironvault.ErrOrderNotFound)

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Paid)
	require.NotNil(t, got.PaidAt)
	assert.True(t, got.UpdatedAt.Equal(now), "updated_at %v", got.UpdatedAt)

	unpaid, err := s.ListOrders(ctx, equipment.ListOpts{UnpaidOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unpaid)

	totals, err := s.LedgerTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), totals.Expenses)
}

func TestStaffUsernameUnique(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.CreateStaff(ctx, newStaff("desk")))
	err := s.CreateStaff(ctx, newStaff("desk"))
	require.ErrorIs(t, err, ironvault.ErrAlreadyExists)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	_, err := s.GetMember(ctx, id.NewMemberID())
	assert.ErrorIs(t, err, ironvault.ErrMemberNotFound)

	_, err = s.GetStaff(ctx, id.NewStaffID())
	assert.ErrorIs(t, err, ironvault.ErrStaffNotFound)

	_, err = s.GetPlan(ctx, id.NewPlanID())
	assert.ErrorIs(t, err, ironvault.ErrPlanNotFound)

	_, err = s.GetSalaryPayment(ctx, id.NewStaffID(), "2026-10")
	assert.ErrorIs(t, err, ironvault.ErrSalaryPaymentNotFound)

	err = s.UpdateMachineStatus(ctx, id.NewMachineID(), equipment.MachineMaintenance, time.Now())
	assert.ErrorIs(t, err, ironvault.ErrMachineNotFound)
}
