package ironvault_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ironvault "github.com/HassanShehryar1/IronVault-Gym-Management"
	"github.com/HassanShehryar1/IronVault-Gym-Management/expense"
	"github.com/HassanShehryar1/IronVault-Gym-Management/staff"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

func TestGymScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	basic := f.plan(t, "Basic", 5000)
	reg := f.register(t, "Ayesha", basic)

	_, err := f.gym.Renew(ctx, reg.Member.ID, basic.ID)
	require.NoError(t, err)

	report, err := f.gym.RetentionAnalysis(ctx)
	require.NoError(t, err)
	require.Len(t, report.Members, 1)
	assert.Equal(t, 1, report.Members[0].Renewals)
	assert.InDelta(t, 1.0, report.AverageRenewals, 1e-9)

	trainer := f.hire(t, "Bilal", staff.RoleTrainer, 8000)

	first, err := f.gym.PaySalary(ctx, trainer.ID)
	require.NoError(t, err)
	assert.False(t, first.AlreadyPaid)

	summary, err := f.gym.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.USD(10000), summary.TotalRevenue)
	assert.Equal(t, types.USD(8000), summary.TotalSalariesPaid)
	assert.Equal(t, types.USD(0), summary.TotalExpenses)
	assert.Equal(t, types.USD(2000), summary.AvailableBalance)

	second, err := f.gym.PaySalary(ctx, trainer.ID)
	require.NoError(t, err)
	assert.True(t, second.AlreadyPaid)
	assert.Equal(t, first.Payment.ID, second.Payment.ID)

	_, err = f.gym.PurchaseMachine(ctx, "Treadmill", "", types.USD(20000))
	var insufficient *ironvault.InsufficientFundsError
	require.True(t, errors.As(err, &insufficient), "got %v", err)
	assert.Equal(t, types.USD(2000), insufficient.Available)
	assert.Equal(t, types.USD(20000), insufficient.Required)
	assert.True(t, ironvault.IsInsufficientFunds(err))

	machines, err := f.gym.ListExpenses(ctx, expense.ListOpts{Type: expense.TypeMachine})
	require.NoError(t, err)
	assert.Empty(t, machines)

	all, err := f.gym.ListMachines(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	after, err := f.gym.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, summary, after, "a rejected outflow changes nothing")
}
