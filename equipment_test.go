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
	"github.com/HassanShehryar1/IronVault-Gym-Management/equipment"
	"github.com/HassanShehryar1/IronVault-Gym-Management/event"
	"github.com/HassanShehryar1/IronVault-Gym-Management/expense"
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/plugin"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

func TestPurchaseMachine(t *testing.T) {
	ctx := context.Background()
	var recorded []*event.ExpenseRecorded
	f := newFixture(t, ironvault.WithPlugin(plugin.SubscribeExpenseRecorded("capture",
		func(_ context.Context, e *event.ExpenseRecorded) error {
			recorded = append(recorded, e)
			return nil
		})))
	f.fund(t, 50000)

	m, err := f.gym.PurchaseMachine(ctx, "Rowing Machine", "", types.USD(30000))
	require.NoError(t, err)
	assert.Equal(t, equipment.MachineOperational, m.Status)
	require.NotNil(t, m.PurchasePrice)
	assert.Equal(t, types.USD(30000), *m.PurchasePrice)

	exps, err := f.gym.ListExpenses(ctx, expense.ListOpts{Type: expense.TypeMachine})
	require.NoError(t, err)
	require.Len(t, exps, 1)
	assert.Equal(t, "Purchase of Rowing Machine", exps[0].Description)

	require.Len(t, recorded, 1)
	assert.Equal(t, exps[0].ID, recorded[0].ExpenseID)

	summary, err := f.gym.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.USD(30000), summary.TotalExpenses)
	assert.Equal(t, types.USD(20000), summary.AvailableBalance)

	f.clock.Advance(time.Hour)
	require.NoError(t, f.gym.UpdateMachineStatus(ctx, m.ID, equipment.MachineMaintenance))
	machines, err := f.gym.ListMachines(ctx)
	require.NoError(t, err)
	require.Len(t, machines, 1)
	assert.Equal(t, equipment.MachineMaintenance, machines[0].Status)
	assert.Equal(t, epoch.Add(time.Hour), machines[0].UpdatedAt)
}

func TestPurchaseMachineExactBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fund(t, 20000)

	_, err := f.gym.PurchaseMachine(ctx, "Bench", equipment.MachineOperational, types.USD(20000))
	require.NoError(t, err)

	summary, err := f.gym.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.AvailableBalance.IsZero())
}

func TestConcurrentPurchasesCannotOverdraw(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fund(t, 10000)

	var (
		wg       sync.WaitGroup
		ok       atomic.Int32
		rejected atomic.Int32
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.gym.PurchaseMachine(ctx, "Bike", "", types.USD(6000))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ironvault.ErrInsufficientFunds):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(9), rejected.Load())

	summary, err := f.gym.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.USD(4000), summary.AvailableBalance)
	assert.False(t, summary.AvailableBalance.IsNegative())
}

func TestMachineValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fund(t, 10000)

	_, err := f.gym.PurchaseMachine(ctx, "", "", types.USD(100))
	assert.ErrorIs(t, err, ironvault.ErrInvalidInput)
	_, err = f.gym.PurchaseMachine(ctx, "Free", "", types.USD(0))
	assert.ErrorIs(t, err, ironvault.ErrInvalidInput)
	_, err = f.gym.PurchaseMachine(ctx, "Imported", "", types.EUR(100))
	assert.ErrorIs(t, err, ironvault.ErrInvalidInput)

	m, err := f.gym.AddMachine(ctx, "Legacy Squat Rack", equipment.MachineOutOfOrder)
	require.NoError(t, err)
	assert.Nil(t, m.PurchasePrice)

	summary, err := f.gym.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.USD(10000), summary.AvailableBalance, "adding an owned machine spends nothing")

	assert.ErrorIs(t, f.gym.UpdateMachineStatus(ctx, id.NewMachineID(), "Operational"), ironvault.ErrMachineNotFound)
	assert.ErrorIs(t, f.gym.UpdateMachineStatus(ctx, m.ID, " "), ironvault.ErrInvalidInput)
}

func TestEquipmentOrders(t *testing.T) {
	ctx := context.Background()
	var placed []*event.EquipmentOrderPlaced
	f := newFixture(t)
	require.NoError(t, f.gym.Plugins().Register(plugin.SubscribeEquipmentOrderPlaced("capture",
		func(_ context.Context, e *event.EquipmentOrderPlaced) error {
			placed = append(placed, e)
			return nil
		})))
	f.fund(t, 5000)

	o, err := f.gym.PlaceEquipmentOrder(ctx, "Kettlebell", 4, types.USD(12000))
	require.NoError(t, err)
	assert.False(t, o.Paid)
	require.Len(t, placed, 1)

	_, err = f.gym.PayEquipmentOrder(ctx, o.ID)
	require.ErrorIs(t, err, ironvault.ErrInsufficientFunds)

	unpaid, err := f.gym.ListEquipmentOrders(ctx, equipment.ListOpts{UnpaidOnly: true})
	require.NoError(t, err)
	assert.Len(t, unpaid, 1, "a rejected payment leaves the order unpaid")

	f.fund(t, 10000)
	paid, err := f.gym.PayEquipmentOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, paid.Paid)
	require.NotNil(t, paid.PaidAt)

	_, err = f.gym.PayEquipmentOrder(ctx, o.ID)
	assert.ErrorIs(t, err, ironvault.ErrOrderAlreadyPaid)
	_, err = f.gym.PayEquipmentOrder(ctx, id.NewOrderID())
	assert.ErrorIs(t, err, ironvault.ErrOrderNotFound)

	exps, err := f.gym.ListExpenses(ctx, expense.ListOpts{Type: expense.TypeEquipment})
	require.NoError(t, err)
	require.Len(t, exps, 1)
	assert.Equal(t, "Payment for Kettlebell (Qty: 4)", exps[0].Description)
	require.NotNil(t, exps[0].OrderID)
	assert.Equal(t, o.ID, *exps[0].OrderID)

	_, err = f.gym.PlaceEquipmentOrder(ctx, "Mats", 0, types.USD(100))
	assert.ErrorIs(t, err, ironvault.ErrInvalidInput)
}

func TestConcurrentOrderPaymentSettlesOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fund(t, 100000)
	o, err := f.gym.PlaceEquipmentOrder(ctx, "Dumbbells", 10, types.USD(20000))
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.gym.PayEquipmentOrder(ctx, o.ID)
			if err == nil {
				wins.Add(1)
				return
			}
			assert.ErrorIs(t, err, ironvault.ErrOrderAlreadyPaid)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	summary, err := f.gym.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.USD(80000), summary.AvailableBalance)
}
