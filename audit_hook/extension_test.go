package audithook_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audithook "github.com/HassanShehryar1/IronVault-Gym-Management/audit_hook"
	"github.com/HassanShehryar1/IronVault-Gym-Management/event"
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

type trail struct {
	events []*audithook.AuditEvent
}

func (t *trail) recorder() audithook.Recorder {
	return audithook.RecorderFunc(func(_ context.Context, e *audithook.AuditEvent) error {
		t.events = append(t.events, e)
		return nil
	})
}

func TestSalaryEventsMapToActions(t *testing.T) {
	tr := &trail{}
	ext := audithook.New(tr.recorder())
	staffID := id.NewStaffID()

	ctx := context.Background()
	require.NoError(t, ext.OnSalaryPaid(ctx, &event.SalaryPaid{StaffID: staffID, Amount: types.USD(8000), Period: "2026-10"}))
	require.NoError(t, ext.OnSalaryPaid(ctx, &event.SalaryPaid{StaffID: staffID, Amount: types.USD(8000), Period: "2026-10", AlreadyPaid: true}))

	require.Len(t, tr.events, 2)
	assert.Equal(t, audithook.ActionSalaryPaid, tr.events[0].Action)
	assert.Equal(t, audithook.ActionSalaryRepeat, tr.events[1].Action)
	assert.Equal(t, staffID.String(), tr.events[0].ResourceID)
	assert.Equal(t, "2026-10", tr.events[0].Metadata["period"])
}

func TestOnlyDeniedCheckInsAreAudited(t *testing.T) {
	tr := &trail{}
	ext := audithook.New(tr.recorder())
	ctx := context.Background()

	require.NoError(t, ext.OnMemberCheckedIn(ctx, &event.MemberCheckedIn{MemberID: id.NewMemberID(), Admitted: true, Status: "active"}))
	require.NoError(t, ext.OnMemberCheckedIn(ctx, &event.MemberCheckedIn{MemberID: id.NewMemberID(), Admitted: false, Status: "expired"}))

	require.Len(t, tr.events, 1)
	assert.Equal(t, audithook.ActionCheckInDenied, tr.events[0].Action)
	assert.Equal(t, audithook.OutcomeFailure, tr.events[0].Outcome)
	assert.Equal(t, "membership expired", tr.events[0].Reason)
}

func TestActionFilters(t *testing.T) {
	ctx := context.Background()

	tr := &trail{}
	ext := audithook.New(tr.recorder(), audithook.WithEnabledActions(audithook.ActionStaffHired))
	require.NoError(t, ext.OnStaffHired(ctx, &event.StaffHired{StaffID: id.NewStaffID()}))
	require.NoError(t, ext.OnStaffTerminated(ctx, &event.StaffTerminated{StaffID: id.NewStaffID()}))
	assert.Len(t, tr.events, 1)

	tr = &trail{}
	ext = audithook.New(tr.recorder(), audithook.WithDisabledActions(audithook.ActionExpenseRecorded))
	require.NoError(t, ext.OnExpenseRecorded(ctx, &event.ExpenseRecorded{ExpenseID: id.NewExpenseID(), Amount: types.USD(100)}))
	require.NoError(t, ext.OnEquipmentOrderPlaced(ctx, &event.EquipmentOrderPlaced{OrderID: id.NewOrderID(), Quantity: 2, TotalPrice: types.USD(100)}))
	require.Len(t, tr.events, 1)
	assert.Equal(t, audithook.ActionOrderPlaced, tr.events[0].Action)
}

func TestRecorderFailureIsSwallowed(t *testing.T) {
	failing := audithook.RecorderFunc(func(context.Context, *audithook.AuditEvent) error {
		return errors.New("trail offline")
	})
	ext := audithook.New(failing, audithook.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	err := ext.OnMemberTerminated(context.Background(), &event.MemberTerminated{MemberID: id.NewMemberID()})
	assert.NoError(t, err)
}
