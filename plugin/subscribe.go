package plugin

import (
	"context"

	"github.com/HassanShehryar1/IronVault-Gym-Management/event"
)

// The Subscribe helpers turn a plain func into a single-hook plugin.

type named string

func (n named) Name() string { return string(n) }

type membershipExpiringFunc struct {
	named
	fn func(context.Context, *event.MembershipExpiring) error
}

func (f membershipExpiringFunc) OnMembershipExpiring(ctx context.Context, e *event.MembershipExpiring) error {
	return f.fn(ctx, e)
}

// SubscribeMembershipExpiring wraps fn as an OnMembershipExpiring plugin.
func SubscribeMembershipExpiring(name string, fn func(context.Context, *event.MembershipExpiring) error) Plugin {
	return membershipExpiringFunc{named(name), fn}
}

type salaryPaidFunc struct {
	named
	fn func(context.Context, *event.SalaryPaid) error
}

func (f salaryPaidFunc) OnSalaryPaid(ctx context.Context, e *event.SalaryPaid) error {
	return f.fn(ctx, e)
}

// SubscribeSalaryPaid wraps fn as an OnSalaryPaid plugin.
func SubscribeSalaryPaid(name string, fn func(context.Context, *event.SalaryPaid) error) Plugin {
	return salaryPaidFunc{named(name), fn}
}

type expenseRecordedFunc struct {
	named
	fn func(context.Context, *event.ExpenseRecorded) error
}

func (f expenseRecordedFunc) OnExpenseRecorded(ctx context.Context, e *event.ExpenseRecorded) error {
	return f.fn(ctx, e)
}

// SubscribeExpenseRecorded wraps fn as an OnExpenseRecorded plugin.
func SubscribeExpenseRecorded(name string, fn func(context.Context, *event.ExpenseRecorded) error) Plugin {
	return expenseRecordedFunc{named(name), fn}
}

type memberRegisteredFunc struct {
	named
	fn func(context.Context, *event.MemberRegistered) error
}

func (f memberRegisteredFunc) OnMemberRegistered(ctx context.Context, e *event.MemberRegistered) error {
	return f.fn(ctx, e)
}

// SubscribeMemberRegistered wraps fn as an OnMemberRegistered plugin.
func SubscribeMemberRegistered(name string, fn func(context.Context, *event.MemberRegistered) error) Plugin {
	return memberRegisteredFunc{named(name), fn}
}

type equipmentOrderPlacedFunc struct {
	named
	fn func(context.Context, *event.EquipmentOrderPlaced) error
}

func (f equipmentOrderPlacedFunc) OnEquipmentOrderPlaced(ctx context.Context, e *event.EquipmentOrderPlaced) error {
	return f.fn(ctx, e)
}

// SubscribeEquipmentOrderPlaced wraps fn as an OnEquipmentOrderPlaced plugin.
func SubscribeEquipmentOrderPlaced(name string, fn func(context.Context, *event.EquipmentOrderPlaced) error) Plugin {
	return equipmentOrderPlacedFunc{named(name), fn}
}
