// Package plugin is the gym's event bus. Plugins implement any subset of
// the hook interfaces below and are discovered by type assertion at
// registration.
package plugin

import (
	"context"

	"github.com/HassanShehryar1/IronVault-Gym-Management/event"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called from Gym.Start after migrations. gym is the *ironvault.Gym.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, gym any) error
}

type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Membership hooks
// ──────────────────────────────────────────────────

type OnMemberRegistered interface {
	Plugin
	OnMemberRegistered(ctx context.Context, e *event.MemberRegistered) error
}

type OnMemberCheckedIn interface {
	Plugin
	OnMemberCheckedIn(ctx context.Context, e *event.MemberCheckedIn) error
}

type OnMemberRenewed interface {
	Plugin
	OnMemberRenewed(ctx context.Context, e *event.MemberRenewed) error
}

type OnMemberTerminated interface {
	Plugin
	OnMemberTerminated(ctx context.Context, e *event.MemberTerminated) error
}

// OnMembershipExpiring is called at most once per member per day.
type OnMembershipExpiring interface {
	Plugin
	OnMembershipExpiring(ctx context.Context, e *event.MembershipExpiring) error
}

// ──────────────────────────────────────────────────
// Staff and payroll hooks
// ──────────────────────────────────────────────────

type OnStaffHired interface {
	Plugin
	OnStaffHired(ctx context.Context, e *event.StaffHired) error
}

type OnStaffTerminated interface {
	Plugin
	OnStaffTerminated(ctx context.Context, e *event.StaffTerminated) error
}

type OnSalaryPaid interface {
	Plugin
	OnSalaryPaid(ctx context.Context, e *event.SalaryPaid) error
}

// ──────────────────────────────────────────────────
// Ledger hooks
// ──────────────────────────────────────────────────

type OnExpenseRecorded interface {
	Plugin
	OnExpenseRecorded(ctx context.Context, e *event.ExpenseRecorded) error
}

type OnEquipmentOrderPlaced interface {
	Plugin
	OnEquipmentOrderPlaced(ctx context.Context, e *event.EquipmentOrderPlaced) error
}
