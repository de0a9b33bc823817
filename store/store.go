// Package store defines the unified persistence interface that every
// IronVault backend implements.
package store

import (
	"context"
	"time"

	"github.com/HassanShehryar1/IronVault-Gym-Management/equipment"
	"github.com/HassanShehryar1/IronVault-Gym-Management/expense"
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/ledger"
	"github.com/HassanShehryar1/IronVault-Gym-Management/member"
	"github.com/HassanShehryar1/IronVault-Gym-Management/owner"
	"github.com/HassanShehryar1/IronVault-Gym-Management/payment"
	"github.com/HassanShehryar1/IronVault-Gym-Management/plan"
	"github.com/HassanShehryar1/IronVault-Gym-Management/salary"
	"github.com/HassanShehryar1/IronVault-Gym-Management/staff"
)

// Store is the unified storage interface for all IronVault entities.
//
// Writes that touch the ledger come in pairs and must be atomic: a reader
// never observes one half of a pair.
type Store interface {
	plan.Store
	member.Store
	payment.Store
	staff.Store
	salary.Store
	expense.Store
	equipment.Store
	owner.Store
	ledger.Store

	// RegisterMember inserts a member and its first payment together.
	// A duplicate email returns ErrAlreadyExists.
	RegisterMember(ctx context.Context, m *member.Member, p *payment.Payment) error

	// RenewMember persists m's new expiry, status and plan together with p.
	RenewMember(ctx context.Context, m *member.Member, p *payment.Payment) error

	// RecordSalaryPayment inserts a salary payment and its mirrored expense.
	// A second payment for the same (StaffID, Period) returns
	// ErrAlreadyExists and writes nothing.
	RecordSalaryPayment(ctx context.Context, sp *salary.Payment, e *expense.Expense) error

	// RecordMachinePurchase inserts a machine and its purchase expense.
	RecordMachinePurchase(ctx context.Context, m *equipment.Machine, e *expense.Expense) error

	// SettleEquipmentOrder flips an unpaid order to paid and inserts e.
	// It returns ErrOrderNotFound or ErrOrderAlreadyPaid and then writes
	// nothing.
	SettleEquipmentOrder(ctx context.Context, orderID id.OrderID, paidAt time.Time, e *expense.Expense) error

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
