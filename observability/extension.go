// Package observability provides a metrics plugin for IronVault that counts
// gym events through a MetricFactory.
package observability

import (
	"context"

	"github.com/HassanShehryar1/IronVault-Gym-Management/event"
	"github.com/HassanShehryar1/IronVault-Gym-Management/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                 = (*MetricsExtension)(nil)
	_ plugin.OnMemberRegistered     = (*MetricsExtension)(nil)
	_ plugin.OnMemberCheckedIn      = (*MetricsExtension)(nil)
	_ plugin.OnMemberRenewed        = (*MetricsExtension)(nil)
	_ plugin.OnMemberTerminated     = (*MetricsExtension)(nil)
	_ plugin.OnMembershipExpiring   = (*MetricsExtension)(nil)
	_ plugin.OnStaffHired           = (*MetricsExtension)(nil)
	_ plugin.OnStaffTerminated      = (*MetricsExtension)(nil)
	_ plugin.OnSalaryPaid           = (*MetricsExtension)(nil)
	_ plugin.OnExpenseRecorded      = (*MetricsExtension)(nil)
	_ plugin.OnEquipmentOrderPlaced = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records gym lifecycle metrics. Amounts are observed in
// minor currency units.
type MetricsExtension struct {
	// Membership metrics
	MembersRegistered  Counter
	MembersRenewed     Counter
	MembersTerminated  Counter
	CheckInsAdmitted   Counter
	CheckInsDenied     Counter
	ExpiryNoticesSent  Counter
	MembershipFeeTotal Histogram

	// Staff metrics
	StaffHired          Counter
	StaffTerminated     Counter
	SalariesPaid        Counter
	SalariesAlreadyPaid Counter

	// Ledger metrics
	ExpensesRecorded Counter
	ExpenseAmount    Histogram
	OrdersPlaced     Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		MembersRegistered:  factory.Counter("ironvault.member.registered"),
		MembersRenewed:     factory.Counter("ironvault.member.renewed"),
		MembersTerminated:  factory.Counter("ironvault.member.terminated"),
		CheckInsAdmitted:   factory.Counter("ironvault.checkin.admitted"),
		CheckInsDenied:     factory.Counter("ironvault.checkin.denied"),
		ExpiryNoticesSent:  factory.Counter("ironvault.membership.expiring"),
		MembershipFeeTotal: factory.Histogram("ironvault.membership.fee_cents"),

		StaffHired:          factory.Counter("ironvault.staff.hired"),
		StaffTerminated:     factory.Counter("ironvault.staff.terminated"),
		SalariesPaid:        factory.Counter("ironvault.salary.paid"),
		SalariesAlreadyPaid: factory.Counter("ironvault.salary.already_paid"),

		ExpensesRecorded: factory.Counter("ironvault.expense.recorded"),
		ExpenseAmount:    factory.Histogram("ironvault.expense.amount_cents"),
		OrdersPlaced:     factory.Counter("ironvault.equipment.order.placed"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// ──────────────────────────────────────────────────
// Membership hooks
// ──────────────────────────────────────────────────

// OnMemberRegistered implements plugin.OnMemberRegistered.
func (m *MetricsExtension) OnMemberRegistered(_ context.Context, e *event.MemberRegistered) error {
	m.MembersRegistered.Inc()
	m.MembershipFeeTotal.Observe(float64(e.Fee.Amount))
	return nil
}

// OnMemberCheckedIn implements plugin.OnMemberCheckedIn.
func (m *MetricsExtension) OnMemberCheckedIn(_ context.Context, e *event.MemberCheckedIn) error {
	if e.Admitted {
		m.CheckInsAdmitted.Inc()
	} else {
		m.CheckInsDenied.Inc()
	}
	return nil
}

// OnMemberRenewed implements plugin.OnMemberRenewed.
func (m *MetricsExtension) OnMemberRenewed(_ context.Context, e *event.MemberRenewed) error {
	m.MembersRenewed.Inc()
	m.MembershipFeeTotal.Observe(float64(e.Fee.Amount))
	return nil
}

// OnMemberTerminated implements plugin.OnMemberTerminated.
func (m *MetricsExtension) OnMemberTerminated(_ context.Context, _ *event.MemberTerminated) error {
	m.MembersTerminated.Inc()
	return nil
}

// OnMembershipExpiring implements plugin.OnMembershipExpiring.
func (m *MetricsExtension) OnMembershipExpiring(_ context.Context, _ *event.MembershipExpiring) error {
	m.ExpiryNoticesSent.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Staff hooks
// ──────────────────────────────────────────────────

// OnStaffHired implements plugin.OnStaffHired.
func (m *MetricsExtension) OnStaffHired(_ context.Context, _ *event.StaffHired) error {
	m.StaffHired.Inc()
	return nil
}

// OnStaffTerminated implements plugin.OnStaffTerminated.
func (m *MetricsExtension) OnStaffTerminated(_ context.Context, _ *event.StaffTerminated) error {
	m.StaffTerminated.Inc()
	return nil
}

// OnSalaryPaid implements plugin.OnSalaryPaid.
func (m *MetricsExtension) OnSalaryPaid(_ context.Context, e *event.SalaryPaid) error {
	if e.AlreadyPaid {
		m.SalariesAlreadyPaid.Inc()
		return nil
	}
	m.SalariesPaid.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Ledger hooks
// ──────────────────────────────────────────────────

// OnExpenseRecorded implements plugin.OnExpenseRecorded.
func (m *MetricsExtension) OnExpenseRecorded(_ context.Context, e *event.ExpenseRecorded) error {
	m.ExpensesRecorded.Inc()
	m.ExpenseAmount.Observe(float64(e.Amount.Amount))
	return nil
}

// OnEquipmentOrderPlaced implements plugin.OnEquipmentOrderPlaced.
func (m *MetricsExtension) OnEquipmentOrderPlaced(_ context.Context, _ *event.EquipmentOrderPlaced) error {
	m.OrdersPlaced.Inc()
	return nil
}
