// Package audithook bridges gym events to an audit trail backend.
//
// It defines a local Recorder interface; callers inject a RecorderFunc
// adapter for whatever trail they keep.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HassanShehryar1/IronVault-Gym-Management/event"
	"github.com/HassanShehryar1/IronVault-Gym-Management/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Extension)(nil)
	_ plugin.OnMemberRegistered     = (*Extension)(nil)
	_ plugin.OnMemberCheckedIn      = (*Extension)(nil)
	_ plugin.OnMemberRenewed        = (*Extension)(nil)
	_ plugin.OnMemberTerminated     = (*Extension)(nil)
	_ plugin.OnMembershipExpiring   = (*Extension)(nil)
	_ plugin.OnStaffHired           = (*Extension)(nil)
	_ plugin.OnStaffTerminated      = (*Extension)(nil)
	_ plugin.OnSalaryPaid           = (*Extension)(nil)
	_ plugin.OnExpenseRecorded      = (*Extension)(nil)
	_ plugin.OnEquipmentOrderPlaced = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is one audit trail entry.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges gym events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Membership hooks
// ──────────────────────────────────────────────────

// OnMemberRegistered implements plugin.OnMemberRegistered.
func (e *Extension) OnMemberRegistered(ctx context.Context, ev *event.MemberRegistered) error {
	return e.record(ctx, ActionMemberRegistered, SeverityInfo, OutcomeSuccess,
		ResourceMember, ev.MemberID.String(), CategoryMembership, nil,
		"plan_id", ev.PlanID.String(),
		"fee", ev.Fee.String(),
		"expires_at", ev.ExpiresAt,
	)
}

// OnMemberCheckedIn implements plugin.OnMemberCheckedIn. Only refused
// check-ins are audited.
func (e *Extension) OnMemberCheckedIn(ctx context.Context, ev *event.MemberCheckedIn) error {
	if ev.Admitted {
		return nil
	}
	return e.record(ctx, ActionCheckInDenied, SeverityWarning, OutcomeFailure,
		ResourceMember, ev.MemberID.String(), CategoryAccess,
		fmt.Errorf("membership %s", ev.Status),
		"at", ev.At,
	)
}

// OnMemberRenewed implements plugin.OnMemberRenewed.
func (e *Extension) OnMemberRenewed(ctx context.Context, ev *event.MemberRenewed) error {
	return e.record(ctx, ActionMemberRenewed, SeverityInfo, OutcomeSuccess,
		ResourceMember, ev.MemberID.String(), CategoryMembership, nil,
		"plan_id", ev.PlanID.String(),
		"fee", ev.Fee.String(),
		"expires_at", ev.ExpiresAt,
	)
}

// OnMemberTerminated implements plugin.OnMemberTerminated.
func (e *Extension) OnMemberTerminated(ctx context.Context, ev *event.MemberTerminated) error {
	return e.record(ctx, ActionMemberTerminated, SeverityWarning, OutcomeSuccess,
		ResourceMember, ev.MemberID.String(), CategoryMembership, nil,
		"at", ev.At,
	)
}

// OnMembershipExpiring implements plugin.OnMembershipExpiring.
func (e *Extension) OnMembershipExpiring(ctx context.Context, ev *event.MembershipExpiring) error {
	return e.record(ctx, ActionMembershipExpiring, SeverityInfo, OutcomeSuccess,
		ResourceMember, ev.MemberID.String(), CategoryMembership, nil,
		"expires_at", ev.ExpiresAt,
	)
}

// ──────────────────────────────────────────────────
// Staff hooks
// ──────────────────────────────────────────────────

// OnStaffHired implements plugin.OnStaffHired.
func (e *Extension) OnStaffHired(ctx context.Context, ev *event.StaffHired) error {
	return e.record(ctx, ActionStaffHired, SeverityInfo, OutcomeSuccess,
		ResourceStaff, ev.StaffID.String(), CategoryPayroll, nil,
		"role", ev.Role,
		"salary", ev.Salary.String(),
	)
}

// OnStaffTerminated implements plugin.OnStaffTerminated.
func (e *Extension) OnStaffTerminated(ctx context.Context, ev *event.StaffTerminated) error {
	return e.record(ctx, ActionStaffTerminated, SeverityWarning, OutcomeSuccess,
		ResourceStaff, ev.StaffID.String(), CategoryPayroll, nil,
		"at", ev.At,
	)
}

// OnSalaryPaid implements plugin.OnSalaryPaid.
func (e *Extension) OnSalaryPaid(ctx context.Context, ev *event.SalaryPaid) error {
	action := ActionSalaryPaid
	if ev.AlreadyPaid {
		action = ActionSalaryRepeat
	}
	return e.record(ctx, action, SeverityInfo, OutcomeSuccess,
		ResourceSalary, ev.StaffID.String(), CategoryPayroll, nil,
		"period", ev.Period,
		"amount", ev.Amount.String(),
	)
}

// ──────────────────────────────────────────────────
// Ledger hooks
// ──────────────────────────────────────────────────

// OnExpenseRecorded implements plugin.OnExpenseRecorded.
func (e *Extension) OnExpenseRecorded(ctx context.Context, ev *event.ExpenseRecorded) error {
	return e.record(ctx, ActionExpenseRecorded, SeverityInfo, OutcomeSuccess,
		ResourceExpense, ev.ExpenseID.String(), CategoryLedger, nil,
		"type", ev.Type,
		"amount", ev.Amount.String(),
		"description", ev.Description,
	)
}

// OnEquipmentOrderPlaced implements plugin.OnEquipmentOrderPlaced.
func (e *Extension) OnEquipmentOrderPlaced(ctx context.Context, ev *event.EquipmentOrderPlaced) error {
	return e.record(ctx, ActionOrderPlaced, SeverityInfo, OutcomeSuccess,
		ResourceOrder, ev.OrderID.String(), CategoryLedger, nil,
		"equipment", ev.EquipmentName,
		"quantity", ev.Quantity,
		"total", ev.TotalPrice.String(),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
