package audithook

// Action constants for audit events.
const (
	// Membership actions
	ActionMemberRegistered   = "member.registered"
	ActionMemberRenewed      = "member.renewed"
	ActionMemberTerminated   = "member.terminated"
	ActionCheckInDenied      = "checkin.denied"
	ActionMembershipExpiring = "membership.expiring"

	// Staff actions
	ActionStaffHired      = "staff.hired"
	ActionStaffTerminated = "staff.terminated"
	ActionSalaryPaid      = "salary.paid"
	ActionSalaryRepeat    = "salary.already_paid"

	// Ledger actions
	ActionExpenseRecorded = "expense.recorded"
	ActionOrderPlaced     = "equipment_order.placed"
)

// Resource constants for audit events.
const (
	ResourceMember  = "member"
	ResourceStaff   = "staff"
	ResourceSalary  = "salary_payment"
	ResourceExpense = "expense"
	ResourceOrder   = "equipment_order"
)

// Category constants for audit events.
const (
	CategoryMembership = "membership"
	CategoryAccess     = "access"
	CategoryPayroll    = "payroll"
	CategoryLedger     = "ledger"
)

// Severity levels for audit events.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
