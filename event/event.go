// Package event defines the payloads delivered to plugins. Payloads are
// snapshots taken after the write that produced them has committed.
package event

import (
	"time"

	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

// MembershipExpiring is raised once per member per day for members whose
// term ends tomorrow.
type MembershipExpiring struct {
	MemberID  id.MemberID `json:"member_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// SalaryPaid is raised for every PaySalary call that resolves, including
// repeats within a period (AlreadyPaid set).
type SalaryPaid struct {
	StaffID     id.StaffID  `json:"staff_id"`
	Name        string      `json:"name"`
	Role        string      `json:"role"`
	Amount      types.Money `json:"amount"`
	Period      string      `json:"period"`
	Year        string      `json:"year"`
	AlreadyPaid bool        `json:"already_paid"`
}

type MemberRegistered struct {
	MemberID  id.MemberID `json:"member_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	PlanID    id.PlanID   `json:"plan_id"`
	Fee       types.Money `json:"fee"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type MemberCheckedIn struct {
	MemberID id.MemberID `json:"member_id"`
	Admitted bool        `json:"admitted"`
	Status   string      `json:"status"`
	At       time.Time   `json:"at"`
}

type MemberRenewed struct {
	MemberID  id.MemberID `json:"member_id"`
	PlanID    id.PlanID   `json:"plan_id"`
	Fee       types.Money `json:"fee"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type MemberTerminated struct {
	MemberID id.MemberID `json:"member_id"`
	At       time.Time   `json:"at"`
}

type StaffHired struct {
	StaffID id.StaffID  `json:"staff_id"`
	Name    string      `json:"name"`
	Role    string      `json:"role"`
	Salary  types.Money `json:"salary"`
}

type StaffTerminated struct {
	StaffID id.StaffID `json:"staff_id"`
	At      time.Time  `json:"at"`
}

// ExpenseRecorded is raised for every committed outflow.
type ExpenseRecorded struct {
	ExpenseID   id.ExpenseID `json:"expense_id"`
	Type        string       `json:"type"`
	Description string       `json:"description"`
	Amount      types.Money  `json:"amount"`
	SpentAt     time.Time    `json:"spent_at"`
}

type EquipmentOrderPlaced struct {
	OrderID       id.OrderID  `json:"order_id"`
	EquipmentName string      `json:"equipment_name"`
	Quantity      int         `json:"quantity"`
	TotalPrice    types.Money `json:"total_price"`
}
