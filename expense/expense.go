package expense

import (
	"context"
	"time"

	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

type Type string

const (
	TypeSalary    Type = "salary"
	TypeMachine   Type = "machine"
	TypeEquipment Type = "equipment"
	TypeOther     Type = "other"
)

// Expense is one outflow in the append-only ledger.
type Expense struct {
	types.Entity
	ID          id.ExpenseID `json:"id"`
	Type        Type         `json:"type"`
	Description string       `json:"description"`
	Amount      types.Money  `json:"amount"`
	SpentAt     time.Time    `json:"spent_at"`
	OrderID     *id.OrderID  `json:"order_id,omitempty"`
	StaffID     *id.StaffID  `json:"staff_id,omitempty"`
}

type Store interface {
	ListExpenses(ctx context.Context, opts ListOpts) ([]*Expense, error)
}

// ListOpts filters ListExpenses; results are ordered newest first.
type ListOpts struct {
	Type Type
}
