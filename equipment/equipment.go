// Package equipment covers gym machines and equipment purchase orders.
package equipment

import (
	"context"
	"time"

	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

// Machine statuses in common use. Status is free text; these are the
// values the front desk offers.
const (
	MachineOperational = "Operational"
	MachineMaintenance = "Under Maintenance"
	MachineOutOfOrder  = "Out of Order"
)

// Machine is floor equipment. A nil PurchasePrice means the machine was
// never tracked as an expense.
type Machine struct {
	types.Entity
	ID            id.MachineID `json:"id"`
	Name          string       `json:"name"`
	Status        string       `json:"status"`
	PurchasePrice *types.Money `json:"purchase_price,omitempty"`
	PurchasedAt   *time.Time   `json:"purchased_at,omitempty"`
}

// Order is created unpaid and transitions to paid exactly once.
type Order struct {
	types.Entity
	ID            id.OrderID  `json:"id"`
	EquipmentName string      `json:"equipment_name"`
	Quantity      int         `json:"quantity"`
	TotalPrice    types.Money `json:"total_price"`
	OrderedAt     time.Time   `json:"ordered_at"`
	Paid          bool        `json:"paid"`
	PaidAt        *time.Time  `json:"paid_at,omitempty"`
}

type Store interface {
	CreateMachine(ctx context.Context, m *Machine) error
	GetMachine(ctx context.Context, machineID id.MachineID) (*Machine, error)
	ListMachines(ctx context.Context) ([]*Machine, error)
	UpdateMachineStatus(ctx context.Context, machineID id.MachineID, status string, at time.Time) error

	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, orderID id.OrderID) (*Order, error)
	ListOrders(ctx context.Context, opts ListOpts) ([]*Order, error)
}

// ListOpts filters ListOrders; results are ordered newest first.
type ListOpts struct {
	UnpaidOnly bool
}
