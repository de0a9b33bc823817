package ironvault

import (
	"context"
	"fmt"
	"strings"

	"github.com/HassanShehryar1/IronVault-Gym-Management/equipment"
	"github.com/HassanShehryar1/IronVault-Gym-Management/event"
	"github.com/HassanShehryar1/IronVault-Gym-Management/expense"
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

type machineInput struct {
	Name   string `validate:"required,max=200"`
	Status string `validate:"max=64"`
}

type orderInput struct {
	Name     string `validate:"required,max=200"`
	Quantity int    `validate:"gt=0"`
}

func (g *Gym) newMachine(name, status string) (*equipment.Machine, error) {
	in := machineInput{Name: strings.TrimSpace(name), Status: strings.TrimSpace(status)}
	if err := g.check(in); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = equipment.MachineOperational
	}
	return &equipment.Machine{
		Entity: types.NewEntity(g.clock()),
		ID:     id.NewMachineID(),
		Name:   in.Name,
		Status: in.Status,
	}, nil
}

// AddMachine records a machine without spending money, for equipment the gym
// already owns.
func (g *Gym) AddMachine(ctx context.Context, name, status string) (*equipment.Machine, error) {
	m, err := g.newMachine(name, status)
	if err != nil {
		return nil, err
	}

	ctx, cancel := g.bounded(ctx)
	defer cancel()

	if err := g.store.CreateMachine(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// PurchaseMachine buys a machine if the balance covers price.
func (g *Gym) PurchaseMachine(ctx context.Context, name, status string, price types.Money) (*equipment.Machine, error) {
	m, err := g.newMachine(name, status)
	if err != nil {
		return nil, err
	}
	if err := g.checkAmount("price", price); err != nil {
		return nil, err
	}

	ctx, cancel := g.bounded(ctx)
	defer cancel()

	now := g.clock()
	m.PurchasePrice = &price
	m.PurchasedAt = &now
	exp := &expense.Expense{
		Entity:      types.NewEntity(now),
		ID:          id.NewExpenseID(),
		Type:        expense.TypeMachine,
		Description: "Purchase of " + m.Name,
		Amount:      price,
		SpentAt:     now,
	}

	err = g.withOutflow(ctx, func(ctx context.Context) error {
		if err := g.authorize(ctx, price); err != nil {
			return err
		}
		return g.store.RecordMachinePurchase(ctx, m, exp)
	})
	if err != nil {
		return nil, err
	}

	g.logger.Info("machine purchased", "machine_id", m.ID.String(), "amount", price.String())
	g.emitExpense(ctx, exp)
	return m, nil
}

func (g *Gym) UpdateMachineStatus(ctx context.Context, machineID id.MachineID, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return ValidationError{Field: "status", Message: "is required"}
	}

	ctx, cancel := g.bounded(ctx)
	defer cancel()
	return g.store.UpdateMachineStatus(ctx, machineID, status, g.clock())
}

func (g *Gym) ListMachines(ctx context.Context) ([]*equipment.Machine, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()
	return g.store.ListMachines(ctx)
}

// PlaceEquipmentOrder records an unpaid order. No money moves until
// PayEquipmentOrder.
func (g *Gym) PlaceEquipmentOrder(ctx context.Context, name string, quantity int, total types.Money) (*equipment.Order, error) {
	in := orderInput{Name: strings.TrimSpace(name), Quantity: quantity}
	if err := g.check(in); err != nil {
		return nil, err
	}
	if err := g.checkAmount("total_price", total); err != nil {
		return nil, err
	}

	ctx, cancel := g.bounded(ctx)
	defer cancel()

	now := g.clock()
	o := &equipment.Order{
		Entity:        types.NewEntity(now),
		ID:            id.NewOrderID(),
		EquipmentName: in.Name,
		Quantity:      in.Quantity,
		TotalPrice:    total,
		OrderedAt:     now,
	}
	if err := g.store.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	g.plugins.EmitEquipmentOrderPlaced(ctx, &event.EquipmentOrderPlaced{
		OrderID:       o.ID,
		EquipmentName: o.EquipmentName,
		Quantity:      o.Quantity,
		TotalPrice:    o.TotalPrice,
	})
	return o, nil
}

// PayEquipmentOrder settles an unpaid order if the balance covers it.
// Exactly one of several concurrent payers succeeds.
func (g *Gym) PayEquipmentOrder(ctx context.Context, orderID id.OrderID) (*equipment.Order, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()

	o, err := g.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Paid {
		return nil, ErrOrderAlreadyPaid
	}

	now := g.clock()
	exp := &expense.Expense{
		Entity:      types.NewEntity(now),
		ID:          id.NewExpenseID(),
		Type:        expense.TypeEquipment,
		Description: fmt.Sprintf("Payment for %s (Qty: %d)", o.EquipmentName, o.Quantity),
		Amount:      o.TotalPrice,
		SpentAt:     now,
		OrderID:     o.ID.Ptr(),
	}

	err = g.withOutflow(ctx, func(ctx context.Context) error {
		if err := g.authorize(ctx, o.TotalPrice); err != nil {
			return err
		}
		return g.store.SettleEquipmentOrder(ctx, o.ID, now, exp)
	})
	if err != nil {
		return nil, err
	}

	o.Paid = true
	o.PaidAt = &now
	o.Touch(now)

	g.logger.Info("equipment order paid", "order_id", o.ID.String(), "amount", o.TotalPrice.String())
	g.emitExpense(ctx, exp)
	return o, nil
}

func (g *Gym) ListEquipmentOrders(ctx context.Context, opts equipment.ListOpts) ([]*equipment.Order, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()
	return g.store.ListOrders(ctx, opts)
}

// ListExpenses lists the expense ledger, newest first.
func (g *Gym) ListExpenses(ctx context.Context, opts expense.ListOpts) ([]*expense.Expense, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()
	return g.store.ListExpenses(ctx, opts)
}
