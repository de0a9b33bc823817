package ironvault

import (
	"context"
	"errors"
	"fmt"

	"github.com/HassanShehryar1/IronVault-Gym-Management/event"
	"github.com/HassanShehryar1/IronVault-Gym-Management/expense"
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/salary"
	"github.com/HassanShehryar1/IronVault-Gym-Management/staff"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

// SalaryResult is the outcome of PaySalary. When AlreadyPaid is set, Payment
// is the record that settled the period earlier and nothing was written.
type SalaryResult struct {
	Staff       *staff.Staff     `json:"staff"`
	Payment     *salary.Payment  `json:"payment"`
	Expense     *expense.Expense `json:"expense,omitempty"`
	AlreadyPaid bool             `json:"already_paid"`
}

// PaySalary pays staffID for the current month at most once. A repeat call in
// the same month reports AlreadyPaid without checking funds.
func (g *Gym) PaySalary(ctx context.Context, staffID id.StaffID) (*SalaryResult, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()

	now := g.clock()
	period := salary.PeriodOf(now)
	res := &SalaryResult{}

	// The staff row is read under the lock so a concurrent salary change is
	// either fully before or fully after this payment.
	err := g.withOutflow(ctx, func(ctx context.Context) error {
		st, err := g.store.GetStaff(ctx, staffID)
		if err != nil {
			return err
		}
		if !st.Active {
			return ErrStaffTerminated
		}
		res.Staff = st

		existing, err := g.store.GetSalaryPayment(ctx, st.ID, period)
		switch {
		case err == nil:
			res.Payment, res.AlreadyPaid = existing, true
			return nil
		case !errors.Is(err, ErrSalaryPaymentNotFound):
			return err
		}

		if err := g.authorize(ctx, st.Salary); err != nil {
			return err
		}

		sp := &salary.Payment{
			Entity:  types.NewEntity(now),
			ID:      id.NewSalaryPaymentID(),
			StaffID: st.ID,
			Amount:  st.Salary,
			PaidAt:  now,
			Period:  period,
			Year:    salary.YearOf(now),
		}
		exp := &expense.Expense{
			Entity:      types.NewEntity(now),
			ID:          id.NewExpenseID(),
			Type:        expense.TypeSalary,
			Description: fmt.Sprintf("Salary payment for %s (%s) - %s", st.Name, st.Role, period),
			Amount:      st.Salary,
			SpentAt:     now,
			StaffID:     st.ID.Ptr(),
		}

		err = g.store.RecordSalaryPayment(ctx, sp, exp)
		if errors.Is(err, ErrAlreadyExists) {
			// Another instance settled the period between our read and write.
			existing, gerr := g.store.GetSalaryPayment(ctx, st.ID, period)
			if gerr != nil {
				return gerr
			}
			res.Payment, res.AlreadyPaid = existing, true
			return nil
		}
		if err != nil {
			return err
		}
		res.Payment, res.Expense = sp, exp
		return nil
	})
	if err != nil {
		return nil, err
	}

	st := res.Staff
	if res.AlreadyPaid {
		g.logger.Debug("salary already paid", "staff_id", st.ID.String(), "period", period)
	} else {
		g.logger.Info("salary paid",
			"staff_id", st.ID.String(),
			"amount", res.Payment.Amount.String(),
			"period", period,
		)
		g.emitExpense(ctx, res.Expense)
	}

	g.plugins.EmitSalaryPaid(ctx, &event.SalaryPaid{
		StaffID:     st.ID,
		Name:        st.Name,
		Role:        string(st.Role),
		Amount:      res.Payment.Amount,
		Period:      res.Payment.Period,
		Year:        res.Payment.Year,
		AlreadyPaid: res.AlreadyPaid,
	})

	return res, nil
}

// PayAllSalaries pays every active staff member in ID order. It stops at the
// first failure and returns the results gathered so far with the error.
func (g *Gym) PayAllSalaries(ctx context.Context) ([]*SalaryResult, error) {
	active, err := g.ListStaff(ctx, staff.ListOpts{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	results := make([]*SalaryResult, 0, len(active))
	for _, st := range active {
		res, err := g.PaySalary(ctx, st.ID)
		if err != nil {
			return results, fmt.Errorf("ironvault: pay %s: %w", st.Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// SalaryHistory lists salary payments for one staff member, newest first.
func (g *Gym) SalaryHistory(ctx context.Context, staffID id.StaffID) ([]*salary.Payment, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()

	if _, err := g.store.GetStaff(ctx, staffID); err != nil {
		return nil, err
	}
	return g.store.ListSalaryPayments(ctx, salary.ListOpts{StaffID: staffID})
}

// ListSalaryPayments lists every salary payment, newest first.
func (g *Gym) ListSalaryPayments(ctx context.Context) ([]*salary.Payment, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()
	return g.store.ListSalaryPayments(ctx, salary.ListOpts{})
}

func (g *Gym) emitExpense(ctx context.Context, e *expense.Expense) {
	g.plugins.EmitExpenseRecorded(ctx, &event.ExpenseRecorded{
		ExpenseID:   e.ID,
		Type:        string(e.Type),
		Description: e.Description,
		Amount:      e.Amount,
		SpentAt:     e.SpentAt,
	})
}
