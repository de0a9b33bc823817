package ironvault

import (
	"context"
	"strings"

	"github.com/HassanShehryar1/IronVault-Gym-Management/credential"
	"github.com/HassanShehryar1/IronVault-Gym-Management/event"
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/staff"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

// HireInput is the data needed to add an employee.
type HireInput struct {
	Name     string      `json:"name" validate:"required,max=200"`
	Role     staff.Role  `json:"role" validate:"required"`
	Salary   types.Money `json:"salary"`
	Username string      `json:"username" validate:"required,min=3,max=64"`
	Password string      `json:"password" validate:"required,min=6"`
}

func (g *Gym) HireStaff(ctx context.Context, in HireInput) (*staff.Staff, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	if err := g.check(in); err != nil {
		return nil, err
	}
	if err := g.checkAmount("salary", in.Salary); err != nil {
		return nil, err
	}

	hash, err := credential.HashWith(in.Password, g.passwordParams)
	if err != nil {
		return nil, err
	}

	ctx, cancel := g.bounded(ctx)
	defer cancel()

	now := g.clock()
	st := &staff.Staff{
		Entity:       types.NewEntity(now),
		ID:           id.NewStaffID(),
		Name:         in.Name,
		Role:         in.Role,
		Salary:       in.Salary,
		Username:     in.Username,
		PasswordHash: hash,
		Active:       true,
	}
	if err := g.store.CreateStaff(ctx, st); err != nil {
		return nil, err
	}

	g.logger.Info("staff hired", "staff_id", st.ID.String(), "role", st.Role)
	g.plugins.EmitStaffHired(ctx, &event.StaffHired{
		StaffID: st.ID,
		Name:    st.Name,
		Role:    string(st.Role),
		Salary:  st.Salary,
	})
	return st, nil
}

// UpdateStaffSalary changes the amount future payroll runs pay.
func (g *Gym) UpdateStaffSalary(ctx context.Context, staffID id.StaffID, salary types.Money) (*staff.Staff, error) {
	if err := g.checkAmount("salary", salary); err != nil {
		return nil, err
	}

	ctx, cancel := g.bounded(ctx)
	defer cancel()

	var st *staff.Staff
	err := g.withLock(ctx, staffLockKey(staffID), func(ctx context.Context) error {
		var err error
		if st, err = g.store.GetStaff(ctx, staffID); err != nil {
			return err
		}
		if !st.Active {
			return ErrStaffTerminated
		}
		st.Salary = salary
		st.Touch(g.clock())
		return g.store.UpdateStaff(ctx, st)
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// TerminateStaff deactivates an employee. Salary history is kept.
func (g *Gym) TerminateStaff(ctx context.Context, staffID id.StaffID) error {
	ctx, cancel := g.bounded(ctx)
	defer cancel()

	var st *staff.Staff
	now := g.clock()
	err := g.withLock(ctx, staffLockKey(staffID), func(ctx context.Context) error {
		var err error
		if st, err = g.store.GetStaff(ctx, staffID); err != nil {
			return err
		}
		if !st.Active {
			return ErrStaffTerminated
		}
		st.Active = false
		st.TerminatedAt = &now
		st.Touch(now)
		return g.store.UpdateStaff(ctx, st)
	})
	if err != nil {
		return err
	}

	g.logger.Info("staff terminated", "staff_id", st.ID.String())
	g.plugins.EmitStaffTerminated(ctx, &event.StaffTerminated{StaffID: st.ID, At: now})
	return nil
}

func (g *Gym) GetStaff(ctx context.Context, staffID id.StaffID) (*staff.Staff, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()
	return g.store.GetStaff(ctx, staffID)
}

func (g *Gym) ListStaff(ctx context.Context, opts staff.ListOpts) ([]*staff.Staff, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()
	return g.store.ListStaff(ctx, opts)
}

func staffLockKey(staffID id.StaffID) string {
	return "ironvault:staff:" + staffID.String()
}
