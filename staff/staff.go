package staff

import (
	"context"
	"time"

	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

type Role string

const (
	RoleTrainer      Role = "Trainer"
	RoleReceptionist Role = "Receptionist"
	RoleCleaner      Role = "Cleaner"
	RoleManager      Role = "Manager"
)

// Staff is an employee. Termination only flips Active so that salary history
// keeps pointing at a real row.
type Staff struct {
	types.Entity
	ID           id.StaffID  `json:"id"`
	Name         string      `json:"name"`
	Role         Role        `json:"role"`
	Salary       types.Money `json:"salary"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	Active       bool        `json:"active"`
	TerminatedAt *time.Time  `json:"terminated_at,omitempty"`
}

type Store interface {
	CreateStaff(ctx context.Context, s *Staff) error
	GetStaff(ctx context.Context, staffID id.StaffID) (*Staff, error)
	GetStaffByUsername(ctx context.Context, username string) (*Staff, error)
	ListStaff(ctx context.Context, opts ListOpts) ([]*Staff, error)
	UpdateStaff(ctx context.Context, s *Staff) error
}

type ListOpts struct {
	ActiveOnly bool
}
