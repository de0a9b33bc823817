package ironvault

import (
	"context"
	"strings"

	"github.com/HassanShehryar1/IronVault-Gym-Management/credential"
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/member"
	"github.com/HassanShehryar1/IronVault-Gym-Management/owner"
	"github.com/HassanShehryar1/IronVault-Gym-Management/staff"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

// OwnerInput is the data needed to create an owner account.
type OwnerInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6"`
}

// CreateOwner adds an owner account.
func (g *Gym) CreateOwner(ctx context.Context, in OwnerInput) (*owner.Owner, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	if err := g.check(in); err != nil {
		return nil, err
	}
	hash, err := credential.HashWith(in.Password, g.passwordParams)
	if err != nil {
		return nil, err
	}

	ctx, cancel := g.bounded(ctx)
	defer cancel()

	o := &owner.Owner{
		Entity:       types.NewEntity(g.clock()),
		ID:           id.NewOwnerID(),
		Name:         in.Name,
		Username:     in.Username,
		PasswordHash: hash,
	}
	if err := g.store.CreateOwner(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// LoginMember checks a member's password. Terminated members cannot log in.
func (g *Gym) LoginMember(ctx context.Context, memberID id.MemberID, password string) (*member.Member, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()

	m, err := g.liveMember(ctx, memberID)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := verify(password, m.PasswordHash); err != nil {
		return nil, err
	}
	m.Status = m.StatusAt(g.clock())
	return m, nil
}

// LoginStaff checks an employee's password. An empty role accepts any role.
func (g *Gym) LoginStaff(ctx context.Context, username, password string, role staff.Role) (*staff.Staff, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()

	st, err := g.store.GetStaffByUsername(ctx, username)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !st.Active || (role != "" && st.Role != role) {
		return nil, ErrInvalidCredentials
	}
	if err := verify(password, st.PasswordHash); err != nil {
		return nil, err
	}
	return st, nil
}

func (g *Gym) LoginOwner(ctx context.Context, username, password string) (*owner.Owner, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()

	o, err := g.store.GetOwnerByUsername(ctx, username)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := verify(password, o.PasswordHash); err != nil {
		return nil, err
	}
	return o, nil
}

func verify(password, hash string) error {
	ok, err := credential.Verify(password, hash)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}
	return nil
}
