package owner

import (
	"context"

	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

type Owner struct {
	types.Entity
	ID           id.OwnerID `json:"id"`
	Name         string     `json:"name"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
}

type Store interface {
	CreateOwner(ctx context.Context, o *Owner) error
	GetOwnerByUsername(ctx context.Context, username string) (*Owner, error)
}
