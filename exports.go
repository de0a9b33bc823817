package ironvault

import (
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

// Re-export common types for convenience so users don't have to import the
// types and id packages.

type (
	Money  = types.Money
	Entity = types.Entity
	ID     = id.ID
)

var (
	USD        = types.USD
	EUR        = types.EUR
	GBP        = types.GBP
	PKR        = types.PKR
	Zero       = types.Zero
	ParseMoney = types.ParseMoney
)
