package plan

import (
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

// Plan is reference data: once a member points at a plan it must keep
// resolving, so plans are never deleted.
type Plan struct {
	types.Entity
	ID                  id.PlanID   `json:"id"`
	Name                string      `json:"name"`
	MonthlyPrice        types.Money `json:"monthly_price"`
	IncludesTrainer     bool        `json:"includes_trainer"`
	IncludesSupplements bool        `json:"includes_supplements"`
}
