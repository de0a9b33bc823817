package plan

import (
	"context"

	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
)

type Store interface {
	CreatePlan(ctx context.Context, p *Plan) error
	GetPlan(ctx context.Context, planID id.PlanID) (*Plan, error)
	ListPlans(ctx context.Context) ([]*Plan, error)
}
