package ironvault

import (
	"context"
	"strings"

	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/plan"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

type planInput struct {
	Name string `validate:"required,max=100"`
}

// CreatePlan creates a membership plan. The ID is assigned when empty.
func (g *Gym) CreatePlan(ctx context.Context, p *plan.Plan) error {
	p.Name = strings.TrimSpace(p.Name)
	if err := g.check(planInput{Name: p.Name}); err != nil {
		return err
	}
	if err := g.checkAmount("monthly_price", p.MonthlyPrice); err != nil {
		return err
	}

	if p.ID.IsNil() {
		p.ID = id.NewPlanID()
	}
	p.Entity = types.NewEntity(g.clock())

	ctx, cancel := g.bounded(ctx)
	defer cancel()
	return g.store.CreatePlan(ctx, p)
}

// GetPlan retrieves a plan by ID.
func (g *Gym) GetPlan(ctx context.Context, planID id.PlanID) (*plan.Plan, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()
	return g.store.GetPlan(ctx, planID)
}

func (g *Gym) ListPlans(ctx context.Context) ([]*plan.Plan, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()
	return g.store.ListPlans(ctx)
}
