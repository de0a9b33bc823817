package ironvault

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/ledger"
	"github.com/HassanShehryar1/IronVault-Gym-Management/member"
	"github.com/HassanShehryar1/IronVault-Gym-Management/payment"
	"github.com/HassanShehryar1/IronVault-Gym-Management/retention"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

// Dashboard is the owner's landing view.
type Dashboard struct {
	Summary        ledger.Summary `json:"summary"`
	MonthlyRevenue types.Money    `json:"monthly_revenue"`
	ActiveMembers  int64          `json:"active_members"`
}

// UnpaidMembers lists active members with no payment in the last month.
func (g *Gym) UnpaidMembers(ctx context.Context) ([]*member.Member, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()

	now := g.clock()
	members, err := g.store.ListMembers(ctx, member.ListOpts{})
	if err != nil {
		return nil, err
	}
	recent, err := g.store.ListPayments(ctx, payment.ListOpts{Since: now.AddDate(0, -1, 0)})
	if err != nil {
		return nil, err
	}

	paid := make(map[id.MemberID]bool, len(recent))
	for _, p := range recent {
		if p.MemberID != nil {
			paid[*p.MemberID] = true
		}
	}

	var out []*member.Member
	for _, m := range members {
		m.Status = m.StatusAt(now)
		if m.Status == member.StatusActive && !paid[m.ID] {
			out = append(out, m)
		}
	}
	return out, nil
}

// MonthlyRevenue sums payments received in the last month.
func (g *Gym) MonthlyRevenue(ctx context.Context) (types.Money, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()
	return g.monthlyRevenue(ctx)
}

func (g *Gym) monthlyRevenue(ctx context.Context) (types.Money, error) {
	recent, err := g.store.ListPayments(ctx, payment.ListOpts{Since: g.clock().AddDate(0, -1, 0)})
	if err != nil {
		return types.Money{}, err
	}
	total := types.Zero(g.currency)
	for _, p := range recent {
		total = total.Add(p.Amount)
	}
	return total, nil
}

// ActiveMemberCount counts live members whose term has not lapsed.
func (g *Gym) ActiveMemberCount(ctx context.Context) (int64, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()
	return g.store.CountMembersActiveAt(ctx, g.clock())
}

// Dashboard gathers the summary, monthly revenue and active count
// concurrently.
func (g *Gym) Dashboard(ctx context.Context) (*Dashboard, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()

	var d Dashboard
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		s, err := g.summary(ctx)
		d.Summary = s
		return err
	})
	eg.Go(func() error {
		r, err := g.monthlyRevenue(ctx)
		d.MonthlyRevenue = r
		return err
	})
	eg.Go(func() error {
		n, err := g.store.CountMembersActiveAt(ctx, g.clock())
		d.ActiveMembers = n
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

// RetentionAnalysis ranks live members by renewals.
func (g *Gym) RetentionAnalysis(ctx context.Context) (retention.Report, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()

	members, err := g.store.ListMembers(ctx, member.ListOpts{})
	if err != nil {
		return retention.Report{}, err
	}
	counts, err := g.store.CountPaymentsByMember(ctx)
	if err != nil {
		return retention.Report{}, err
	}
	return retention.Analyze(members, counts), nil
}
