package ironvault

import (
	"context"
	"fmt"

	"github.com/HassanShehryar1/IronVault-Gym-Management/ledger"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

// Summary returns revenue, expenses, salaries and the available balance
// over the full history.
func (g *Gym) Summary(ctx context.Context) (ledger.Summary, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()
	return g.summary(ctx)
}

func (g *Gym) summary(ctx context.Context) (ledger.Summary, error) {
	totals, err := g.store.LedgerTotals(ctx)
	if err != nil {
		return ledger.Summary{}, fmt.Errorf("ironvault: ledger totals: %w", err)
	}
	return ledger.Summarize(totals, g.currency), nil
}

// Authorize reports whether the available balance covers amount. It returns
// nil or an *InsufficientFundsError and writes nothing.
func (g *Gym) Authorize(ctx context.Context, amount types.Money) error {
	ctx, cancel := g.bounded(ctx)
	defer cancel()
	return g.authorize(ctx, amount)
}

func (g *Gym) authorize(ctx context.Context, amount types.Money) error {
	if amount.Currency != g.currency {
		return ValidationError{Field: "amount", Message: fmt.Sprintf("currency must be %s", g.currency)}
	}
	s, err := g.summary(ctx)
	if err != nil {
		return err
	}
	return ledger.Authorize(s, amount)
}
