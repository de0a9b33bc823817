// Package ledger derives the gym's financial position from raw totals and
// gates outflows on it.
//
// Salary payments are mirrored into the expense ledger, so the raw expense
// total already contains them. Summaries report salaries on their own line
// and subtract them exactly once.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

// ErrInsufficientFunds matches every *InsufficientFundsError.
var ErrInsufficientFunds = errors.New("ironvault: insufficient funds")

// Totals are the raw sums a store returns in one consistent read.
type Totals struct {
	Revenue  int64 // sum of all payments
	Expenses int64 // sum of all expenses, salary rows included
	Salaries int64 // sum of all salary payments
}

// Store is the read side of the ledger.
type Store interface {
	LedgerTotals(ctx context.Context) (Totals, error)
}

// Summary is the owner-facing financial position.
type Summary struct {
	TotalRevenue      types.Money `json:"total_revenue"`
	TotalExpenses     types.Money `json:"total_expenses"` // non-salary outflows
	TotalSalariesPaid types.Money `json:"total_salaries_paid"`
	NetProfit         types.Money `json:"net_profit"`
	AvailableBalance  types.Money `json:"available_balance"`
}

// Summarize turns raw totals into a Summary in the given currency.
func Summarize(t Totals, currency string) Summary {
	revenue := types.New(t.Revenue, currency)
	salaries := types.New(t.Salaries, currency)
	other := types.New(t.Expenses-t.Salaries, currency)
	net := revenue.Subtract(other).Subtract(salaries)

	return Summary{
		TotalRevenue:      revenue,
		TotalExpenses:     other,
		TotalSalariesPaid: salaries,
		NetProfit:         net,
		AvailableBalance:  net,
	}
}

// InsufficientFundsError reports a rejected outflow.
type InsufficientFundsError struct {
	Available types.Money
	Required  types.Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("ironvault: insufficient funds: available %s, required %s", e.Available, e.Required)
}

// Is lets errors.Is(err, ErrInsufficientFunds) match.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// Authorize reports whether s can cover amount. It has no side effects.
func Authorize(s Summary, amount types.Money) error {
	if s.AvailableBalance.LessThan(amount) {
		return &InsufficientFundsError{Available: s.AvailableBalance, Required: amount}
	}
	return nil
}
