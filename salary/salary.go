// Package salary models staff salary payments and their pay periods.
package salary

import (
	"context"
	"time"

	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

// Payment settles one staff member for one period. At most one exists per
// (StaffID, Period).
type Payment struct {
	types.Entity
	ID      id.SalaryPaymentID `json:"id"`
	StaffID id.StaffID         `json:"staff_id"`
	Amount  types.Money        `json:"amount"`
	PaidAt  time.Time          `json:"paid_at"`
	Period  string             `json:"period"` // YYYY-MM
	Year    string             `json:"year"`   // YYYY
}

// PeriodOf returns the month key ("2026-10") for t.
func PeriodOf(t time.Time) string { return t.Format("2006-01") }

// YearOf returns the year key ("2026") for t.
func YearOf(t time.Time) string { return t.Format("2006") }

// Store reads salary payments. Writes go through the unified store because
// each payment is paired with an expense row.
type Store interface {
	GetSalaryPayment(ctx context.Context, staffID id.StaffID, period string) (*Payment, error)
	ListSalaryPayments(ctx context.Context, opts ListOpts) ([]*Payment, error)
}

// ListOpts filters ListSalaryPayments; a nil StaffID lists everyone.
// Results are ordered newest first.
type ListOpts struct {
	StaffID id.StaffID
}
