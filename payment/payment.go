package payment

import (
	"context"
	"time"

	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

// Payment is an append-only revenue fact. MemberID is nil for non-member
// revenue.
type Payment struct {
	types.Entity
	ID       id.PaymentID `json:"id"`
	MemberID *id.MemberID `json:"member_id,omitempty"`
	Amount   types.Money  `json:"amount"`
	PaidAt   time.Time    `json:"paid_at"`
	Note     string       `json:"note,omitempty"`
}

type Store interface {
	CreatePayment(ctx context.Context, p *Payment) error
	ListPayments(ctx context.Context, opts ListOpts) ([]*Payment, error)
	// CountPaymentsByMember returns the number of payments per member,
	// skipping payments with no member.
	CountPaymentsByMember(ctx context.Context) (map[id.MemberID]int, error)
}

// ListOpts filters ListPayments. Zero values disable a filter. Results are
// ordered newest first.
type ListOpts struct {
	MemberID id.MemberID
	Since    time.Time
	Limit    int
}
