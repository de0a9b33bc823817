package member

import (
	"context"
	"time"

	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
)

// Store persists members. Creation and renewal go through the unified
// store because they also write a payment.
type Store interface {
	GetMember(ctx context.Context, memberID id.MemberID) (*Member, error)
	GetMemberByEmail(ctx context.Context, email string) (*Member, error)
	ListMembers(ctx context.Context, opts ListOpts) ([]*Member, error)
	UpdateMember(ctx context.Context, m *Member) error
	// ListMembersExpiringBetween returns live members with from <= ExpiresAt < to.
	ListMembersExpiringBetween(ctx context.Context, from, to time.Time) ([]*Member, error)
	// CountMembersActiveAt counts live members whose expiry is not before t.
	CountMembersActiveAt(ctx context.Context, t time.Time) (int64, error)
}

// ListOpts filters ListMembers. Terminated members are excluded unless
// IncludeTerminated is set. Results are ordered by ID ascending.
type ListOpts struct {
	IncludeTerminated bool
	Limit             int
	Offset            int
}
