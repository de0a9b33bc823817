// Package member holds gym members and the rule that derives their status.
package member

import (
	"time"

	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

// Status is the derived membership state.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Term is the length of one paid membership period.
const Term = 30 * 24 * time.Hour

// Member is a registered gym member. Status is a cache of DeriveStatus and
// must be recomputed before any access decision.
type Member struct {
	types.Entity
	ID           id.MemberID `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	PlanID       id.PlanID   `json:"plan_id"`
	ExpiresAt    time.Time   `json:"expires_at"`
	Status       Status      `json:"status"`
	TerminatedAt *time.Time  `json:"terminated_at,omitempty"`
}

// DeriveStatus is active while now has not passed expiresAt.
func DeriveStatus(expiresAt, now time.Time) Status {
	if now.After(expiresAt) {
		return StatusExpired
	}
	return StatusActive
}

// StatusAt returns the member's status at now.
func (m *Member) StatusAt(now time.Time) Status {
	return DeriveStatus(m.ExpiresAt, now)
}

// Terminated reports whether the member was soft-deleted.
func (m *Member) Terminated() bool { return m.TerminatedAt != nil }

// ExtendFrom returns the expiry after one more term: renewals that arrive
// after lapse start from now, early renewals stack on the current expiry.
func ExtendFrom(expiresAt, now time.Time) time.Time {
	start := expiresAt
	if start.Before(now) {
		start = now
	}
	return start.Add(Term)
}
