// Package retention ranks members by how often they renew.
package retention

import (
	"slices"
	"time"

	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/member"
)

// TopN is the length of the loyalty leaderboard.
const TopN = 5

// Entry is one member's renewal count.
type Entry struct {
	MemberID     id.MemberID `json:"member_id"`
	Name         string      `json:"name"`
	Renewals     int         `json:"renewals"`
	RegisteredAt time.Time   `json:"registered_at"`
}

// Report is the output of Analyze.
type Report struct {
	// AverageRenewals is taken over members with at least one renewal.
	AverageRenewals float64 `json:"average_renewals"`
	TopLoyal        []Entry `json:"top_loyal"`
	Members         []Entry `json:"members"`
}

// Renewals converts a payment count into a renewal count. The first payment
// is the registration fee.
func Renewals(payments int) int {
	return max(payments-1, 0)
}

// Analyze builds a Report from members and their payment counts. Members
// rank by renewals descending, then by registration time, then by ID.
func Analyze(members []*member.Member, paymentCounts map[id.MemberID]int) Report {
	entries := make([]Entry, 0, len(members))
	var renewed, total int
	for _, m := range members {
		n := Renewals(paymentCounts[m.ID])
		entries = append(entries, Entry{MemberID: m.ID, Name: m.Name, Renewals: n, RegisteredAt: m.CreatedAt})
		if n > 0 {
			renewed++
			total += n
		}
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		if a.Renewals != b.Renewals {
			return b.Renewals - a.Renewals
		}
		if c := a.RegisteredAt.Compare(b.RegisteredAt); c != 0 {
			return c
		}
		return a.MemberID.Compare(b.MemberID)
	})

	r := Report{Members: entries}
	if renewed > 0 {
		r.AverageRenewals = float64(total) / float64(renewed)
	}
	r.TopLoyal = slices.Clone(entries[:min(TopN, len(entries))])
	return r
}
