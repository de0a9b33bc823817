package ironvault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HassanShehryar1/IronVault-Gym-Management/credential"
	"github.com/HassanShehryar1/IronVault-Gym-Management/event"
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/member"
	"github.com/HassanShehryar1/IronVault-Gym-Management/payment"
	"github.com/HassanShehryar1/IronVault-Gym-Management/plan"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

// RegisterInput is the data needed to sign up a member.
type RegisterInput struct {
	Name   string    `json:"name" validate:"required,max=200"`
	Email  string    `json:"email" validate:"required,email"`
	PlanID id.PlanID `json:"plan_id"`
}

// Registration is a new member with the generated password. The password
// is only available here; the store keeps its hash.
type Registration struct {
	Member   *member.Member   `json:"member"`
	Payment  *payment.Payment `json:"payment"`
	Password string           `json:"password"`
}

// CheckInResult is the front-desk decision.
type CheckInResult struct {
	Admitted  bool          `json:"admitted"`
	Status    member.Status `json:"status"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Register signs up a member for one term and records the plan fee.
func (g *Gym) Register(ctx context.Context, in RegisterInput) (*Registration, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := g.check(in); err != nil {
		return nil, err
	}

	ctx, cancel := g.bounded(ctx)
	defer cancel()

	p, err := g.lookupPlan(ctx, in.PlanID)
	if err != nil {
		return nil, err
	}

	password, err := credential.Generate()
	if err != nil {
		return nil, err
	}
	hash, err := credential.HashWith(password, g.passwordParams)
	if err != nil {
		return nil, err
	}

	now := g.clock()
	m := &member.Member{
		Entity:       types.NewEntity(now),
		ID:           id.NewMemberID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		PlanID:       p.ID,
		ExpiresAt:    now.Add(member.Term),
		Status:       member.StatusActive,
	}
	pay := &payment.Payment{
		Entity:   types.NewEntity(now),
		ID:       id.NewPaymentID(),
		MemberID: m.ID.Ptr(),
		Amount:   p.MonthlyPrice,
		PaidAt:   now,
		Note:     "Registration - " + p.Name,
	}

	if err := g.store.RegisterMember(ctx, m, pay); err != nil {
		return nil, err
	}

	g.logger.Info("member registered", "member_id", m.ID.String(), "plan", p.Name)
	g.plugins.EmitMemberRegistered(ctx, &event.MemberRegistered{
		MemberID:  m.ID,
		Name:      m.Name,
		Email:     m.Email,
		PlanID:    p.ID,
		Fee:       pay.Amount,
		ExpiresAt: m.ExpiresAt,
	})

	return &Registration{Member: m, Payment: pay, Password: password}, nil
}

// CheckIn admits a member whose term has not lapsed. The derived status is
// written back on both outcomes, under the same member lock as Renew.
func (g *Gym) CheckIn(ctx context.Context, memberID id.MemberID) (CheckInResult, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()

	var (
		m      *member.Member
		status member.Status
		now    time.Time
	)
	err := g.withLock(ctx, memberLockKey(memberID), func(ctx context.Context) error {
		var err error
		if m, err = g.liveMember(ctx, memberID); err != nil {
			return err
		}
		now = g.clock()
		status = m.StatusAt(now)
		if m.Status == status {
			return nil
		}
		m.Status = status
		m.Touch(now)
		return g.store.UpdateMember(ctx, m)
	})
	if err != nil {
		return CheckInResult{}, err
	}

	res := CheckInResult{
		Admitted:  status == member.StatusActive,
		Status:    status,
		ExpiresAt: m.ExpiresAt,
	}
	g.plugins.EmitMemberCheckedIn(ctx, &event.MemberCheckedIn{
		MemberID: m.ID,
		Admitted: res.Admitted,
		Status:   string(status),
		At:       now,
	})
	return res, nil
}

// Renew extends a membership by one term on planID and records the fee.
// Lapsed members restart from now; early renewals stack on the current
// expiry.
func (g *Gym) Renew(ctx context.Context, memberID id.MemberID, planID id.PlanID) (time.Time, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()

	var (
		m   *member.Member
		pay *payment.Payment
	)
	err := g.withLock(ctx, memberLockKey(memberID), func(ctx context.Context) error {
		var err error
		if m, err = g.liveMember(ctx, memberID); err != nil {
			return err
		}
		p, err := g.lookupPlan(ctx, planID)
		if err != nil {
			return err
		}

		now := g.clock()
		m.ExpiresAt = member.ExtendFrom(m.ExpiresAt, now)
		m.Status = member.StatusActive
		m.PlanID = p.ID
		m.Touch(now)

		pay = &payment.Payment{
			Entity:   types.NewEntity(now),
			ID:       id.NewPaymentID(),
			MemberID: m.ID.Ptr(),
			Amount:   p.MonthlyPrice,
			PaidAt:   now,
			Note:     "Renewal - " + p.Name,
		}
		return g.store.RenewMember(ctx, m, pay)
	})
	if err != nil {
		return time.Time{}, err
	}

	g.logger.Info("member renewed", "member_id", m.ID.String(), "expires_at", m.ExpiresAt)
	g.plugins.EmitMemberRenewed(ctx, &event.MemberRenewed{
		MemberID:  m.ID,
		PlanID:    m.PlanID,
		Fee:       pay.Amount,
		ExpiresAt: m.ExpiresAt,
	})
	return m.ExpiresAt, nil
}

// Terminate soft-deletes a member. Their payments stay in the ledger.
func (g *Gym) Terminate(ctx context.Context, memberID id.MemberID) error {
	ctx, cancel := g.bounded(ctx)
	defer cancel()

	var m *member.Member
	now := g.clock()
	err := g.withLock(ctx, memberLockKey(memberID), func(ctx context.Context) error {
		var err error
		if m, err = g.liveMember(ctx, memberID); err != nil {
			return err
		}
		m.TerminatedAt = &now
		m.Touch(now)
		return g.store.UpdateMember(ctx, m)
	})
	if err != nil {
		return err
	}

	g.logger.Info("member terminated", "member_id", m.ID.String())
	g.plugins.EmitMemberTerminated(ctx, &event.MemberTerminated{MemberID: m.ID, At: now})
	return nil
}

// ExpiryNoticeKey identifies the one notice a member may get on day.
func ExpiryNoticeKey(memberID id.MemberID, day time.Time) string {
	return fmt.Sprintf("membership_expiring:%s:%s", memberID, day.Format(time.DateOnly))
}

// ProcessDailyExpirations raises MembershipExpiring for every active member
// whose term ends tomorrow. Repeat runs on the same day notify nobody twice.
func (g *Gym) ProcessDailyExpirations(ctx context.Context) (int, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()

	now := g.clock()
	y, mo, d := now.Date()
	from := time.Date(y, mo, d+1, 0, 0, 0, 0, g.location)
	to := time.Date(y, mo, d+2, 0, 0, 0, 0, g.location)

	due, err := g.store.ListMembersExpiringBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}

	notified := 0
	for _, m := range due {
		if m.StatusAt(now) != member.StatusActive {
			continue
		}
		key := ExpiryNoticeKey(m.ID, now)
		fresh, err := g.dedupe.Add(ctx, key, 48*time.Hour)
		if err != nil {
			return notified, fmt.Errorf("ironvault: dedupe %s: %w", key, err)
		}
		if !fresh {
			g.logger.Debug("expiry notice already sent", "member_id", m.ID.String())
			continue
		}

		g.plugins.EmitMembershipExpiring(ctx, &event.MembershipExpiring{
			MemberID:  m.ID,
			Name:      m.Name,
			Email:     m.Email,
			ExpiresAt: m.ExpiresAt,
		})
		notified++
	}
	return notified, nil
}

// GetMember returns a live member.
func (g *Gym) GetMember(ctx context.Context, memberID id.MemberID) (*member.Member, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()
	return g.liveMember(ctx, memberID)
}

// ListMembers lists members in registration order with their status
// re-derived at the current time.
func (g *Gym) ListMembers(ctx context.Context, opts member.ListOpts) ([]*member.Member, error) {
	ctx, cancel := g.bounded(ctx)
	defer cancel()

	members, err := g.store.ListMembers(ctx, opts)
	if err != nil {
		return nil, err
	}
	now := g.clock()
	for _, m := range members {
		m.Status = m.StatusAt(now)
	}
	return members, nil
}

// memberLockKey serializes every read-modify-write of one member row.
func memberLockKey(memberID id.MemberID) string {
	return "ironvault:member:" + memberID.String()
}

func (g *Gym) liveMember(ctx context.Context, memberID id.MemberID) (*member.Member, error) {
	m, err := g.store.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m.Terminated() {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

// lookupPlan maps a missing plan to ErrInvalidPlan.
func (g *Gym) lookupPlan(ctx context.Context, planID id.PlanID) (*plan.Plan, error) {
	if planID.IsNil() {
		return nil, ErrInvalidPlan
	}
	p, err := g.store.GetPlan(ctx, planID)
	if errors.Is(err, ErrPlanNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPlan, planID)
	}
	return p, err
}
