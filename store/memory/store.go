// Package memory is an in-process Store. It is the default backend for
// tests and single-process tools.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	ironvault "github.com/HassanShehryar1/IronVault-Gym-Management"
	"github.com/HassanShehryar1/IronVault-Gym-Management/equipment"
	"github.com/HassanShehryar1/IronVault-Gym-Management/expense"
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/ledger"
	"github.com/HassanShehryar1/IronVault-Gym-Management/member"
	"github.com/HassanShehryar1/IronVault-Gym-Management/owner"
	"github.com/HassanShehryar1/IronVault-Gym-Management/payment"
	"github.com/HassanShehryar1/IronVault-Gym-Management/plan"
	"github.com/HassanShehryar1/IronVault-Gym-Management/salary"
	"github.com/HassanShehryar1/IronVault-Gym-Management/staff"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store"
)

var _ store.Store = (*Store)(nil)

// Store keeps every entity in maps behind one RWMutex. Values are copied on
// the way in and out so callers never share state with the store.
type Store struct {
	mu sync.RWMutex

	plans    map[id.PlanID]*plan.Plan
	members  map[id.MemberID]*member.Member
	payments []*payment.Payment
	staff    map[id.StaffID]*staff.Staff
	salaries []*salary.Payment
	expenses []*expense.Expense
	machines map[id.MachineID]*equipment.Machine
	orders   map[id.OrderID]*equipment.Order
	owners   map[id.OwnerID]*owner.Owner
}

func New() *Store {
	return &Store{
		plans:    make(map[id.PlanID]*plan.Plan),
		members:  make(map[id.MemberID]*member.Member),
		staff:    make(map[id.StaffID]*staff.Staff),
		machines: make(map[id.MachineID]*equipment.Machine),
		orders:   make(map[id.OrderID]*equipment.Order),
		owners:   make(map[id.OwnerID]*owner.Owner),
	}
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

func byID[T any](key func(*T) id.ID) func(a, b *T) int {
	return func(a, b *T) int { return key(a).Compare(key(b)) }
}

// newestFirst orders by time descending, then ID descending.
func newestFirst[T any](at func(*T) time.Time, key func(*T) id.ID) func(a, b *T) int {
	return func(a, b *T) int {
		if c := at(b).Compare(at(a)); c != 0 {
			return c
		}
		return key(b).Compare(key(a))
	}
}

func page[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ──────────────────────────────────────────────────
// Plans
// ──────────────────────────────────────────────────

func (s *Store) CreatePlan(_ context.Context, p *plan.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.plans[p.ID]; exists {
		return ironvault.ErrAlreadyExists
	}
	s.plans[p.ID] = clone(p)
	return nil
}

func (s *Store) GetPlan(_ context.Context, planID id.PlanID) (*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.plans[planID]; ok {
		return clone(p), nil
	}
	return nil, ironvault.ErrPlanNotFound
}

func (s *Store) ListPlans(_ context.Context) ([]*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*plan.Plan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, clone(p))
	}
	slices.SortFunc(out, byID(func(p *plan.Plan) id.ID { return p.ID }))
	return out, nil
}

// ──────────────────────────────────────────────────
// Members
// ──────────────────────────────────────────────────

func (s *Store) GetMember(_ context.Context, memberID id.MemberID) (*member.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if m, ok := s.members[memberID]; ok {
		return clone(m), nil
	}
	return nil, ironvault.ErrMemberNotFound
}

func (s *Store) GetMemberByEmail(_ context.Context, email string) (*member.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.members {
		if strings.EqualFold(m.Email, email) {
			return clone(m), nil
		}
	}
	return nil, ironvault.ErrMemberNotFound
}

func (s *Store) ListMembers(_ context.Context, opts member.ListOpts) ([]*member.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*member.Member, 0, len(s.members))
	for _, m := range s.members {
		if m.Terminated() && !opts.IncludeTerminated {
			continue
		}
		out = append(out, clone(m))
	}
	slices.SortFunc(out, byID(func(m *member.Member) id.ID { return m.ID }))
	return page(out, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdateMember(_ context.Context, m *member.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[m.ID]; !ok {
		return ironvault.ErrMemberNotFound
	}
	s.members[m.ID] = clone(m)
	return nil
}

func (s *Store) ListMembersExpiringBetween(_ context.Context, from, to time.Time) ([]*member.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*member.Member
	for _, m := range s.members {
		if m.Terminated() || m.ExpiresAt.Before(from) || !m.ExpiresAt.Before(to) {
			continue
		}
		out = append(out, clone(m))
	}
	slices.SortFunc(out, byID(func(m *member.Member) id.ID { return m.ID }))
	return out, nil
}

func (s *Store) CountMembersActiveAt(_ context.Context, t time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, m := range s.members {
		if !m.Terminated() && m.StatusAt(t) == member.StatusActive {
			n++
		}
	}
	return n, nil
}

func (s *Store) emailTaken(email string, except id.MemberID) bool {
	for _, m := range s.members {
		if m.ID != except && strings.EqualFold(m.Email, email) {
			return true
		}
	}
	return false
}

func (s *Store) RegisterMember(_ context.Context, m *member.Member, p *payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.members[m.ID]; exists || s.emailTaken(m.Email, m.ID) {
		return ironvault.ErrAlreadyExists
	}
	s.members[m.ID] = clone(m)
	s.payments = append(s.payments, clone(p))
	return nil
}

func (s *Store) RenewMember(_ context.Context, m *member.Member, p *payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[m.ID]; !ok {
		return ironvault.ErrMemberNotFound
	}
	s.members[m.ID] = clone(m)
	s.payments = append(s.payments, clone(p))
	return nil
}

// ──────────────────────────────────────────────────
// Payments
// ──────────────────────────────────────────────────

func (s *Store) CreatePayment(_ context.Context, p *payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.payments = append(s.payments, clone(p))
	return nil
}

func (s *Store) ListPayments(_ context.Context, opts payment.ListOpts) ([]*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*payment.Payment
	for _, p := range s.payments {
		if !opts.MemberID.IsNil() && (p.MemberID == nil || *p.MemberID != opts.MemberID) {
			continue
		}
		if !opts.Since.IsZero() && p.PaidAt.Before(opts.Since) {
			continue
		}
		out = append(out, clone(p))
	}
	slices.SortFunc(out, newestFirst(
		func(p *payment.Payment) time.Time { return p.PaidAt },
		func(p *payment.Payment) id.ID { return p.ID },
	))
	return page(out, 0, opts.Limit), nil
}

func (s *Store) CountPaymentsByMember(_ context.Context) (map[id.MemberID]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[id.MemberID]int)
	for _, p := range s.payments {
		if p.MemberID != nil {
			counts[*p.MemberID]++
		}
	}
	return counts, nil
}

// ──────────────────────────────────────────────────
// Staff and salaries
// ──────────────────────────────────────────────────

func (s *Store) usernameTaken(username string, except id.StaffID) bool {
	for _, st := range s.staff {
		if st.ID != except && st.Username == username {
			return true
		}
	}
	return false
}

func (s *Store) CreateStaff(_ context.Context, st *staff.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.staff[st.ID]; exists || s.usernameTaken(st.Username, st.ID) {
		return ironvault.ErrAlreadyExists
	}
	s.staff[st.ID] = clone(st)
	return nil
}

func (s *Store) GetStaff(_ context.Context, staffID id.StaffID) (*staff.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.staff[staffID]; ok {
		return clone(st), nil
	}
	return nil, ironvault.ErrStaffNotFound
}

func (s *Store) GetStaffByUsername(_ context.Context, username string) (*staff.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.staff {
		if st.Username == username {
			return clone(st), nil
		}
	}
	return nil, ironvault.ErrStaffNotFound
}

func (s *Store) ListStaff(_ context.Context, opts staff.ListOpts) ([]*staff.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*staff.Staff, 0, len(s.staff))
	for _, st := range s.staff {
		if opts.ActiveOnly && !st.Active {
			continue
		}
		out = append(out, clone(st))
	}
	slices.SortFunc(out, byID(func(st *staff.Staff) id.ID { return st.ID }))
	return out, nil
}

func (s *Store) UpdateStaff(_ context.Context, st *staff.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.staff[st.ID]; !ok {
		return ironvault.ErrStaffNotFound
	}
	s.staff[st.ID] = clone(st)
	return nil
}

func (s *Store) GetSalaryPayment(_ context.Context, staffID id.StaffID, period string) (*salary.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sp := s.findSalary(staffID, period); sp != nil {
		return clone(sp), nil
	}
	return nil, ironvault.ErrSalaryPaymentNotFound
}

func (s *Store) findSalary(staffID id.StaffID, period string) *salary.Payment {
	for _, sp := range s.salaries {
		if sp.StaffID == staffID && sp.Period == period {
			return sp
		}
	}
	return nil
}

func (s *Store) ListSalaryPayments(_ context.Context, opts salary.ListOpts) ([]*salary.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*salary.Payment
	for _, sp := range s.salaries {
		if !opts.StaffID.IsNil() && sp.StaffID != opts.StaffID {
			continue
		}
		out = append(out, clone(sp))
	}
	slices.SortFunc(out, newestFirst(
		func(sp *salary.Payment) time.Time { return sp.PaidAt },
		func(sp *salary.Payment) id.ID { return sp.ID },
	))
	return out, nil
}

func (s *Store) RecordSalaryPayment(_ context.Context, sp *salary.Payment, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findSalary(sp.StaffID, sp.Period) != nil {
		return ironvault.ErrAlreadyExists
	}
	s.salaries = append(s.salaries, clone(sp))
	s.expenses = append(s.expenses, clone(e))
	return nil
}

// ──────────────────────────────────────────────────
// Expenses, machines and orders
// ──────────────────────────────────────────────────

func (s *Store) ListExpenses(_ context.Context, opts expense.ListOpts) ([]*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*expense.Expense
	for _, e := range s.expenses {
		if opts.Type != "" && e.Type != opts.Type {
			continue
		}
		out = append(out, clone(e))
	}
	slices.SortFunc(out, newestFirst(
		func(e *expense.Expense) time.Time { return e.SpentAt },
		func(e *expense.Expense) id.ID { return e.ID },
	))
	return out, nil
}

func (s *Store) CreateMachine(_ context.Context, m *equipment.Machine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.machines[m.ID]; exists {
		return ironvault.ErrAlreadyExists
	}
	s.machines[m.ID] = clone(m)
	return nil
}

func (s *Store) GetMachine(_ context.Context, machineID id.MachineID) (*equipment.Machine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if m, ok := s.machines[machineID]; ok {
		return clone(m), nil
	}
	return nil, ironvault.ErrMachineNotFound
}

func (s *Store) ListMachines(_ context.Context) ([]*equipment.Machine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*equipment.Machine, 0, len(s.machines))
	for _, m := range s.machines {
		out = append(out, clone(m))
	}
	slices.SortFunc(out, byID(func(m *equipment.Machine) id.ID { return m.ID }))
	return out, nil
}

func (s *Store) UpdateMachineStatus(_ context.Context, machineID id.MachineID, status string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.machines[machineID]
	if !ok {
		return ironvault.ErrMachineNotFound
	}
	m.Status = status
	m.Touch(at)
	return nil
}

func (s *Store) RecordMachinePurchase(_ context.Context, m *equipment.Machine, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.machines[m.ID]; exists {
		return ironvault.ErrAlreadyExists
	}
	s.machines[m.ID] = clone(m)
	s.expenses = append(s.expenses, clone(e))
	return nil
}

func (s *Store) CreateOrder(_ context.Context, o *equipment.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[o.ID]; exists {
		return ironvault.ErrAlreadyExists
	}
	s.orders[o.ID] = clone(o)
	return nil
}

func (s *Store) GetOrder(_ context.Context, orderID id.OrderID) (*equipment.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if o, ok := s.orders[orderID]; ok {
		return clone(o), nil
	}
	return nil, ironvault.ErrOrderNotFound
}

func (s *Store) ListOrders(_ context.Context, opts equipment.ListOpts) ([]*equipment.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*equipment.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if opts.UnpaidOnly && o.Paid {
			continue
		}
		out = append(out, clone(o))
	}
	slices.SortFunc(out, newestFirst(
		func(o *equipment.Order) time.Time { return o.OrderedAt },
		func(o *equipment.Order) id.ID { return o.ID },
	))
	return out, nil
}

func (s *Store) SettleEquipmentOrder(_ context.Context, orderID id.OrderID, paidAt time.Time, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return ironvault.ErrOrderNotFound
	}
	if o.Paid {
		return ironvault.ErrOrderAlreadyPaid
	}
	o.Paid = true
	o.PaidAt = &paidAt
	o.Touch(paidAt)
	s.expenses = append(s.expenses, clone(e))
	return nil
}

// ──────────────────────────────────────────────────
// Owners
// ──────────────────────────────────────────────────

func (s *Store) CreateOwner(_ context.Context, o *owner.Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.owners {
		if existing.ID == o.ID || existing.Username == o.Username {
			return ironvault.ErrAlreadyExists
		}
	}
	s.owners[o.ID] = clone(o)
	return nil
}

func (s *Store) GetOwnerByUsername(_ context.Context, username string) (*owner.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.owners {
		if o.Username == username {
			return clone(o), nil
		}
	}
	return nil, ironvault.ErrOwnerNotFound
}

// ──────────────────────────────────────────────────
// Ledger
// ──────────────────────────────────────────────────

// LedgerTotals sums under one read lock, so pair writes are never split.
func (s *Store) LedgerTotals(_ context.Context) (ledger.Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t ledger.Totals
	for _, p := range s.payments {
		t.Revenue += p.Amount.Amount
	}
	for _, e := range s.expenses {
		t.Expenses += e.Amount.Amount
	}
	for _, sp := range s.salaries {
		t.Salaries += sp.Amount.Amount
	}
	return t, nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}
