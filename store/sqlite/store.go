package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	_ "github.com/xraph/grove/drivers/sqlitedriver/sqlitemigrate"
	"github.com/xraph/grove/migrate"

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

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("ironvault/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("ironvault/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Plan Store ====================

func (s *Store) CreatePlan(ctx context.Context, p *plan.Plan) error {
	_, err := s.sdb.NewInsert(toPlanModel(p)).Exec(ctx)
	return wrap("create plan", err)
}

func (s *Store) GetPlan(ctx context.Context, planID id.PlanID) (*plan.Plan, error) {
	m := new(planModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", planID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ironvault.ErrPlanNotFound
		}
		return nil, wrap("get plan", err)
	}
	return fromPlanModel(m)
}

func (s *Store) ListPlans(ctx context.Context) ([]*plan.Plan, error) {
	var models []planModel
	if err := s.sdb.NewSelect(&models).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, wrap("list plans", err)
	}
	return convert(models, fromPlanModel)
}

// ==================== Member Store ====================

func (s *Store) GetMember(ctx context.Context, memberID id.MemberID) (*member.Member, error) {
	m := new(memberModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", memberID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ironvault.ErrMemberNotFound
		}
		return nil, wrap("get member", err)
	}
	return fromMemberModel(m)
}

func (s *Store) GetMemberByEmail(ctx context.Context, email string) (*member.Member, error) {
	m := new(memberModel)
	err := s.sdb.NewSelect(m).
		Where("LOWER(email) = LOWER(?)", email).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ironvault.ErrMemberNotFound
		}
		return nil, wrap("get member by email", err)
	}
	return fromMemberModel(m)
}

func (s *Store) ListMembers(ctx context.Context, opts member.ListOpts) ([]*member.Member, error) {
	var models []memberModel
	q := s.sdb.NewSelect(&models)
	if !opts.IncludeTerminated {
		q = q.Where("terminated_at IS NULL")
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, wrap("list members", err)
	}
	return convert(models, fromMemberModel)
}

func (s *Store) UpdateMember(ctx context.Context, m *member.Member) error {
	model := toMemberModel(m)
	res, err := s.sdb.NewUpdate(model).WherePK().Exec(ctx)
	if err != nil {
		return wrap("update member", err)
	}
	return requireRow(res, ironvault.ErrMemberNotFound)
}

func (s *Store) ListMembersExpiringBetween(ctx context.Context, from, to time.Time) ([]*member.Member, error) {
	var models []memberModel
	err := s.sdb.NewSelect(&models).
		Where("terminated_at IS NULL").
		Where("expires_at >= ?", from.UTC()).
		Where("expires_at < ?", to.UTC()).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, wrap("list expiring members", err)
	}
	return convert(models, fromMemberModel)
}

func (s *Store) CountMembersActiveAt(ctx context.Context, t time.Time) (int64, error) {
	var n int64
	err := s.sdb.NewRaw(`
		SELECT COUNT(*) FROM ironvault_members
		WHERE terminated_at IS NULL AND expires_at >= ?
	`, t.UTC()).Scan(ctx, &n)
	if err != nil {
		return 0, wrap("count active members", err)
	}
	return n, nil
}

func (s *Store) RegisterMember(ctx context.Context, m *member.Member, p *payment.Payment) error {
	return s.inTx(ctx, "register member", func(tx *sqlitedriver.SqliteTx) error {
		if _, err := tx.NewInsert(toMemberModel(m)).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert(toPaymentModel(p)).Exec(ctx)
		return err
	})
}

func (s *Store) RenewMember(ctx context.Context, m *member.Member, p *payment.Payment) error {
	return s.inTx(ctx, "renew member", func(tx *sqlitedriver.SqliteTx) error {
		model := toMemberModel(m)
			res, err := tx.NewUpdate(model).WherePK().Exec(ctx)
		if err != nil {
			return err
		}
		if err := requireRow(res, ironvault.ErrMemberNotFound); err != nil {
			return err
		}
		_, err = tx.NewInsert(toPaymentModel(p)).Exec(ctx)
		return err
	})
}

// ==================== Payment Store ====================

func (s *Store) CreatePayment(ctx context.Context, p *payment.Payment) error {
	_, err := s.sdb.NewInsert(toPaymentModel(p)).Exec(ctx)
	return wrap("create payment", err)
}

func (s *Store) ListPayments(ctx context.Context, opts payment.ListOpts) ([]*payment.Payment, error) {
	var models []paymentModel
	q := s.sdb.NewSelect(&models)

	if !opts.MemberID.IsNil() {
		q = q.Where("member_id = ?", opts.MemberID.String())
	}
	if !opts.Since.IsZero() {
		q = q.Where("paid_at >= ?", opts.Since.UTC())
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	q = q.OrderExpr("paid_at DESC, id DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, wrap("list payments", err)
	}
	return convert(models, fromPaymentModel)
}

func (s *Store) CountPaymentsByMember(ctx context.Context) (map[id.MemberID]int, error) {
	rows, err := s.sdb.Query(ctx, `
		SELECT member_id, COUNT(*) FROM ironvault_payments
		WHERE member_id IS NOT NULL
		GROUP BY member_id
	`)
	if err != nil {
		return nil, wrap("count payments", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[id.MemberID]int)
	for rows.Next() {
		var (
			raw string
			n   int
		)
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, wrap("count payments", err)
		}
		memberID, err := id.ParseMemberID(raw)
		if err != nil {
			return nil, err
		}
		counts[memberID] = n
	}
	return counts, wrap("count payments", rows.Err())
}

// ==================== Staff Store ====================

func (s *Store) CreateStaff(ctx context.Context, st *staff.Staff) error {
	_, err := s.sdb.NewInsert(toStaffModel(st)).Exec(ctx)
	return wrap("create staff", err)
}

func (s *Store) GetStaff(ctx context.Context, staffID id.StaffID) (*staff.Staff, error) {
	m := new(staffModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", staffID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ironvault.ErrStaffNotFound
		}
		return nil, wrap("get staff", err)
	}
	return fromStaffModel(m)
}

func (s *Store) GetStaffByUsername(ctx context.Context, username string) (*staff.Staff, error) {
	m := new(staffModel)
	err := s.sdb.NewSelect(m).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ironvault.ErrStaffNotFound
		}
		return nil, wrap("get staff by username", err)
	}
	return fromStaffModel(m)
}

func (s *Store) ListStaff(ctx context.Context, opts staff.ListOpts) ([]*staff.Staff, error) {
	var models []staffModel
	q := s.sdb.NewSelect(&models)
	if opts.ActiveOnly {
		q = q.Where("active = 1")
	}
	if err := q.OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, wrap("list staff", err)
	}
	return convert(models, fromStaffModel)
}

func (s *Store) UpdateStaff(ctx context.Context, st *staff.Staff) error {
	model := toStaffModel(st)
	res, err := s.sdb.NewUpdate(model).WherePK().Exec(ctx)
	if err != nil {
		return wrap("update staff", err)
	}
	return requireRow(res, ironvault.ErrStaffNotFound)
}

// ==================== Salary Store ====================

func (s *Store) GetSalaryPayment(ctx context.Context, staffID id.StaffID, period string) (*salary.Payment, error) {
	m := new(salaryModel)
	err := s.sdb.NewSelect(m).
		Where("staff_id = ?", staffID.String()).
		Where("period = ?", period).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ironvault.ErrSalaryPaymentNotFound
		}
		return nil, wrap("get salary payment", err)
	}
	return fromSalaryModel(m)
}

func (s *Store) ListSalaryPayments(ctx context.Context, opts salary.ListOpts) ([]*salary.Payment, error) {
	var models []salaryModel
	q := s.sdb.NewSelect(&models)
	if !opts.StaffID.IsNil() {
		q = q.Where("staff_id = ?", opts.StaffID.String())
	}
	if err := q.OrderExpr("paid_at DESC, id DESC").Scan(ctx); err != nil {
		return nil, wrap("list salary payments", err)
	}
	return convert(models, fromSalaryModel)
}

// RecordSalaryPayment relies on the (staff_id, period) unique index: the
// loser of a race gets ErrAlreadyExists and its expense row is rolled back.
func (s *Store) RecordSalaryPayment(ctx context.Context, sp *salary.Payment, e *expense.Expense) error {
	return s.inTx(ctx, "record salary payment", func(tx *sqlitedriver.SqliteTx) error {
		if _, err := tx.NewInsert(toSalaryModel(sp)).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert(toExpenseModel(e)).Exec(ctx)
		return err
	})
}

// ==================== Expense Store ====================

func (s *Store) ListExpenses(ctx context.Context, opts expense.ListOpts) ([]*expense.Expense, error) {
	var models []expenseModel
	q := s.sdb.NewSelect(&models)
	if opts.Type != "" {
		q = q.Where("type = ?", string(opts.Type))
	}
	if err := q.OrderExpr("spent_at DESC, id DESC").Scan(ctx); err != nil {
		return nil, wrap("list expenses", err)
	}
	return convert(models, fromExpenseModel)
}

// ==================== Equipment Store ====================

func (s *Store) CreateMachine(ctx context.Context, m *equipment.Machine) error {
	_, err := s.sdb.NewInsert(toMachineModel(m)).Exec(ctx)
	return wrap("create machine", err)
}

func (s *Store) GetMachine(ctx context.Context, machineID id.MachineID) (*equipment.Machine, error) {
	m := new(machineModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", machineID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ironvault.ErrMachineNotFound
		}
		return nil, wrap("get machine", err)
	}
	return fromMachineModel(m)
}

func (s *Store) ListMachines(ctx context.Context) ([]*equipment.Machine, error) {
	var models []machineModel
	if err := s.sdb.NewSelect(&models).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, wrap("list machines", err)
	}
	return convert(models, fromMachineModel)
}

func (s *Store) UpdateMachineStatus(ctx context.Context, machineID id.MachineID, status string, at time.Time) error {
	res, err := s.sdb.NewUpdate((*machineModel)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", at.UTC()).
		Where("id = ?", machineID.String()).
		Exec(ctx)
	if err != nil {
		return wrap("update machine status", err)
	}
	return requireRow(res, ironvault.ErrMachineNotFound)
}

func (s *Store) RecordMachinePurchase(ctx context.Context, m *equipment.Machine, e *expense.Expense) error {
	return s.inTx(ctx, "record machine purchase", func(tx *sqlitedriver.SqliteTx) error {
		if _, err := tx.NewInsert(toMachineModel(m)).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert(toExpenseModel(e)).Exec(ctx)
		return err
	})
}

func (s *Store) CreateOrder(ctx context.Context, o *equipment.Order) error {
	_, err := s.sdb.NewInsert(toOrderModel(o)).Exec(ctx)
	return wrap("create order", err)
}

func (s *Store) GetOrder(ctx context.Context, orderID id.OrderID) (*equipment.Order, error) {
	m := new(orderModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", orderID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ironvault.ErrOrderNotFound
		}
		return nil, wrap("get order", err)
	}
	return fromOrderModel(m)
}

func (s *Store) ListOrders(ctx context.Context, opts equipment.ListOpts) ([]*equipment.Order, error) {
	var models []orderModel
	q := s.sdb.NewSelect(&models)
	if opts.UnpaidOnly {
		q = q.Where("paid = 0")
	}
	if err := q.OrderExpr("ordered_at DESC, id DESC").Scan(ctx); err != nil {
		return nil, wrap("list orders", err)
	}
	return convert(models, fromOrderModel)
}

// SettleEquipmentOrder flips paid with a conditional update, so of two
// concurrent settlements exactly one sees a row affected.
func (s *Store) SettleEquipmentOrder(ctx context.Context, orderID id.OrderID, paidAt time.Time, e *expense.Expense) error {
	return s.inTx(ctx, "settle equipment order", func(tx *sqlitedriver.SqliteTx) error {
		res, err := tx.NewUpdate((*orderModel)(nil)).
			Set("paid = 1").
			Set("paid_at = ?", paidAt.UTC()).
			Set("updated_at = ?", paidAt.UTC()).
			Where("id = ?", orderID.String()).
			Where("paid = 0").
			Exec(ctx)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			var exists bool
			err := tx.NewRaw(`SELECT EXISTS (SELECT 1 FROM ironvault_equipment_orders WHERE id = ?)`,
				orderID.String()).Scan(ctx, &exists)
			if err != nil {
				return err
			}
			if exists {
				return ironvault.ErrOrderAlreadyPaid
			}
			return ironvault.ErrOrderNotFound
		}
		_, err = tx.NewInsert(toExpenseModel(e)).Exec(ctx)
		return err
	})
}

// ==================== Owner Store ====================

func (s *Store) CreateOwner(ctx context.Context, o *owner.Owner) error {
	_, err := s.sdb.NewInsert(toOwnerModel(o)).Exec(ctx)
	return wrap("create owner", err)
}

func (s *Store) GetOwnerByUsername(ctx context.Context, username string) (*owner.Owner, error) {
	m := new(ownerModel)
	err := s.sdb.NewSelect(m).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ironvault.ErrOwnerNotFound
		}
		return nil, wrap("get owner", err)
	}
	return fromOwnerModel(m)
}

// ==================== Ledger Store ====================

// LedgerTotals reads all three sums in one statement. SQLite serializes
// writers, so a statement never observes half of a pair.
func (s *Store) LedgerTotals(ctx context.Context) (ledger.Totals, error) {
	var t ledger.Totals
	err := s.sdb.NewRaw(`
		SELECT
			(SELECT COALESCE(SUM(amount_cents), 0) FROM ironvault_payments),
			(SELECT COALESCE(SUM(amount_cents), 0) FROM ironvault_expenses),
			(SELECT COALESCE(SUM(amount_cents), 0) FROM ironvault_salary_payments)
	`).Scan(ctx, &t.Revenue, &t.Expenses, &t.Salaries)
	if err != nil {
		return ledger.Totals{}, wrap("ledger totals", err)
	}
	return t, nil
}

// ==================== Helpers ====================

// inTx runs fn in a transaction and rolls back on any error.
func (s *Store) inTx(ctx context.Context, op string, fn func(tx *sqlitedriver.SqliteTx) error) (err error) {
	tx, err := s.sdb.BeginTxQuery(ctx, nil)
	if err != nil {
		return wrap(op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return wrap(op, err)
	}
	if err = tx.Commit(); err != nil {
		return wrap(op, err)
	}
	return nil
}

// wrap prefixes err with the operation and maps unique violations to
// ErrAlreadyExists. Domain sentinels pass through untouched.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("ironvault/sqlite: %s: %w", op, ironvault.ErrAlreadyExists)
	}
	if isDomainError(err) {
		return err
	}
	return fmt.Errorf("ironvault/sqlite: %s: %w", op, err)
}

func isDomainError(err error) bool {
	return errors.Is(err, ironvault.ErrMemberNotFound) ||
		errors.Is(err, ironvault.ErrOrderNotFound) ||
		errors.Is(err, ironvault.ErrOrderAlreadyPaid)
}

// isUniqueViolation matches the driver's constraint message; the error type
// lives in an indirect dependency.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func requireRow(res interface{ RowsAffected() (int64, error) }, notFound error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func convert[M any, T any](models []M, from func(*M) (*T, error)) ([]*T, error) {
	result := make([]*T, len(models))
	for i := range models {
		v, err := from(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

// now returns the current UTC time.
// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
