package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

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

// Collection name constants.
const (
	colPlans    = "ironvault_plans"
	colMembers  = "ironvault_members"
	colPayments = "ironvault_payments"
	colStaff    = "ironvault_staff"
	colSalaries = "ironvault_salary_payments"
	colExpenses = "ironvault_expenses"
	colMachines = "ironvault_machines"
	colOrders   = "ironvault_equipment_orders"
	colOwners   = "ironvault_owners"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM. Pair writes use
// multi-document transactions, so the server must run as a replica set.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all IronVault collections.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("ironvault/mongo: migrate %s indexes: %w", col, err)
		}
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
	_, err := s.mdb.NewInsert(toPlanModel(p)).Exec(ctx)
	return wrap("create plan", err)
}

func (s *Store) GetPlan(ctx context.Context, planID id.PlanID) (*plan.Plan, error) {
	var m planModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": planID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ironvault.ErrPlanNotFound
		}
		return nil, wrap("get plan", err)
	}
	return fromPlanModel(&m)
}

func (s *Store) ListPlans(ctx context.Context) ([]*plan.Plan, error) {
	var models []planModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, wrap("list plans", err)
	}
	return convert(models, fromPlanModel)
}

// ==================== Member Store ====================

func (s *Store) GetMember(ctx context.Context, memberID id.MemberID) (*member.Member, error) {
	var m memberModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": memberID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ironvault.ErrMemberNotFound
		}
		return nil, wrap("get member", err)
	}
	return fromMemberModel(&m)
}

func (s *Store) GetMemberByEmail(ctx context.Context, email string) (*member.Member, error) {
	var m memberModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"email_key": strings.ToLower(email)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ironvault.ErrMemberNotFound
		}
		return nil, wrap("get member by email", err)
	}
	return fromMemberModel(&m)
}

func (s *Store) ListMembers(ctx context.Context, opts member.ListOpts) ([]*member.Member, error) {
	var models []memberModel

	filter := bson.M{}
	if !opts.IncludeTerminated {
		filter["terminated_at"] = nil
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "_id", Value: 1}})
	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, wrap("list members", err)
	}
	return convert(models, fromMemberModel)
}

func (s *Store) UpdateMember(ctx context.Context, m *member.Member) error {
	model := toMemberModel(m)

	res, err := s.mdb.NewUpdate(model).
		Filter(bson.M{"_id": model.ID}).
		Exec(ctx)
	if err != nil {
		return wrap("update member", err)
	}
	if res.MatchedCount() == 0 {
		return ironvault.ErrMemberNotFound
	}
	return nil
}

func (s *Store) ListMembersExpiringBetween(ctx context.Context, from, to time.Time) ([]*member.Member, error) {
	var models []memberModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{
			"terminated_at": nil,
			"expires_at":    bson.M{"$gte": from.UTC(), "$lt": to.UTC()},
		}).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, wrap("list expiring members", err)
	}
	return convert(models, fromMemberModel)
}

func (s *Store) CountMembersActiveAt(ctx context.Context, t time.Time) (int64, error) {
	n, err := s.mdb.Collection(colMembers).CountDocuments(ctx, bson.M{
		"terminated_at": nil,
		"expires_at":    bson.M{"$gte": t.UTC()},
	})
	if err != nil {
		return 0, wrap("count active members", err)
	}
	return n, nil
}

func (s *Store) RegisterMember(ctx context.Context, m *member.Member, p *payment.Payment) error {
	return s.inTx(ctx, "register member", func(tx *mongodriver.MongoTx) error {
		if _, err := tx.NewInsert(toMemberModel(m)).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert(toPaymentModel(p)).Exec(ctx)
		return err
	})
}

func (s *Store) RenewMember(ctx context.Context, m *member.Member, p *payment.Payment) error {
	return s.inTx(ctx, "renew member", func(tx *mongodriver.MongoTx) error {
		model := toMemberModel(m)
			res, err := tx.NewUpdate(model).
			Filter(bson.M{"_id": model.ID}).
			Exec(ctx)
		if err != nil {
			return err
		}
		if res.MatchedCount() == 0 {
			return ironvault.ErrMemberNotFound
		}
		_, err = tx.NewInsert(toPaymentModel(p)).Exec(ctx)
		return err
	})
}

// ==================== Payment Store ====================

func (s *Store) CreatePayment(ctx context.Context, p *payment.Payment) error {
	_, err := s.mdb.NewInsert(toPaymentModel(p)).Exec(ctx)
	return wrap("create payment", err)
}

func (s *Store) ListPayments(ctx context.Context, opts payment.ListOpts) ([]*payment.Payment, error) {
	var models []paymentModel

	filter := bson.M{}
	if !opts.MemberID.IsNil() {
		filter["member_id"] = opts.MemberID.String()
	}
	if !opts.Since.IsZero() {
		filter["paid_at"] = bson.M{"$gte": opts.Since.UTC()}
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "paid_at", Value: -1}, {Key: "_id", Value: -1}})
	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, wrap("list payments", err)
	}
	return convert(models, fromPaymentModel)
}

func (s *Store) CountPaymentsByMember(ctx context.Context) (map[id.MemberID]int, error) {
	var rows []struct {
		MemberID string `bson:"_id"`
		Count    int    `bson:"count"`
	}
	err := s.mdb.NewAggregate(colPayments).
		Match(bson.M{"member_id": bson.M{"$exists": true, "$ne": ""}}).
		Group(bson.M{"_id": "$member_id", "count": bson.M{"$sum": 1}}).
		Scan(ctx, &rows)
	if err != nil {
		return nil, wrap("count payments", err)
	}

	counts := make(map[id.MemberID]int, len(rows))
	for _, r := range rows {
		memberID, err := id.ParseMemberID(r.MemberID)
		if err != nil {
			return nil, err
		}
		counts[memberID] = r.Count
	}
	return counts, nil
}

// ==================== Staff Store ====================

func (s *Store) CreateStaff(ctx context.Context, st *staff.Staff) error {
	_, err := s.mdb.NewInsert(toStaffModel(st)).Exec(ctx)
	return wrap("create staff", err)
}

func (s *Store) GetStaff(ctx context.Context, staffID id.StaffID) (*staff.Staff, error) {
	var m staffModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": staffID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ironvault.ErrStaffNotFound
		}
		return nil, wrap("get staff", err)
	}
	return fromStaffModel(&m)
}

func (s *Store) GetStaffByUsername(ctx context.Context, username string) (*staff.Staff, error) {
	var m staffModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"username": username}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ironvault.ErrStaffNotFound
		}
		return nil, wrap("get staff by username", err)
	}
	return fromStaffModel(&m)
}

func (s *Store) ListStaff(ctx context.Context, opts staff.ListOpts) ([]*staff.Staff, error) {
	var models []staffModel

	filter := bson.M{}
	if opts.ActiveOnly {
		filter["active"] = true
	}

	err := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, wrap("list staff", err)
	}
	return convert(models, fromStaffModel)
}

func (s *Store) UpdateStaff(ctx context.Context, st *staff.Staff) error {
	model := toStaffModel(st)

	res, err := s.mdb.NewUpdate(model).
		Filter(bson.M{"_id": model.ID}).
		Exec(ctx)
	if err != nil {
		return wrap("update staff", err)
	}
	if res.MatchedCount() == 0 {
		return ironvault.ErrStaffNotFound
	}
	return nil
}

// ==================== Salary Store ====================

func (s *Store) GetSalaryPayment(ctx context.Context, staffID id.StaffID, period string) (*salary.Payment, error) {
	var m salaryModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"staff_id": staffID.String(), "period": period}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ironvault.ErrSalaryPaymentNotFound
		}
		return nil, wrap("get salary payment", err)
	}
	return fromSalaryModel(&m)
}

func (s *Store) ListSalaryPayments(ctx context.Context, opts salary.ListOpts) ([]*salary.Payment, error) {
	var models []salaryModel

	filter := bson.M{}
	if !opts.StaffID.IsNil() {
		filter["staff_id"] = opts.StaffID.String()
	}

	err := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "paid_at", Value: -1}, {Key: "_id", Value: -1}}).
		Scan(ctx)
	if err != nil {
		return nil, wrap("list salary payments", err)
	}
	return convert(models, fromSalaryModel)
}

// RecordSalaryPayment relies on the unique (staff_id, period) index; a
// duplicate aborts the transaction before the expense is committed.
func (s *Store) RecordSalaryPayment(ctx context.Context, sp *salary.Payment, e *expense.Expense) error {
	return s.inTx(ctx, "record salary payment", func(tx *mongodriver.MongoTx) error {
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

	filter := bson.M{}
	if opts.Type != "" {
		filter["type"] = string(opts.Type)
	}

	err := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "spent_at", Value: -1}, {Key: "_id", Value: -1}}).
		Scan(ctx)
	if err != nil {
		return nil, wrap("list expenses", err)
	}
	return convert(models, fromExpenseModel)
}

// ==================== Equipment Store ====================

func (s *Store) CreateMachine(ctx context.Context, m *equipment.Machine) error {
	_, err := s.mdb.NewInsert(toMachineModel(m)).Exec(ctx)
	return wrap("create machine", err)
}

func (s *Store) GetMachine(ctx context.Context, machineID id.MachineID) (*equipment.Machine, error) {
	var m machineModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": machineID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ironvault.ErrMachineNotFound
		}
		return nil, wrap("get machine", err)
	}
	return fromMachineModel(&m)
}

func (s *Store) ListMachines(ctx context.Context) ([]*equipment.Machine, error) {
	var models []machineModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, wrap("list machines", err)
	}
	return convert(models, fromMachineModel)
}

func (s *Store) UpdateMachineStatus(ctx context.Context, machineID id.MachineID, status string, at time.Time) error {
	res, err := s.mdb.NewUpdate((*machineModel)(nil)).
		Filter(bson.M{"_id": machineID.String()}).
		Set("status", status).
		Set("updated_at", at.UTC()).
		Exec(ctx)
	if err != nil {
		return wrap("update machine status", err)
	}
	if res.MatchedCount() == 0 {
		return ironvault.ErrMachineNotFound
	}
	return nil
}

func (s *Store) RecordMachinePurchase(ctx context.Context, m *equipment.Machine, e *expense.Expense) error {
	return s.inTx(ctx, "record machine purchase", func(tx *mongodriver.MongoTx) error {
		if _, err := tx.NewInsert(toMachineModel(m)).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert(toExpenseModel(e)).Exec(ctx)
		return err
	})
}

func (s *Store) CreateOrder(ctx context.Context, o *equipment.Order) error {
	_, err := s.mdb.NewInsert(toOrderModel(o)).Exec(ctx)
	return wrap("create order", err)
}

func (s *Store) GetOrder(ctx context.Context, orderID id.OrderID) (*equipment.Order, error) {
	var m orderModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": orderID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ironvault.ErrOrderNotFound
		}
		return nil, wrap("get order", err)
	}
	return fromOrderModel(&m)
}

func (s *Store) ListOrders(ctx context.Context, opts equipment.ListOpts) ([]*equipment.Order, error) {
	var models []orderModel

	filter := bson.M{}
	if opts.UnpaidOnly {
		filter["paid"] = false
	}

	err := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "ordered_at", Value: -1}, {Key: "_id", Value: -1}}).
		Scan(ctx)
	if err != nil {
		return nil, wrap("list orders", err)
	}
	return convert(models, fromOrderModel)
}

// SettleEquipmentOrder matches on paid=false, so only one of two racing
// settlements can flip the order.
func (s *Store) SettleEquipmentOrder(ctx context.Context, orderID id.OrderID, paidAt time.Time, e *expense.Expense) error {
	return s.inTx(ctx, "settle equipment order", func(tx *mongodriver.MongoTx) error {
		res, err := tx.NewUpdate((*orderModel)(nil)).
			Filter(bson.M{"_id": orderID.String(), "paid": false}).
			Set("paid", true).
			Set("paid_at", paidAt.UTC()).
			Set("updated_at", paidAt.UTC()).
			Exec(ctx)
		if err != nil {
			return err
		}
		if res.MatchedCount() == 0 {
			var existing orderModel
			err := tx.NewFind(&existing).
				Filter(bson.M{"_id": orderID.String()}).
				Scan(ctx)
			if isNoDocuments(err) {
				return ironvault.ErrOrderNotFound
			}
			if err != nil {
				return err
			}
			return ironvault.ErrOrderAlreadyPaid
		}
		_, err = tx.NewInsert(toExpenseModel(e)).Exec(ctx)
		return err
	})
}

// ==================== Owner Store ====================

func (s *Store) CreateOwner(ctx context.Context, o *owner.Owner) error {
	_, err := s.mdb.NewInsert(toOwnerModel(o)).Exec(ctx)
	return wrap("create owner", err)
}

func (s *Store) GetOwnerByUsername(ctx context.Context, username string) (*owner.Owner, error) {
	var m ownerModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"username": username}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ironvault.ErrOwnerNotFound
		}
		return nil, wrap("get owner", err)
	}
	return fromOwnerModel(&m)
}

// ==================== Ledger Store ====================

// LedgerTotals runs the three sums inside one transaction so they read from
// the same snapshot.
func (s *Store) LedgerTotals(ctx context.Context) (ledger.Totals, error) {
	var t ledger.Totals
	err := s.inTx(ctx, "ledger totals", func(tx *mongodriver.MongoTx) error {
		sctx := tx.SessionContext(ctx)
		var err error
		if t.Revenue, err = s.sumAmounts(sctx, colPayments); err != nil {
			return err
		}
		if t.Expenses, err = s.sumAmounts(sctx, colExpenses); err != nil {
			return err
		}
		t.Salaries, err = s.sumAmounts(sctx, colSalaries)
		return err
	})
	if err != nil {
		return ledger.Totals{}, err
	}
	return t, nil
}

func (s *Store) sumAmounts(ctx context.Context, col string) (int64, error) {
	cursor, err := s.mdb.Collection(col).Aggregate(ctx, bson.A{
		bson.M{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$amount.amount"}}},
	})
	if err != nil {
		return 0, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// ==================== Helpers ====================

// inTx runs fn inside a session transaction and aborts on any error.
func (s *Store) inTx(ctx context.Context, op string, fn func(tx *mongodriver.MongoTx) error) error {
	raw, err := s.mdb.GroveTx(ctx, 0, false)
	if err != nil {
		return wrap(op, err)
	}
	tx, ok := raw.(*mongodriver.MongoTx)
	if !ok {
		return fmt.Errorf("ironvault/mongo: %s: unexpected transaction type %T", op, raw)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return wrap(op, err)
	}
	return wrap(op, tx.Commit())
}

// wrap prefixes err with the operation and maps duplicate keys to
// ErrAlreadyExists. Domain sentinels pass through untouched.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("ironvault/mongo: %s: %w", op, ironvault.ErrAlreadyExists)
	}
	if errors.Is(err, ironvault.ErrMemberNotFound) ||
		errors.Is(err, ironvault.ErrOrderNotFound) ||
		errors.Is(err, ironvault.ErrOrderAlreadyPaid) {
		return err
	}
	return fmt.Errorf("ironvault/mongo: %s: %w", op, err)
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
// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all IronVault collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colMembers: {
			{
				Keys:    bson.D{{Key: "email_key", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "expires_at", Value: 1}}},
		},
		colPayments: {
			{Keys: bson.D{{Key: "member_id", Value: 1}, {Key: "paid_at", Value: -1}}},
			{Keys: bson.D{{Key: "paid_at", Value: -1}}},
		},
		colStaff: {
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colSalaries: {
			{
				Keys:    bson.D{{Key: "staff_id", Value: 1}, {Key: "period", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "paid_at", Value: -1}}},
		},
		colExpenses: {
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "spent_at", Value: -1}}},
			{
				Keys:    bson.D{{Key: "order_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
		},
		colOrders: {
			{Keys: bson.D{{Key: "paid", Value: 1}, {Key: "ordered_at", Value: -1}}},
		},
		colOwners: {
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colPlans:    nil,
		colMachines: nil,
	}
}
