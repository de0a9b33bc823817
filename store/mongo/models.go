package mongo

import (
	"strings"
	"time"

	"github.com/xraph/grove"

	"github.com/HassanShehryar1/IronVault-Gym-Management/equipment"
	"github.com/HassanShehryar1/IronVault-Gym-Management/expense"
	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
	"github.com/HassanShehryar1/IronVault-Gym-Management/member"
	"github.com/HassanShehryar1/IronVault-Gym-Management/owner"
	"github.com/HassanShehryar1/IronVault-Gym-Management/payment"
	"github.com/HassanShehryar1/IronVault-Gym-Management/plan"
	"github.com/HassanShehryar1/IronVault-Gym-Management/salary"
	"github.com/HassanShehryar1/IronVault-Gym-Management/staff"
	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

// moneyModel is the embedded document form of types.Money.
type moneyModel struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

func toMoney(m types.Money) moneyModel { return moneyModel{Amount: m.Amount, Currency: m.Currency} }

func (m moneyModel) money() types.Money { return types.New(m.Amount, m.Currency) }

// ==================== Plan models ====================

type planModel struct {
	grove.BaseModel `grove:"table:ironvault_plans"`

	ID                  string     `grove:"id,pk"                bson:"_id"`
	Name                string     `grove:"name"                 bson:"name"`
	MonthlyPrice        moneyModel `grove:"monthly_price"        bson:"monthly_price"`
	IncludesTrainer     bool       `grove:"includes_trainer"     bson:"includes_trainer"`
	IncludesSupplements bool       `grove:"includes_supplements" bson:"includes_supplements"`
	CreatedAt           time.Time  `grove:"created_at"           bson:"created_at"`
	UpdatedAt           time.Time  `grove:"updated_at"           bson:"updated_at"`
}

func toPlanModel(p *plan.Plan) *planModel {
	return &planModel{
		ID:                  p.ID.String(),
		Name:                p.Name,
		MonthlyPrice:        toMoney(p.MonthlyPrice),
		IncludesTrainer:     p.IncludesTrainer,
		IncludesSupplements: p.IncludesSupplements,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func fromPlanModel(m *planModel) (*plan.Plan, error) {
	planID, err := id.ParsePlanID(m.ID)
	if err != nil {
		return nil, err
	}
	return &plan.Plan{
		Entity:              types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:                  planID,
		Name:                m.Name,
		MonthlyPrice:        m.MonthlyPrice.money(),
		IncludesTrainer:     m.IncludesTrainer,
		IncludesSupplements: m.IncludesSupplements,
	}, nil
}

// ==================== Member models ====================

// memberModel keeps a lowercased copy of the email so the unique index is
// case-insensitive.
type memberModel struct {
	grove.BaseModel `grove:"table:ironvault_members"`

	ID           string     `grove:"id,pk"         bson:"_id"`
	Name         string     `grove:"name"          bson:"name"`
	Email        string     `grove:"email"         bson:"email"`
	EmailKey     string     `grove:"email_key"     bson:"email_key"`
	PasswordHash string     `grove:"password_hash" bson:"password_hash"`
	PlanID       string     `grove:"plan_id"       bson:"plan_id"`
	ExpiresAt    time.Time  `grove:"expires_at"    bson:"expires_at"`
	Status       string     `grove:"status"        bson:"status"`
	TerminatedAt *time.Time `grove:"terminated_at" bson:"terminated_at"`
	CreatedAt    time.Time  `grove:"created_at"    bson:"created_at"`
	UpdatedAt    time.Time  `grove:"updated_at"    bson:"updated_at"`
}

func toMemberModel(m *member.Member) *memberModel {
	return &memberModel{
		ID:           m.ID.String(),
		Name:         m.Name,
		Email:        m.Email,
		EmailKey:     strings.ToLower(m.Email),
		PasswordHash: m.PasswordHash,
		PlanID:       m.PlanID.String(),
		ExpiresAt:    m.ExpiresAt.UTC(),
		Status:       string(m.Status),
		TerminatedAt: m.TerminatedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromMemberModel(m *memberModel) (*member.Member, error) {
	memberID, err := id.ParseMemberID(m.ID)
	if err != nil {
		return nil, err
	}
	var planID id.PlanID
	if m.PlanID != "" {
		if planID, err = id.ParsePlanID(m.PlanID); err != nil {
			return nil, err
		}
	}
	return &member.Member{
		Entity:       types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:           memberID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		PlanID:       planID,
		ExpiresAt:    m.ExpiresAt,
		Status:       member.Status(m.Status),
		TerminatedAt: m.TerminatedAt,
	}, nil
}

// ==================== Payment models ====================

type paymentModel struct {
	grove.BaseModel `grove:"table:ironvault_payments"`

	ID        string     `grove:"id,pk"      bson:"_id"`
	MemberID  string     `grove:"member_id"  bson:"member_id,omitempty"`
	Amount    moneyModel `grove:"amount"     bson:"amount"`
	PaidAt    time.Time  `grove:"paid_at"    bson:"paid_at"`
	Note      string     `grove:"note"       bson:"note,omitempty"`
	CreatedAt time.Time  `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `grove:"updated_at" bson:"updated_at"`
}

func toPaymentModel(p *payment.Payment) *paymentModel {
	m := &paymentModel{
		ID:        p.ID.String(),
		Amount:    toMoney(p.Amount),
		PaidAt:    p.PaidAt.UTC(),
		Note:      p.Note,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.MemberID != nil {
		m.MemberID = p.MemberID.String()
	}
	return m
}

func fromPaymentModel(m *paymentModel) (*payment.Payment, error) {
	paymentID, err := id.ParsePaymentID(m.ID)
	if err != nil {
		return nil, err
	}
	p := &payment.Payment{
		Entity: types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:     paymentID,
		Amount: m.Amount.money(),
		PaidAt: m.PaidAt,
		Note:   m.Note,
	}
	if m.MemberID != "" {
		memberID, err := id.ParseMemberID(m.MemberID)
		if err != nil {
			return nil, err
		}
		p.MemberID = &memberID
	}
	return p, nil
}

// ==================== Staff models ====================

type staffModel struct {
	grove.BaseModel `grove:"table:ironvault_staff"`

	ID           string     `grove:"id,pk"         bson:"_id"`
	Name         string     `grove:"name"          bson:"name"`
	Role         string     `grove:"role"          bson:"role"`
	Salary       moneyModel `grove:"salary"        bson:"salary"`
	Username     string     `grove:"username"      bson:"username"`
	PasswordHash string     `grove:"password_hash" bson:"password_hash"`
	Active       bool       `grove:"active"        bson:"active"`
	TerminatedAt *time.Time `grove:"terminated_at" bson:"terminated_at"`
	CreatedAt    time.Time  `grove:"created_at"    bson:"created_at"`
	UpdatedAt    time.Time  `grove:"updated_at"    bson:"updated_at"`
}

func toStaffModel(s *staff.Staff) *staffModel {
	return &staffModel{
		ID:           s.ID.String(),
		Name:         s.Name,
		Role:         string(s.Role),
		Salary:       toMoney(s.Salary),
		Username:     s.Username,
		PasswordHash: s.PasswordHash,
		Active:       s.Active,
		TerminatedAt: s.TerminatedAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func fromStaffModel(m *staffModel) (*staff.Staff, error) {
	staffID, err := id.ParseStaffID(m.ID)
	if err != nil {
		return nil, err
	}
	return &staff.Staff{
		Entity:       types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:           staffID,
		Name:         m.Name,
		Role:         staff.Role(m.Role),
		Salary:       m.Salary.money(),
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Active:       m.Active,
		TerminatedAt: m.TerminatedAt,
	}, nil
}

// ==================== Salary models ====================

type salaryModel struct {
	grove.BaseModel `grove:"table:ironvault_salary_payments"`

	ID        string     `grove:"id,pk"      bson:"_id"`
	StaffID   string     `grove:"staff_id"   bson:"staff_id"`
	Amount    moneyModel `grove:"amount"     bson:"amount"`
	PaidAt    time.Time  `grove:"paid_at"    bson:"paid_at"`
	Period    string     `grove:"period"     bson:"period"`
	Year      string     `grove:"year"       bson:"year"`
	CreatedAt time.Time  `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `grove:"updated_at" bson:"updated_at"`
}

func toSalaryModel(sp *salary.Payment) *salaryModel {
	return &salaryModel{
		ID:        sp.ID.String(),
		StaffID:   sp.StaffID.String(),
		Amount:    toMoney(sp.Amount),
		PaidAt:    sp.PaidAt.UTC(),
		Period:    sp.Period,
		Year:      sp.Year,
		CreatedAt: sp.CreatedAt,
		UpdatedAt: sp.UpdatedAt,
	}
}

func fromSalaryModel(m *salaryModel) (*salary.Payment, error) {
	salaryID, err := id.ParseSalaryPaymentID(m.ID)
	if err != nil {
		return nil, err
	}
	staffID, err := id.ParseStaffID(m.StaffID)
	if err != nil {
		return nil, err
	}
	return &salary.Payment{
		Entity:  types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:      salaryID,
		StaffID: staffID,
		Amount:  m.Amount.money(),
		PaidAt:  m.PaidAt,
		Period:  m.Period,
		Year:    m.Year,
	}, nil
}

// ==================== Expense models ====================

type expenseModel struct {
	grove.BaseModel `grove:"table:ironvault_expenses"`

	ID          string     `grove:"id,pk"       bson:"_id"`
	Type        string     `grove:"type"        bson:"type"`
	Description string     `grove:"description" bson:"description"`
	Amount      moneyModel `grove:"amount"      bson:"amount"`
	SpentAt     time.Time  `grove:"spent_at"    bson:"spent_at"`
	OrderID     string     `grove:"order_id"    bson:"order_id,omitempty"`
	StaffID     string     `grove:"staff_id"    bson:"staff_id,omitempty"`
	CreatedAt   time.Time  `grove:"created_at"  bson:"created_at"`
	UpdatedAt   time.Time  `grove:"updated_at"  bson:"updated_at"`
}

func toExpenseModel(e *expense.Expense) *expenseModel {
	m := &expenseModel{
		ID:          e.ID.String(),
		Type:        string(e.Type),
		Description: e.Description,
		Amount:      toMoney(e.Amount),
		SpentAt:     e.SpentAt.UTC(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.OrderID != nil {
		m.OrderID = e.OrderID.String()
	}
	if e.StaffID != nil {
		m.StaffID = e.StaffID.String()
	}
	return m
}

func fromExpenseModel(m *expenseModel) (*expense.Expense, error) {
	expenseID, err := id.ParseExpenseID(m.ID)
	if err != nil {
		return nil, err
	}
	e := &expense.Expense{
		Entity:      types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:          expenseID,
		Type:        expense.Type(m.Type),
		Description: m.Description,
		Amount:      m.Amount.money(),
		SpentAt:     m.SpentAt,
	}
	if m.OrderID != "" {
		orderID, err := id.ParseOrderID(m.OrderID)
		if err != nil {
			return nil, err
		}
		e.OrderID = &orderID
	}
	if m.StaffID != "" {
		staffID, err := id.ParseStaffID(m.StaffID)
		if err != nil {
			return nil, err
		}
		e.StaffID = &staffID
	}
	return e, nil
}

// ==================== Equipment models ====================

type machineModel struct {
	grove.BaseModel `grove:"table:ironvault_machines"`

	ID            string      `grove:"id,pk"          bson:"_id"`
	Name          string      `grove:"name"           bson:"name"`
	Status        string      `grove:"status"         bson:"status"`
	PurchasePrice *moneyModel `grove:"purchase_price" bson:"purchase_price,omitempty"`
	PurchasedAt   *time.Time  `grove:"purchased_at"   bson:"purchased_at,omitempty"`
	CreatedAt     time.Time   `grove:"created_at"     bson:"created_at"`
	UpdatedAt     time.Time   `grove:"updated_at"     bson:"updated_at"`
}

func toMachineModel(m *equipment.Machine) *machineModel {
	model := &machineModel{
		ID:          m.ID.String(),
		Name:        m.Name,
		Status:      m.Status,
		PurchasedAt: m.PurchasedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.PurchasePrice != nil {
		price := toMoney(*m.PurchasePrice)
		model.PurchasePrice = &price
	}
	return model
}

func fromMachineModel(m *machineModel) (*equipment.Machine, error) {
	machineID, err := id.ParseMachineID(m.ID)
	if err != nil {
		return nil, err
	}
	machine := &equipment.Machine{
		Entity:      types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:          machineID,
		Name:        m.Name,
		Status:      m.Status,
		PurchasedAt: m.PurchasedAt,
	}
	if m.PurchasePrice != nil {
		price := m.PurchasePrice.money()
		machine.PurchasePrice = &price
	}
	return machine, nil
}

type orderModel struct {
	grove.BaseModel `grove:"table:ironvault_equipment_orders"`

	ID            string     `grove:"id,pk"          bson:"_id"`
	EquipmentName string     `grove:"equipment_name" bson:"equipment_name"`
	Quantity      int        `grove:"quantity"       bson:"quantity"`
	TotalPrice    moneyModel `grove:"total_price"    bson:"total_price"`
	OrderedAt     time.Time  `grove:"ordered_at"     bson:"ordered_at"`
	Paid          bool       `grove:"paid"           bson:"paid"`
	PaidAt        *time.Time `grove:"paid_at"        bson:"paid_at,omitempty"`
	CreatedAt     time.Time  `grove:"created_at"     bson:"created_at"`
	UpdatedAt     time.Time  `grove:"updated_at"     bson:"updated_at"`
}

func toOrderModel(o *equipment.Order) *orderModel {
	return &orderModel{
		ID:            o.ID.String(),
		EquipmentName: o.EquipmentName,
		Quantity:      o.Quantity,
		TotalPrice:    toMoney(o.TotalPrice),
		OrderedAt:     o.OrderedAt.UTC(),
		Paid:          o.Paid,
		PaidAt:        o.PaidAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func fromOrderModel(m *orderModel) (*equipment.Order, error) {
	orderID, err := id.ParseOrderID(m.ID)
	if err != nil {
		return nil, err
	}
	return &equipment.Order{
		Entity:        types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:            orderID,
		EquipmentName: m.EquipmentName,
		Quantity:      m.Quantity,
		TotalPrice:    m.TotalPrice.money(),
		OrderedAt:     m.OrderedAt,
		Paid:          m.Paid,
		PaidAt:        m.PaidAt,
	}, nil
}

// ==================== Owner models ====================

type ownerModel struct {
	grove.BaseModel `grove:"table:ironvault_owners"`

	ID           string    `grove:"id,pk"         bson:"_id"`
	Name         string    `grove:"name"          bson:"name"`
	Username     string    `grove:"username"      bson:"username"`
	PasswordHash string    `grove:"password_hash" bson:"password_hash"`
	CreatedAt    time.Time `grove:"created_at"    bson:"created_at"`
	UpdatedAt    time.Time `grove:"updated_at"    bson:"updated_at"`
}

func toOwnerModel(o *owner.Owner) *ownerModel {
	return &ownerModel{
		ID:           o.ID.String(),
		Name:         o.Name,
		Username:     o.Username,
		PasswordHash: o.PasswordHash,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func fromOwnerModel(m *ownerModel) (*owner.Owner, error) {
	ownerID, err := id.ParseOwnerID(m.ID)
	if err != nil {
		return nil, err
	}
	return &owner.Owner{
		Entity:       types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:           ownerID,
		Name:         m.Name,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
	}, nil
}
