package postgres

import (
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

// ==================== Plan models ====================

type planModel struct {
	grove.BaseModel `grove:"table:ironvault_plans"`

	ID                  string    `grove:"id,pk"`
	Name                string    `grove:"name"`
	PriceAmount         int64     `grove:"price_amount"`
	PriceCurrency       string    `grove:"price_currency"`
	IncludesTrainer     bool      `grove:"includes_trainer"`
	IncludesSupplements bool      `grove:"includes_supplements"`
	CreatedAt           time.Time `grove:"created_at"`
	UpdatedAt           time.Time `grove:"updated_at"`
}

func toPlanModel(p *plan.Plan) *planModel {
	return &planModel{
		ID:                  p.ID.String(),
		Name:                p.Name,
		PriceAmount:         p.MonthlyPrice.Amount,
		PriceCurrency:       p.MonthlyPrice.Currency,
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
		Entity:              entity(m.CreatedAt, m.UpdatedAt),
		ID:                  planID,
		Name:                m.Name,
		MonthlyPrice:        types.New(m.PriceAmount, m.PriceCurrency),
		IncludesTrainer:     m.IncludesTrainer,
		IncludesSupplements: m.IncludesSupplements,
	}, nil
}

// ==================== Member models ====================

type memberModel struct {
	grove.BaseModel `grove:"table:ironvault_members"`

	ID           string     `grove:"id,pk"`
	Name         string     `grove:"name"`
	Email        string     `grove:"email"`
	PasswordHash string     `grove:"password_hash"`
	PlanID       string     `grove:"plan_id"`
	ExpiresAt    time.Time  `grove:"expires_at"`
	Status       string     `grove:"status"`
	TerminatedAt *time.Time `grove:"terminated_at"`
	CreatedAt    time.Time  `grove:"created_at"`
	UpdatedAt    time.Time  `grove:"updated_at"`
}

func toMemberModel(m *member.Member) *memberModel {
	return &memberModel{
		ID:           m.ID.String(),
		Name:         m.Name,
		Email:        m.Email,
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
		Entity:       entity(m.CreatedAt, m.UpdatedAt),
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

	ID             string    `grove:"id,pk"`
	MemberID       *string   `grove:"member_id"`
	AmountCents    int64     `grove:"amount_cents"`
	AmountCurrency string    `grove:"amount_currency"`
	PaidAt         time.Time `grove:"paid_at"`
	Note           string    `grove:"note"`
	CreatedAt      time.Time `grove:"created_at"`
	UpdatedAt      time.Time `grove:"updated_at"`
}

func toPaymentModel(p *payment.Payment) *paymentModel {
	return &paymentModel{
		ID:             p.ID.String(),
		MemberID:       idString(p.MemberID),
		AmountCents:    p.Amount.Amount,
		AmountCurrency: p.Amount.Currency,
		PaidAt:         p.PaidAt.UTC(),
		Note:           p.Note,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func fromPaymentModel(m *paymentModel) (*payment.Payment, error) {
	paymentID, err := id.ParsePaymentID(m.ID)
	if err != nil {
		return nil, err
	}
	memberID, err := parseOptional(m.MemberID, id.ParseMemberID)
	if err != nil {
		return nil, err
	}
	return &payment.Payment{
		Entity:   entity(m.CreatedAt, m.UpdatedAt),
		ID:       paymentID,
		MemberID: memberID,
		Amount:   types.New(m.AmountCents, m.AmountCurrency),
		PaidAt:   m.PaidAt,
		Note:     m.Note,
	}, nil
}

// ==================== Staff models ====================

type staffModel struct {
	grove.BaseModel `grove:"table:ironvault_staff"`

	ID             string     `grove:"id,pk"`
	Name           string     `grove:"name"`
	Role           string     `grove:"role"`
	SalaryCents    int64      `grove:"salary_cents"`
	SalaryCurrency string     `grove:"salary_currency"`
	Username       string     `grove:"username"`
	PasswordHash   string     `grove:"password_hash"`
	Active         bool       `grove:"active"`
	TerminatedAt   *time.Time `grove:"terminated_at"`
	CreatedAt      time.Time  `grove:"created_at"`
	UpdatedAt      time.Time  `grove:"updated_at"`
}

func toStaffModel(s *staff.Staff) *staffModel {
	return &staffModel{
		ID:             s.ID.String(),
		Name:           s.Name,
		Role:           string(s.Role),
		SalaryCents:    s.Salary.Amount,
		SalaryCurrency: s.Salary.Currency,
		Username:       s.Username,
		PasswordHash:   s.PasswordHash,
		Active:         s.Active,
		TerminatedAt:   s.TerminatedAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func fromStaffModel(m *staffModel) (*staff.Staff, error) {
	staffID, err := id.ParseStaffID(m.ID)
	if err != nil {
		return nil, err
	}
	return &staff.Staff{
		Entity:       entity(m.CreatedAt, m.UpdatedAt),
		ID:           staffID,
		Name:         m.Name,
		Role:         staff.Role(m.Role),
		Salary:       types.New(m.SalaryCents, m.SalaryCurrency),
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Active:       m.Active,
		TerminatedAt: m.TerminatedAt,
	}, nil
}

// ==================== Salary models ====================

type salaryModel struct {
	grove.BaseModel `grove:"table:ironvault_salary_payments"`

	ID             string    `grove:"id,pk"`
	StaffID        string    `grove:"staff_id"`
	AmountCents    int64     `grove:"amount_cents"`
	AmountCurrency string    `grove:"amount_currency"`
	PaidAt         time.Time `grove:"paid_at"`
	Period         string    `grove:"period"`
	Year           string    `grove:"year"`
	CreatedAt      time.Time `grove:"created_at"`
	UpdatedAt      time.Time `grove:"updated_at"`
}

func toSalaryModel(sp *salary.Payment) *salaryModel {
	return &salaryModel{
		ID:             sp.ID.String(),
		StaffID:        sp.StaffID.String(),
		AmountCents:    sp.Amount.Amount,
		AmountCurrency: sp.Amount.Currency,
		PaidAt:         sp.PaidAt.UTC(),
		Period:         sp.Period,
		Year:           sp.Year,
		CreatedAt:      sp.CreatedAt,
		UpdatedAt:      sp.UpdatedAt,
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
		Entity:  entity(m.CreatedAt, m.UpdatedAt),
		ID:      salaryID,
		StaffID: staffID,
		Amount:  types.New(m.AmountCents, m.AmountCurrency),
		PaidAt:  m.PaidAt,
		Period:  m.Period,
		Year:    m.Year,
	}, nil
}

// ==================== Expense models ====================

type expenseModel struct {
	grove.BaseModel `grove:"table:ironvault_expenses"`

	ID             string    `grove:"id,pk"`
	Type           string    `grove:"type"`
	Description    string    `grove:"description"`
	AmountCents    int64     `grove:"amount_cents"`
	AmountCurrency string    `grove:"amount_currency"`
	SpentAt        time.Time `grove:"spent_at"`
	OrderID        *string   `grove:"order_id"`
	StaffID        *string   `grove:"staff_id"`
	CreatedAt      time.Time `grove:"created_at"`
	UpdatedAt      time.Time `grove:"updated_at"`
}

func toExpenseModel(e *expense.Expense) *expenseModel {
	return &expenseModel{
		ID:             e.ID.String(),
		Type:           string(e.Type),
		Description:    e.Description,
		AmountCents:    e.Amount.Amount,
		AmountCurrency: e.Amount.Currency,
		SpentAt:        e.SpentAt.UTC(),
		OrderID:        idString(e.OrderID),
		StaffID:        idString(e.StaffID),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func fromExpenseModel(m *expenseModel) (*expense.Expense, error) {
	expenseID, err := id.ParseExpenseID(m.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := parseOptional(m.OrderID, id.ParseOrderID)
	if err != nil {
		return nil, err
	}
	staffID, err := parseOptional(m.StaffID, id.ParseStaffID)
	if err != nil {
		return nil, err
	}
	return &expense.Expense{
		Entity:      entity(m.CreatedAt, m.UpdatedAt),
		ID:          expenseID,
		Type:        expense.Type(m.Type),
		Description: m.Description,
		Amount:      types.New(m.AmountCents, m.AmountCurrency),
		SpentAt:     m.SpentAt,
		OrderID:     orderID,
		StaffID:     staffID,
	}, nil
}

// ==================== Equipment models ====================

type machineModel struct {
	grove.BaseModel `grove:"table:ironvault_machines"`

	ID            string     `grove:"id,pk"`
	Name          string     `grove:"name"`
	Status        string     `grove:"status"`
	PriceCents    *int64     `grove:"price_cents"`
	PriceCurrency string     `grove:"price_currency"`
	PurchasedAt   *time.Time `grove:"purchased_at"`
	CreatedAt     time.Time  `grove:"created_at"`
	UpdatedAt     time.Time  `grove:"updated_at"`
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
		cents := m.PurchasePrice.Amount
		model.PriceCents = &cents
		model.PriceCurrency = m.PurchasePrice.Currency
	}
	return model
}

func fromMachineModel(m *machineModel) (*equipment.Machine, error) {
	machineID, err := id.ParseMachineID(m.ID)
	if err != nil {
		return nil, err
	}
	machine := &equipment.Machine{
		Entity:      entity(m.CreatedAt, m.UpdatedAt),
		ID:          machineID,
		Name:        m.Name,
		Status:      m.Status,
		PurchasedAt: m.PurchasedAt,
	}
	if m.PriceCents != nil {
		price := types.New(*m.PriceCents, m.PriceCurrency)
		machine.PurchasePrice = &price
	}
	return machine, nil
}

type orderModel struct {
	grove.BaseModel `grove:"table:ironvault_equipment_orders"`

	ID            string     `grove:"id,pk"`
	EquipmentName string     `grove:"equipment_name"`
	Quantity      int        `grove:"quantity"`
	TotalCents    int64      `grove:"total_cents"`
	TotalCurrency string     `grove:"total_currency"`
	OrderedAt     time.Time  `grove:"ordered_at"`
	Paid          bool       `grove:"paid"`
	PaidAt        *time.Time `grove:"paid_at"`
	CreatedAt     time.Time  `grove:"created_at"`
	UpdatedAt     time.Time  `grove:"updated_at"`
}

func toOrderModel(o *equipment.Order) *orderModel {
	return &orderModel{
		ID:            o.ID.String(),
		EquipmentName: o.EquipmentName,
		Quantity:      o.Quantity,
		TotalCents:    o.TotalPrice.Amount,
		TotalCurrency: o.TotalPrice.Currency,
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
		Entity:        entity(m.CreatedAt, m.UpdatedAt),
		ID:            orderID,
		EquipmentName: m.EquipmentName,
		Quantity:      m.Quantity,
		TotalPrice:    types.New(m.TotalCents, m.TotalCurrency),
		OrderedAt:     m.OrderedAt,
		Paid:          m.Paid,
		PaidAt:        m.PaidAt,
	}, nil
}

// ==================== Owner models ====================

type ownerModel struct {
	grove.BaseModel `grove:"table:ironvault_owners"`

	ID           string    `grove:"id,pk"`
	Name         string    `grove:"name"`
	Username     string    `grove:"username"`
	PasswordHash string    `grove:"password_hash"`
	CreatedAt    time.Time `grove:"created_at"`
	UpdatedAt    time.Time `grove:"updated_at"`
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
		Entity:       entity(m.CreatedAt, m.UpdatedAt),
		ID:           ownerID,
		Name:         m.Name,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
	}, nil
}

// ==================== Helpers ====================

func entity(created, updated time.Time) types.Entity {
	return types.Entity{CreatedAt: created, UpdatedAt: updated}
}

func idString(i *id.ID) *string {
	if i == nil || i.IsNil() {
		return nil
	}
	s := i.String()
	return &s
}

func parseOptional(s *string, parse func(string) (id.ID, error)) (*id.ID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	parsed, err := parse(*s)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
