// Package id defines the TypeID-based identifiers used by every IronVault
// record.
//
// An ID is "prefix_suffix" where the prefix names the entity kind and the
// suffix is a UUIDv7 in base32. Because the suffix is time-ordered, sorting
// IDs of one kind by string yields creation order.
package id

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the entity kind encoded in an ID.
type Prefix string

// Entity prefixes.
const (
	PrefixMember        Prefix = "mbr"
	PrefixPlan          Prefix = "plan"
	PrefixPayment       Prefix = "pay"
	PrefixStaff         Prefix = "stf"
	PrefixSalaryPayment Prefix = "sal"
	PrefixExpense       Prefix = "exp"
	PrefixMachine       Prefix = "mach"
	PrefixOrder         Prefix = "ord"
	PrefixOwner         Prefix = "own"
)

// ID is the identifier shared by all entities. The zero value is Nil.
//
//nolint:recvcheck // value receivers for reads, pointer receivers for decoding
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero ID.
var Nil ID

// New generates a fresh ID. It panics on an invalid prefix, which is a
// programming error.
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}
	return ID{inner: tid, valid: true}
}

// Parse decodes any well-formed TypeID string.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}
	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}
	return ID{inner: tid, valid: true}, nil
}

// ParseWithPrefix decodes s and requires the given prefix.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}
	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}
	return parsed, nil
}

// MustParse is Parse for literals; it panics on error.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}
	return parsed
}

// Per-entity aliases. They document intent at call sites; the compiler
// treats them as the same type.
type (
	MemberID        = ID
	PlanID          = ID
	PaymentID       = ID
	StaffID         = ID
	SalaryPaymentID = ID
	ExpenseID       = ID
	MachineID       = ID
	OrderID         = ID
	OwnerID         = ID
)

func NewMemberID() ID        { return New(PrefixMember) }
func NewPlanID() ID          { return New(PrefixPlan) }
func NewPaymentID() ID       { return New(PrefixPayment) }
func NewStaffID() ID         { return New(PrefixStaff) }
func NewSalaryPaymentID() ID { return New(PrefixSalaryPayment) }
func NewExpenseID() ID       { return New(PrefixExpense) }
func NewMachineID() ID       { return New(PrefixMachine) }
func NewOrderID() ID         { return New(PrefixOrder) }
func NewOwnerID() ID         { return New(PrefixOwner) }

func ParseMemberID(s string) (ID, error)  { return ParseWithPrefix(s, PrefixMember) }
func ParsePlanID(s string) (ID, error)    { return ParseWithPrefix(s, PrefixPlan) }
func ParsePaymentID(s string) (ID, error) { return ParseWithPrefix(s, PrefixPayment) }
func ParseStaffID(s string) (ID, error)   { return ParseWithPrefix(s, PrefixStaff) }
func ParseSalaryPaymentID(s string) (ID, error) {
	return ParseWithPrefix(s, PrefixSalaryPayment)
}
func ParseExpenseID(s string) (ID, error) { return ParseWithPrefix(s, PrefixExpense) }
func ParseMachineID(s string) (ID, error) { return ParseWithPrefix(s, PrefixMachine) }
func ParseOrderID(s string) (ID, error)   { return ParseWithPrefix(s, PrefixOrder) }
func ParseOwnerID(s string) (ID, error)   { return ParseWithPrefix(s, PrefixOwner) }

// String returns "prefix_suffix", or "" for Nil.
func (i ID) String() string {
	if !i.valid {
		return ""
	}
	return i.inner.String()
}

// Prefix returns the entity prefix, or "" for Nil.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}
	return Prefix(i.inner.Prefix())
}

// IsNil reports whether i is the zero ID.
func (i ID) IsNil() bool { return !i.valid }

// Compare orders IDs by their string form. For IDs of one prefix this is
// creation order. Nil sorts first.
func (i ID) Compare(other ID) int {
	return strings.Compare(i.String(), other.String())
}

// Ptr returns a pointer to i, or nil when i is Nil. Useful for nullable
// foreign keys.
func (i ID) Ptr() *ID {
	if !i.valid {
		return nil
	}
	return &i
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}
	return []byte(i.inner.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil
		return nil
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Value implements driver.Valuer. Nil is stored as NULL.
func (i ID) Value() (driver.Value, error) {
	if !i.valid {
		return nil, nil //nolint:nilnil // NULL
	}
	return i.inner.String(), nil
}

// Scan implements sql.Scanner.
func (i *ID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*i = Nil
		return nil
	case string:
		return i.UnmarshalText([]byte(v))
	case []byte:
		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}
