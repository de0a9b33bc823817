package id_test

import (
	"strings"
	"testing"
	"time"

	"github.com/HassanShehryar1/IronVault-Gym-Management/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"MemberID", id.NewMemberID, "mbr_"},
		{"PlanID", id.NewPlanID, "plan_"},
		{"PaymentID", id.NewPaymentID, "pay_"},
		{"StaffID", id.NewStaffID, "stf_"},
		{"SalaryPaymentID", id.NewSalaryPaymentID, "sal_"},
		{"ExpenseID", id.NewExpenseID, "exp_"},
		{"MachineID", id.NewMachineID, "mach_"},
		{"OrderID", id.NewOrderID, "ord_"},
		{"OwnerID", id.NewOwnerID, "own_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"MemberID", id.NewMemberID, id.ParseMemberID},
		{"PlanID", id.NewPlanID, id.ParsePlanID},
		{"StaffID", id.NewStaffID, id.ParseStaffID},
		{"SalaryPaymentID", id.NewSalaryPaymentID, id.ParseSalaryPaymentID},
		{"OrderID", id.NewOrderID, id.ParseOrderID},
		{"OwnerID", id.NewOwnerID, id.ParseOwnerID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if parsed != original {
				t.Errorf("round-trip mismatch: %q != %q", parsed, original)
			}
		})
	}
}

func TestCrossTypeRejection(t *testing.T) {
	if _, err := id.ParseMemberID(id.NewStaffID().String()); err == nil {
		t.Error("ParseMemberID accepted a staff ID")
	}
	if _, err := id.ParseOrderID(id.NewMachineID().String()); err == nil {
		t.Error("ParseOrderID accepted a machine ID")
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := id.Parse(""); err == nil {
		t.Error("expected error for empty string")
	}
}

func TestNilID(t *testing.T) {
	var i id.ID
	if !i.IsNil() {
		t.Error("zero-value ID should be nil")
	}
	if i.String() != "" || i.Prefix() != "" {
		t.Errorf("expected empty string and prefix, got %q / %q", i.String(), i.Prefix())
	}
	if i.Ptr() != nil {
		t.Error("Ptr of nil ID should be nil")
	}
}

func TestCompareFollowsCreationOrder(t *testing.T) {
	first := id.NewMemberID()
	time.Sleep(2 * time.Millisecond)
	second := id.NewMemberID()

	if first.Compare(second) >= 0 {
		t.Errorf("expected %q < %q", first, second)
	}
	if second.Compare(first) <= 0 {
		t.Errorf("expected %q > %q", second, first)
	}
	if first.Compare(first) != 0 {
		t.Error("ID should compare equal to itself")
	}
}

func TestValueScan(t *testing.T) {
	original := id.NewPaymentID()
	val, err := original.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var scanned id.ID
	if err := scanned.Scan(val); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if scanned != original {
		t.Errorf("mismatch: %q != %q", scanned, original)
	}

	var nilID id.ID
	val, err = nilID.Value()
	if err != nil {
		t.Fatalf("Value(nil) failed: %v", err)
	}
	if val != nil {
		t.Errorf("expected nil value for nil ID, got %v", val)
	}

	var fromNull id.ID
	if err := fromNull.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if !fromNull.IsNil() {
		t.Error("expected nil after scan of nil")
	}

	var fromBytes id.ID
	if err := fromBytes.Scan([]byte(original.String())); err != nil {
		t.Fatalf("Scan([]byte) failed: %v", err)
	}
	if fromBytes != original {
		t.Errorf("mismatch: %q != %q", fromBytes, original)
	}

	if err := fromBytes.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}

func TestMarshalUnmarshalText(t *testing.T) {
	original := id.NewExpenseID()
	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}

	var restored id.ID
	if err := restored.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if restored != original {
		t.Errorf("mismatch: %q != %q", restored, original)
	}
}
