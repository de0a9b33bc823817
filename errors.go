package ironvault

import (
	"errors"
	"fmt"

	"github.com/HassanShehryar1/IronVault-Gym-Management/ledger"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrAlreadyExists      = errors.New("ironvault: already exists")
	ErrInvalidInput       = errors.New("ironvault: invalid input")
	ErrInvalidCredentials = errors.New("ironvault: invalid credentials")

	// Not found
	ErrMemberNotFound  = errors.New("ironvault: member not found")
	ErrStaffNotFound   = errors.New("ironvault: staff not found")
	ErrPlanNotFound    = errors.New("ironvault: plan not found")
	ErrOrderNotFound   = errors.New("ironvault: equipment order not found")
	ErrMachineNotFound = errors.New("ironvault: machine not found")
	ErrOwnerNotFound   = errors.New("ironvault: owner not found")

	ErrSalaryPaymentNotFound = errors.New("ironvault: salary payment not found")

	// Business rule errors
	ErrInvalidPlan      = errors.New("ironvault: invalid plan")
	ErrOrderAlreadyPaid = errors.New("ironvault: equipment order already paid")
	ErrStaffTerminated  = errors.New("ironvault: staff member is terminated")

	// ErrInsufficientFunds matches every *InsufficientFundsError.
	ErrInsufficientFunds = ledger.ErrInsufficientFunds
)

// InsufficientFundsError carries the balance and the rejected amount.
type InsufficientFundsError = ledger.InsufficientFundsError

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("ironvault: validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match.
func (e ValidationError) Unwrap() error { return ErrInvalidInput }

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrStaffNotFound) ||
		errors.Is(err, ErrPlanNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrMachineNotFound) ||
		errors.Is(err, ErrOwnerNotFound) ||
		errors.Is(err, ErrSalaryPaymentNotFound)
}

// IsInsufficientFunds reports whether an outflow was rejected for lack of funds.
func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}
