package ironvault

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/HassanShehryar1/IronVault-Gym-Management/types"
)

// check runs struct-tag validation and reports the first failure.
func (g *Gym) check(v any) error {
	err := g.validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return ValidationError{Field: strings.ToLower(fe.Field()), Message: describe(fe)}
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	}
	return "failed " + fe.Tag()
}

// checkAmount requires a positive amount in the ledger currency.
func (g *Gym) checkAmount(field string, m types.Money) error {
	if m.Currency != g.currency {
		return ValidationError{Field: field, Message: fmt.Sprintf("currency must be %s", g.currency)}
	}
	if !m.IsPositive() {
		return ValidationError{Field: field, Message: "must be positive"}
	}
	return nil
}
