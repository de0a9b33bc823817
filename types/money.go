// Package types provides the value types shared across IronVault.
package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in the currency's minor unit. Arithmetic stays in
// integers; decimal is only used at the string boundary.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"` // ISO 4217, lowercase
}

// USD creates a Money value in US cents.
func USD(cents int64) Money { return Money{Amount: cents, Currency: "usd"} }

// EUR creates a Money value in euro cents.
func EUR(cents int64) Money { return Money{Amount: cents, Currency: "eur"} }

// GBP creates a Money value in pence.
func GBP(pence int64) Money { return Money{Amount: pence, Currency: "gbp"} }

// PKR creates a Money value in paisa.
func PKR(paisa int64) Money { return Money{Amount: paisa, Currency: "pkr"} }

// New creates a Money value in the minor unit of any currency.
func New(minor int64, currency string) Money {
	return Money{Amount: minor, Currency: strings.ToLower(currency)}
}

// Zero returns zero in the given currency.
func Zero(currency string) Money { return New(0, currency) }

// ParseMoney reads a major-unit decimal string such as "49.99" into Money.
// Precision beyond the currency's minor unit is rejected rather than rounded.
func ParseMoney(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("money: parse %q: %w", s, err)
	}
	return FromDecimal(d, currency)
}

// FromDecimal converts a major-unit decimal into Money.
func FromDecimal(d decimal.Decimal, currency string) (Money, error) {
	places := int32(currencyDecimals(currency))
	minor := d.Shift(places)
	if !minor.Equal(minor.Truncate(0)) {
		return Money{}, fmt.Errorf("money: %s has more than %d decimal places", d.String(), places)
	}
	return New(minor.IntPart(), currency), nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Amount, -int32(currencyDecimals(m.Currency)))
}

// Add adds two Money values. Panics if currencies differ.
func (m Money) Add(other Money) Money {
	m.assertSameCurrency(other)
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}
}

// Subtract subtracts other from m. Panics if currencies differ.
func (m Money) Subtract(other Money) Money {
	m.assertSameCurrency(other)
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}
}

// Multiply scales m by qty.
func (m Money) Multiply(qty int64) Money {
	return Money{Amount: m.Amount * qty, Currency: m.Currency}
}

func (m Money) IsZero() bool     { return m.Amount == 0 }
func (m Money) IsPositive() bool { return m.Amount > 0 }
func (m Money) IsNegative() bool { return m.Amount < 0 }

// Equal reports whether amount and currency both match.
func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

// SameCurrency reports whether m and other can be combined.
func (m Money) SameCurrency(other Money) bool {
	return m.Currency == other.Currency
}

// LessThan compares amounts. Panics if currencies differ.
func (m Money) LessThan(other Money) bool {
	m.assertSameCurrency(other)
	return m.Amount < other.Amount
}

// GreaterThan compares amounts. Panics if currencies differ.
func (m Money) GreaterThan(other Money) bool {
	m.assertSameCurrency(other)
	return m.Amount > other.Amount
}

// FormatMajor renders the amount in major units without a symbol:
// "49.00" for USD(4900).
func (m Money) FormatMajor() string {
	return m.Decimal().StringFixed(int32(currencyDecimals(m.Currency)))
}

// String renders the amount with its currency symbol, e.g. "$49.00".
func (m Money) String() string {
	return currencySymbol(m.Currency) + m.FormatMajor()
}

// MarshalJSON adds a display field next to amount and currency.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Display  string `json:"display"`
	}{
		Amount:   m.Amount,
		Currency: m.Currency,
		Display:  m.String(),
	})
}

// UnmarshalJSON accepts the MarshalJSON shape and ignores display.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = New(raw.Amount, raw.Currency)
	return nil
}

func (m Money) assertSameCurrency(other Money) {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("money: currency mismatch: %s != %s", m.Currency, other.Currency))
	}
}

func currencySymbol(currency string) string {
	switch strings.ToLower(currency) {
	case "usd":
		return "$"
	case "eur":
		return "€"
	case "gbp":
		return "£"
	case "pkr":
		return "Rs "
	case "jpy":
		return "¥"
	}
	return strings.ToUpper(currency) + " "
}

func currencyDecimals(currency string) int {
	switch strings.ToLower(currency) {
	case "jpy", "krw", "vnd", "clp":
		return 0
	}
	return 2
}

// Sum adds values that share a currency. An empty call returns zero in
// fallback.
func Sum(fallback string, values ...Money) Money {
	total := Zero(fallback)
	if len(values) > 0 {
		total = Zero(values[0].Currency)
	}
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
