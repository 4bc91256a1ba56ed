// Package core provides the domain model of the ledger: exact money
// amounts, calendar dates, the closed kind/category/period enums and
// the entities built from them.
package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is an exact decimal amount stored as cents. Amounts never pass
// through floating point: parsing and formatting work directly on the
// decimal string representation.
type Money struct {
	Cents int64
}

// ParseMoney converts a decimal string to Money with half-up rounding
// on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Negative values are rejected; zero is allowed. Sign is carried by the
// transaction kind, never encoded in the amount.
//
// Examples:
//   ParseMoney("12.34") -> 1234 cents
//   ParseMoney("12,34") -> 1234 cents
//   ParseMoney("12.345") -> 1234 cents (rounds down)
//   ParseMoney("12.346") -> 1235 cents (rounds up)
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	// Split into integer and fractional part
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if fracPart == "" && len(parts) == 2 {
		return Money{}, ErrInvalidAmount
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return Money{}, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return Money{Cents: iv*100 + fracCents}, nil
}

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

func (m Money) IsNegative() bool {
	return m.Cents < 0
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

// String formats the amount as a plain decimal with two fraction digits.
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// MarshalJSON emits the decimal string so amounts round-trip exactly
// over the wire.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidAmount
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
