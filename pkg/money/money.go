package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Unreachable is rendered in place of amounts the engine reports as +Inf.
const Unreachable = "unreachable"

// Money represents a sterling amount with decimal precision for display and rounding.
type Money struct {
	decimal.Decimal
}

// NewMoney creates a new Money instance from a float64. Callers must not pass
// non-finite values; use FromFloat when the input may be a sentinel.
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// FromFloat converts a possibly non-finite engine value. ok is false for
// +Inf, -Inf and NaN.
func FromFloat(value float64) (Money, bool) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return Money{}, false
	}
	return NewMoney(value), true
}

// String returns the amount with two decimal places and no symbol.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the amount as pounds and pence with thousands separators.
func (m Money) Format() string {
	return symbol(m.Decimal.StringFixed(2))
}

// FormatWhole renders the amount rounded to whole pounds.
func (m Money) FormatWhole() string {
	return symbol(m.Decimal.StringFixed(0))
}

// Format renders a possibly non-finite engine value.
func Format(value float64) string {
	m, ok := FromFloat(value)
	if !ok {
		return Unreachable
	}
	return m.Format()
}

// FormatWhole renders a possibly non-finite engine value in whole pounds.
func FormatWhole(value float64) string {
	m, ok := FromFloat(value)
	if !ok {
		return Unreachable
	}
	return m.FormatWhole()
}

func symbol(s string) string {
	if strings.HasPrefix(s, "-") {
		return "-£" + group(s[1:])
	}
	return "£" + group(s)
}

func group(s string) string {
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + frac
}
