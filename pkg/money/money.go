// Package money handles monetary amounts as int64 cents to avoid floating
// point drift in totals and installment math.
package money

import (
	"fmt"
	"strings"
)

// Cents is a monetary amount in BRL cents.
type Cents int64

// FromFloat converts a decimal amount in reais to cents, rounding half away
// from zero.
func FromFloat(v float64) Cents {
	if v < 0 {
		return Cents(v*100 - 0.5)
	}
	return Cents(v*100 + 0.5)
}

// Float returns the amount as a decimal value in reais.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

// SplitEven divides the amount into n equal parts, rounding each part to the
// nearest cent. n must be positive.
func (c Cents) SplitEven(n int) Cents {
	if n <= 0 {
		return 0
	}
	half := Cents(n / 2)
	if c < 0 {
		return (c - half) / Cents(n)
	}
	return (c + half) / Cents(n)
}

// FormatBRL renders the amount in Brazilian currency format, e.g.
// "R$ 1.234,56".
func (c Cents) FormatBRL() string {
	negative := c < 0
	if negative {
		c = -c
	}

	reais := int64(c) / 100
	cents := int64(c) % 100

	digits := fmt.Sprintf("%d", reais)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	formatted := fmt.Sprintf("R$ %s,%02d", strings.Join(groups, "."), cents)
	if negative {
		return "-" + formatted
	}
	return formatted
}
