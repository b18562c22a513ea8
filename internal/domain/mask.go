package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// Masked input shapes. Each value object parses the exact punctuated form the
// storefront's masked inputs produce; anything else is rejected at
// construction time.
var (
	taxDocumentRe  = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
	cardNumberRe   = regexp.MustCompile(`^\d{4} \d{4} \d{4} \d{4}$`)
	expiryMonthRe  = regexp.MustCompile(`^\d{2}$`)
	expiryYearRe   = regexp.MustCompile(`^\d{4}$`)
	securityCodeRe = regexp.MustCompile(`^\d{3}$`)
)

// TaxDocument is a CPF in its punctuated form, e.g. "123.456.789-09".
type TaxDocument string

// ParseTaxDocument validates the 14-character CPF mask XXX.XXX.XXX-XX.
func ParseTaxDocument(s string) (TaxDocument, error) {
	if !taxDocumentRe.MatchString(s) {
		return "", fmt.Errorf("tax document must match the shape 999.999.999-99")
	}
	return TaxDocument(s), nil
}

func (d TaxDocument) String() string { return string(d) }

// CardNumber is a 16-digit card number in groups of four, e.g.
// "4111 1111 1111 1111".
type CardNumber string

// ParseCardNumber validates the card number mask 9999 9999 9999 9999.
func ParseCardNumber(s string) (CardNumber, error) {
	if !cardNumberRe.MatchString(s) {
		return "", fmt.Errorf("card number must match the shape 9999 9999 9999 9999")
	}
	return CardNumber(s), nil
}

func (n CardNumber) String() string { return string(n) }

// CardExpiry is a two-digit month and four-digit year.
type CardExpiry struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// ParseCardExpiry validates the expiry masks 99 (month) and 9999 (year).
// The month must be a real calendar month.
func ParseCardExpiry(month, year string) (CardExpiry, error) {
	if !expiryMonthRe.MatchString(month) {
		return CardExpiry{}, fmt.Errorf("expiry month must match the shape 99")
	}
	if !expiryYearRe.MatchString(year) {
		return CardExpiry{}, fmt.Errorf("expiry year must match the shape 9999")
	}
	m, _ := strconv.Atoi(month)
	if m < 1 || m > 12 {
		return CardExpiry{}, fmt.Errorf("expiry month must be between 01 and 12")
	}
	y, _ := strconv.Atoi(year)
	return CardExpiry{Month: m, Year: y}, nil
}

// validExpiryMonth checks the 99 mask and calendar range for a month field
// validated on its own.
func validExpiryMonth(s string) bool {
	if !expiryMonthRe.MatchString(s) {
		return false
	}
	m, _ := strconv.Atoi(s)
	return m >= 1 && m <= 12
}

// SecurityCode is the three-digit card verification code.
type SecurityCode string

// ParseSecurityCode validates the CVV mask 999.
func ParseSecurityCode(s string) (SecurityCode, error) {
	if !securityCodeRe.MatchString(s) {
		return "", fmt.Errorf("security code must match the shape 999")
	}
	return SecurityCode(s), nil
}

// Int returns the numeric value of the code.
func (c SecurityCode) Int() int {
	v, _ := strconv.Atoi(string(c))
	return v
}
