package domain

import (
	"fmt"
	"strconv"

	"github.com/guscassiano/eplay/pkg/validator"
)

// PaymentMethod selects which checkout variant is active.
type PaymentMethod string

const (
	PaymentBoleto PaymentMethod = "boleto"
	PaymentCard   PaymentMethod = "card"
)

// Valid reports whether the method is a known variant.
func (m PaymentMethod) Valid() bool {
	return m == PaymentBoleto || m == PaymentCard
}

// Checkout form field names as they appear on the wire.
const (
	FieldFullName             = "fullName"
	FieldEmail                = "email"
	FieldCPF                  = "cpf"
	FieldDeliveryEmail        = "deliveryEmail"
	FieldConfirmDeliveryEmail = "confirmDeliveryEmail"
	FieldCardOwner            = "cardOwner"
	FieldCPFCardOwner         = "cpfCardOwner"
	FieldCardName             = "cardName"
	FieldCardNumber           = "cardNumber"
	FieldExpiresMonth         = "expiresMonth"
	FieldExpiresYear          = "expiresYear"
	FieldCardCode             = "cardCode"
	FieldInstallments         = "installments"
)

// baseFields are validated regardless of payment method.
var baseFields = []string{
	FieldFullName,
	FieldEmail,
	FieldCPF,
	FieldDeliveryEmail,
	FieldConfirmDeliveryEmail,
}

// cardFields are validated only when the card variant is active.
var cardFields = []string{
	FieldCardOwner,
	FieldCPFCardOwner,
	FieldCardName,
	FieldCardNumber,
	FieldExpiresMonth,
	FieldExpiresYear,
	FieldCardCode,
	FieldInstallments,
}

// FormValues holds every field the checkout form can carry. Card fields keep
// their values when the method switches back to boleto; they just stop being
// validated.
type FormValues struct {
	FullName             string `json:"fullName"`
	Email                string `json:"email"`
	CPF                  string `json:"cpf"`
	DeliveryEmail        string `json:"deliveryEmail"`
	ConfirmDeliveryEmail string `json:"confirmDeliveryEmail"`
	CardOwner            string `json:"cardOwner"`
	CPFCardOwner         string `json:"cpfCardOwner"`
	CardName             string `json:"cardName"`
	CardNumber           string `json:"cardNumber"`
	ExpiresMonth         string `json:"expiresMonth"`
	ExpiresYear          string `json:"expiresYear"`
	CardCode             string `json:"cardCode"`
	Installments         int    `json:"installments"`
}

// CheckoutForm is the per-session checkout state: field values, the set of
// visited (blurred) fields, and the active payment method.
type CheckoutForm struct {
	SessionID string          `json:"session_id"`
	Method    PaymentMethod   `json:"method"`
	Values    FormValues      `json:"values"`
	Touched   map[string]bool `json:"touched"`
}

// NewCheckoutForm creates an empty form defaulting to the boleto variant.
// Installments starts at 1 so switching to card without touching the selector
// submits a single-installment payment instead of a range error.
func NewCheckoutForm(sessionID string) *CheckoutForm {
	return &CheckoutForm{
		SessionID: sessionID,
		Method:    PaymentBoleto,
		Values:    FormValues{Installments: 1},
		Touched:   make(map[string]bool),
	}
}

// SetMethod switches the payment variant. Entered card values are kept.
func (f *CheckoutForm) SetMethod(m PaymentMethod) error {
	if !m.Valid() {
		return fmt.Errorf("unknown payment method %q", m)
	}
	f.Method = m
	return nil
}

// SetField updates a single field value. A non-numeric installments value is
// stored as zero so it surfaces as a range validation error rather than a
// request failure.
func (f *CheckoutForm) SetField(name, value string) error {
	switch name {
	case FieldFullName:
		f.Values.FullName = value
	case FieldEmail:
		f.Values.Email = value
	case FieldCPF:
		f.Values.CPF = value
	case FieldDeliveryEmail:
		f.Values.DeliveryEmail = value
	case FieldConfirmDeliveryEmail:
		f.Values.ConfirmDeliveryEmail = value
	case FieldCardOwner:
		f.Values.CardOwner = value
	case FieldCPFCardOwner:
		f.Values.CPFCardOwner = value
	case FieldCardName:
		f.Values.CardName = value
	case FieldCardNumber:
		f.Values.CardNumber = value
	case FieldExpiresMonth:
		f.Values.ExpiresMonth = value
	case FieldExpiresYear:
		f.Values.ExpiresYear = value
	case FieldCardCode:
		f.Values.CardCode = value
	case FieldInstallments:
		n, err := strconv.Atoi(value)
		if err != nil {
			n = 0
		}
		f.Values.Installments = n
	default:
		return fmt.Errorf("unknown form field %q", name)
	}
	return nil
}

// Touch marks a field as visited. Only visited fields surface errors.
func (f *CheckoutForm) Touch(name string) error {
	if !isKnownField(name) {
		return fmt.Errorf("unknown form field %q", name)
	}
	if f.Touched == nil {
		f.Touched = make(map[string]bool)
	}
	f.Touched[name] = true
	return nil
}

// TouchAll marks every field of the active variant as visited. Submit calls
// this so untouched invalid fields become visible.
func (f *CheckoutForm) TouchAll() {
	if f.Touched == nil {
		f.Touched = make(map[string]bool)
	}
	for _, name := range f.activeFields() {
		f.Touched[name] = true
	}
}

// ValidateField returns the error message for a single field, or "" when the
// field passes. Card fields always pass under the boleto variant.
func (f *CheckoutForm) ValidateField(name string) string {
	switch name {
	case FieldFullName:
		if err := validator.Var(f.Values.FullName, "required,min=5"); err != nil {
			return "full name is required and must have at least 5 characters"
		}
	case FieldEmail:
		if err := validator.Var(f.Values.Email, "required,email"); err != nil {
			return "a valid email address is required"
		}
	case FieldCPF:
		if _, err := ParseTaxDocument(f.Values.CPF); err != nil {
			return "CPF must match the shape 999.999.999-99"
		}
	case FieldDeliveryEmail:
		if err := validator.Var(f.Values.DeliveryEmail, "required,email"); err != nil {
			return "a valid delivery email address is required"
		}
	case FieldConfirmDeliveryEmail:
		if f.Values.ConfirmDeliveryEmail == "" {
			return "delivery email confirmation is required"
		}
		if f.Values.ConfirmDeliveryEmail != f.Values.DeliveryEmail {
			return "delivery emails do not match"
		}
	case FieldCardOwner:
		if f.Method == PaymentCard && f.Values.CardOwner == "" {
			return "card owner name is required"
		}
	case FieldCPFCardOwner:
		if f.Method == PaymentCard {
			if _, err := ParseTaxDocument(f.Values.CPFCardOwner); err != nil {
				return "card owner CPF must match the shape 999.999.999-99"
			}
		}
	case FieldCardName:
		if f.Method == PaymentCard && f.Values.CardName == "" {
			return "name printed on the card is required"
		}
	case FieldCardNumber:
		if f.Method == PaymentCard {
			if _, err := ParseCardNumber(f.Values.CardNumber); err != nil {
				return "card number must match the shape 9999 9999 9999 9999"
			}
		}
	case FieldExpiresMonth:
		if f.Method == PaymentCard && !validExpiryMonth(f.Values.ExpiresMonth) {
			return "expiry month must be a valid two-digit month"
		}
	case FieldExpiresYear:
		if f.Method == PaymentCard && !expiryYearRe.MatchString(f.Values.ExpiresYear) {
			return "expiry year must match the shape 9999"
		}
	case FieldCardCode:
		if f.Method == PaymentCard {
			if _, err := ParseSecurityCode(f.Values.CardCode); err != nil {
				return "security code must match the shape 999"
			}
		}
	case FieldInstallments:
		if f.Method == PaymentCard {
			if f.Values.Installments < 1 || f.Values.Installments > 6 {
				return "installments must be between 1 and 6"
			}
		}
	}
	return ""
}

// Errors validates every field of the active variant and returns the failing
// ones. An empty map means the form can be submitted.
func (f *CheckoutForm) Errors() map[string]string {
	errs := make(map[string]string)
	for _, name := range f.activeFields() {
		if msg := f.ValidateField(name); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

// VisibleErrors returns only the errors of fields that have been visited.
// Untouched fields never show errors even when invalid.
func (f *CheckoutForm) VisibleErrors() map[string]string {
	errs := make(map[string]string)
	for _, name := range f.activeFields() {
		if !f.Touched[name] {
			continue
		}
		if msg := f.ValidateField(name); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

// Valid reports whether every field of the active variant passes.
func (f *CheckoutForm) Valid() bool {
	return len(f.Errors()) == 0
}

func (f *CheckoutForm) activeFields() []string {
	if f.Method == PaymentCard {
		return append(append([]string{}, baseFields...), cardFields...)
	}
	return baseFields
}

func isKnownField(name string) bool {
	for _, n := range baseFields {
		if n == name {
			return true
		}
	}
	for _, n := range cardFields {
		if n == name {
			return true
		}
	}
	return false
}
