package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBoletoForm() *CheckoutForm {
	f := NewCheckoutForm("sess-1")
	f.Values = FormValues{
		FullName:             "Maria da Silva",
		Email:                "maria@example.com",
		CPF:                  "123.456.789-09",
		DeliveryEmail:        "maria@example.com",
		ConfirmDeliveryEmail: "maria@example.com",
	}
	return f
}

func validCardForm() *CheckoutForm {
	f := validBoletoForm()
	f.Method = PaymentCard
	f.Values.CardOwner = "Maria da Silva"
	f.Values.CPFCardOwner = "123.456.789-09"
	f.Values.CardName = "MARIA D SILVA"
	f.Values.CardNumber = "4111 1111 1111 1111"
	f.Values.ExpiresMonth = "12"
	f.Values.ExpiresYear = "2030"
	f.Values.CardCode = "123"
	f.Values.Installments = 3
	return f
}

func TestCheckoutForm_ValidBoleto(t *testing.T) {
	f := validBoletoForm()
	assert.Empty(t, f.Errors())
	assert.True(t, f.Valid())
}

func TestCheckoutForm_ValidCard(t *testing.T) {
	f := validCardForm()
	assert.Empty(t, f.Errors())
}

func TestCheckoutForm_FullNameMinLength(t *testing.T) {
	f := validBoletoForm()
	f.Values.FullName = "Ana"
	errs := f.Errors()
	assert.Contains(t, errs, FieldFullName)
}

func TestCheckoutForm_EmailShape(t *testing.T) {
	f := validBoletoForm()
	f.Values.Email = "not-an-email"
	assert.Contains(t, f.Errors(), FieldEmail)

	f.Values.Email = ""
	assert.Contains(t, f.Errors(), FieldEmail)
}

func TestCheckoutForm_ConfirmDeliveryEmail_MustMatchExactly(t *testing.T) {
	f := validBoletoForm()
	f.Values.DeliveryEmail = "a@b.com"
	f.Values.ConfirmDeliveryEmail = "a@b.co"

	errs := f.Errors()
	require.Contains(t, errs, FieldConfirmDeliveryEmail)
	assert.Contains(t, errs[FieldConfirmDeliveryEmail], "do not match")

	f.Values.ConfirmDeliveryEmail = "a@b.com"
	assert.NotContains(t, f.Errors(), FieldConfirmDeliveryEmail)
}

func TestCheckoutForm_CPFMask(t *testing.T) {
	f := validBoletoForm()

	for _, bad := range []string{"", "12345678909", "123.456.789-0", "123-456-789.09", "abc.def.ghi-jk"} {
		f.Values.CPF = bad
		assert.Contains(t, f.Errors(), FieldCPF, "cpf %q should fail", bad)
	}

	f.Values.CPF = "987.654.321-00"
	assert.NotContains(t, f.Errors(), FieldCPF)
}

func TestCheckoutForm_CardFieldsRequiredOnlyForCard(t *testing.T) {
	f := validBoletoForm()

	// Boleto: card fields empty and unvalidated.
	assert.Empty(t, f.Errors())

	// Card: every card field now fails.
	require.NoError(t, f.SetMethod(PaymentCard))
	errs := f.Errors()
	for _, name := range []string{FieldCardOwner, FieldCPFCardOwner, FieldCardName, FieldCardNumber, FieldExpiresMonth, FieldExpiresYear, FieldCardCode, FieldInstallments} {
		assert.Contains(t, errs, name)
	}

	// Switching back to boleto makes card errors disappear.
	require.NoError(t, f.SetMethod(PaymentBoleto))
	assert.Empty(t, f.Errors())
}

func TestCheckoutForm_SwitchingMethodKeepsCardValues(t *testing.T) {
	f := validCardForm()
	require.NoError(t, f.SetMethod(PaymentBoleto))
	require.NoError(t, f.SetMethod(PaymentCard))

	assert.Equal(t, "4111 1111 1111 1111", f.Values.CardNumber)
	assert.Empty(t, f.Errors())
}

func TestCheckoutForm_CardMasks(t *testing.T) {
	f := validCardForm()

	f.Values.CardNumber = "4111111111111111"
	assert.Contains(t, f.Errors(), FieldCardNumber)
	f.Values.CardNumber = "4111 1111 1111 1111"

	f.Values.ExpiresMonth = "13"
	assert.Contains(t, f.Errors(), FieldExpiresMonth)
	f.Values.ExpiresMonth = "00"
	assert.Contains(t, f.Errors(), FieldExpiresMonth)
	f.Values.ExpiresMonth = "09"

	f.Values.ExpiresYear = "30"
	assert.Contains(t, f.Errors(), FieldExpiresYear)
	f.Values.ExpiresYear = "2030"

	f.Values.CardCode = "12"
	assert.Contains(t, f.Errors(), FieldCardCode)
	f.Values.CardCode = "123"

	assert.Empty(t, f.Errors())
}

func TestCheckoutForm_InstallmentsRange(t *testing.T) {
	f := validCardForm()

	for _, bad := range []int{0, 7, -1} {
		f.Values.Installments = bad
		assert.Contains(t, f.Errors(), FieldInstallments, "installments=%d should fail", bad)
	}
	for n := 1; n <= 6; n++ {
		f.Values.Installments = n
		assert.NotContains(t, f.Errors(), FieldInstallments)
	}
}

func TestCheckoutForm_InstallmentsDefaultToOne(t *testing.T) {
	f := NewCheckoutForm("sess-1")
	assert.Equal(t, 1, f.Values.Installments)

	// Switching to card without touching the selector keeps a submittable value.
	require.NoError(t, f.SetMethod(PaymentCard))
	assert.NotContains(t, f.Errors(), FieldInstallments)
}

func TestCheckoutForm_VisibleErrors_TouchedOnly(t *testing.T) {
	f := NewCheckoutForm("sess-1")
	require.NoError(t, f.SetMethod(PaymentCard))

	// Everything is invalid but nothing has been visited.
	assert.NotEmpty(t, f.Errors())
	assert.Empty(t, f.VisibleErrors())

	// Blurring a single field surfaces only that field.
	require.NoError(t, f.Touch(FieldCardNumber))
	visible := f.VisibleErrors()
	assert.Len(t, visible, 1)
	assert.Contains(t, visible, FieldCardNumber)

	// Fixing the field removes it even though it stays touched.
	require.NoError(t, f.SetField(FieldCardNumber, "4111 1111 1111 1111"))
	assert.NotContains(t, f.VisibleErrors(), FieldCardNumber)
}

func TestCheckoutForm_TouchAll(t *testing.T) {
	f := NewCheckoutForm("sess-1")
	f.TouchAll()

	// All boleto fields are now visible and invalid.
	assert.Len(t, f.VisibleErrors(), len(baseFields))
}

func TestCheckoutForm_SetField(t *testing.T) {
	f := NewCheckoutForm("sess-1")

	require.NoError(t, f.SetField(FieldFullName, "Maria da Silva"))
	assert.Equal(t, "Maria da Silva", f.Values.FullName)

	require.NoError(t, f.SetField(FieldInstallments, "4"))
	assert.Equal(t, 4, f.Values.Installments)

	// Non-numeric installments fall back to zero and fail range validation.
	require.NoError(t, f.SetField(FieldInstallments, "four"))
	assert.Equal(t, 0, f.Values.Installments)

	assert.Error(t, f.SetField("nope", "x"))
	assert.Error(t, f.Touch("nope"))
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, PaymentBoleto.Valid())
	assert.True(t, PaymentCard.Valid())
	assert.False(t, PaymentMethod("pix").Valid())
	assert.Error(t, NewCheckoutForm("s").SetMethod("pix"))
}
