package domain

import "github.com/guscassiano/eplay/pkg/money"

// maxInstallments is the largest split the storefront offers for card payments.
const maxInstallments = 6

// Installment is one derived payment-split option.
type Installment struct {
	Quantity        int         `json:"quantity"`
	Amount          money.Cents `json:"amount"`
	FormattedAmount string      `json:"formattedAmount"`
}

// InstallmentOptions derives the payment-split options for the given total.
// A positive total yields exactly six options (total divided by 1..6, rounded
// to the cent); otherwise no options are offered.
func InstallmentOptions(total money.Cents) []Installment {
	if total <= 0 {
		return nil
	}

	options := make([]Installment, 0, maxInstallments)
	for n := 1; n <= maxInstallments; n++ {
		amount := total.SplitEven(n)
		options = append(options, Installment{
			Quantity:        n,
			Amount:          amount,
			FormattedAmount: amount.FormatBRL(),
		})
	}
	return options
}
