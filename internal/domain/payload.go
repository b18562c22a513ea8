package domain

import "strconv"

// PurchasePayload is the request body sent to the store API's purchase
// endpoint, built once per submission from the form and the cart.
type PurchasePayload struct {
	Billing  BillingInfo   `json:"billing"`
	Delivery DeliveryInfo  `json:"delivery"`
	Payment  PaymentInfo   `json:"payment"`
	Products []ProductLine `json:"products"`
}

// BillingInfo identifies the buyer.
type BillingInfo struct {
	Document string `json:"document"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// DeliveryInfo is where the purchased keys are sent.
type DeliveryInfo struct {
	Email string `json:"email"`
}

// PaymentInfo carries the method flag and, for card payments, the card data.
// The card sub-object is only meaningful when Card.Active is true.
type PaymentInfo struct {
	Installments int      `json:"installments"`
	Card         CardInfo `json:"card"`
}

// CardInfo is the card sub-object of the purchase payload.
type CardInfo struct {
	Active  bool        `json:"active"`
	Code    int         `json:"code,omitempty"`
	Name    string      `json:"name,omitempty"`
	Number  string      `json:"number,omitempty"`
	Owner   *CardOwner  `json:"owner,omitempty"`
	Expires *CardExpiry `json:"expires,omitempty"`
}

// CardOwner identifies the card holder.
type CardOwner struct {
	Document string `json:"document"`
	Name     string `json:"name"`
}

// ProductLine is a cart item reduced to the pair the store API expects.
// Price is in decimal reais on the wire.
type ProductLine struct {
	ID    int64   `json:"id"`
	Price float64 `json:"price"`
}

// BuildPurchasePayload assembles the purchase request from validated form
// values and the cart's line items. For boleto payments the card sub-object
// carries only the inactive flag and installments default to 1.
func BuildPurchasePayload(form *CheckoutForm, cart *Cart) PurchasePayload {
	payload := PurchasePayload{
		Billing: BillingInfo{
			Document: form.Values.CPF,
			Email:    form.Values.Email,
			Name:     form.Values.FullName,
		},
		Delivery: DeliveryInfo{
			Email: form.Values.DeliveryEmail,
		},
		Payment: PaymentInfo{
			Installments: 1,
			Card:         CardInfo{Active: false},
		},
		Products: make([]ProductLine, 0, len(cart.Items)),
	}

	for _, item := range cart.Items {
		payload.Products = append(payload.Products, ProductLine{
			ID:    item.ProductID,
			Price: item.Price.Float(),
		})
	}

	if form.Method != PaymentCard {
		return payload
	}

	code, _ := strconv.Atoi(form.Values.CardCode)
	month, _ := strconv.Atoi(form.Values.ExpiresMonth)
	year, _ := strconv.Atoi(form.Values.ExpiresYear)

	payload.Payment.Installments = form.Values.Installments
	payload.Payment.Card = CardInfo{
		Active: true,
		Code:   code,
		Name:   form.Values.CardName,
		Number: form.Values.CardNumber,
		Owner: &CardOwner{
			Document: form.Values.CPFCardOwner,
			Name:     form.Values.CardOwner,
		},
		Expires: &CardExpiry{Month: month, Year: year},
	}
	return payload
}
