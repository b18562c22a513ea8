package domain

import "time"

// Confirmation records a completed purchase for a session so the
// confirmation view stays reachable after the cart has been cleared.
type Confirmation struct {
	OrderID   string        `json:"order_id"`
	Method    PaymentMethod `json:"method"`
	TotalPaid string        `json:"total_paid"`
	CreatedAt time.Time     `json:"created_at"`
}

// Instructions returns the payment-method-specific text shown alongside the
// order identifier.
func (c Confirmation) Instructions() string {
	if c.Method == PaymentCard {
		return "You will receive access as soon as the card network approves the charge."
	}
	return "Paying by bank slip, confirmation may take up to 3 business days."
}
