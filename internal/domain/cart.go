package domain

import (
	"time"

	"github.com/guscassiano/eplay/pkg/money"
)

// Cart holds the ordered set of products a session intends to buy plus the
// visibility flag for the cart panel. Items are unique by product ID and keep
// insertion order.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	IsOpen    bool       `json:"is_open"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is a product reference placed into the cart.
type CartItem struct {
	ProductID int64       `json:"product_id"`
	Name      string      `json:"name"`
	Price     money.Cents `json:"price"`
	Thumbnail string      `json:"thumbnail,omitempty"`
}

// NewCart creates an empty cart for the given session.
func NewCart(sessionID string) *Cart {
	return &Cart{
		SessionID: sessionID,
		Items:     []CartItem{},
		UpdatedAt: time.Now().UTC(),
	}
}

// Add appends the product to the cart. Adding a product already present by
// ID is a no-op; the return value reports whether the cart changed.
func (c *Cart) Add(p Product) bool {
	if c.findIndex(p.ID) >= 0 {
		return false
	}
	c.Items = append(c.Items, CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Prices.Effective(),
		Thumbnail: p.Media.Thumbnail,
	})
	c.UpdatedAt = time.Now().UTC()
	return true
}

// Remove deletes the item matching the given product ID, preserving the
// order of the remaining items. Removing an absent ID is a no-op.
func (c *Cart) Remove(productID int64) bool {
	i := c.findIndex(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.UpdatedAt = time.Now().UTC()
	return true
}

// Clear empties the cart. The visibility flag is untouched.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.UpdatedAt = time.Now().UTC()
}

// Open marks the cart panel as visible. Never affects items or totals.
func (c *Cart) Open() {
	c.IsOpen = true
}

// Close marks the cart panel as hidden.
func (c *Cart) Close() {
	c.IsOpen = false
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total sums the price of every item in cents.
func (c *Cart) Total() money.Cents {
	var total money.Cents
	for _, item := range c.Items {
		total += item.Price
	}
	return total
}

func (c *Cart) findIndex(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
