package domain

import "github.com/guscassiano/eplay/pkg/money"

// Product represents a catalog item fetched from the store API.
// Products are immutable once fetched.
type Product struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	System   string   `json:"system"`
	Media    Media    `json:"media"`
	Prices   Prices   `json:"prices"`
	Release  string   `json:"release_date,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Media holds the product's image references.
type Media struct {
	Thumbnail string `json:"thumbnail"`
	Cover     string `json:"cover,omitempty"`
}

// Prices holds the product pricing in cents. Current is zero when the
// product is not discounted.
type Prices struct {
	Original money.Cents `json:"original"`
	Current  money.Cents `json:"current,omitempty"`
}

// Effective returns the price a buyer actually pays: the discounted amount
// when present, the original amount otherwise.
func (p Prices) Effective() money.Cents {
	if p.Current > 0 {
		return p.Current
	}
	return p.Original
}

// OnSale reports whether the product carries a discounted price.
func (p Prices) OnSale() bool {
	return p.Current > 0 && p.Current < p.Original
}
