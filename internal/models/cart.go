package models

import "github.com/shopspring/decimal"

// CartItem is a product line in a cart. Items are unique by ID and Quantity is at least 1.
type CartItem struct {
	ID       int             `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func NewCartItem(p Product) CartItem {
	return CartItem{ID: p.ID, Title: p.Title, Price: p.Price, Quantity: 1, Image: p.Image}
}
