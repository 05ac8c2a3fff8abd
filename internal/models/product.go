package models

import "github.com/shopspring/decimal"

type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Weight      string          `json:"weight"`
	Image       string          `json:"image"`
}
