package models

import "github.com/shopspring/decimal"

const DefaultCountry = "India"

type ShippingInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Country   string `json:"country"`
}

type DeliverySpeed string

const (
	DeliveryStandard DeliverySpeed = "standard"
	DeliveryExpress  DeliverySpeed = "express"
)

func (d DeliverySpeed) Valid() bool {
	return d == DeliveryStandard || d == DeliveryExpress
}

type ShippingOption struct {
	ID            DeliverySpeed   `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	EstimatedDays int             `json:"estimatedDays"`
}

type ShippingQuote struct {
	Options       []ShippingOption `json:"options"`
	Policy        string           `json:"policy"`
	FreeThreshold decimal.Decimal  `json:"freeThreshold"`
	CartTotal     decimal.Decimal  `json:"cartTotal"`
	IsFree        bool             `json:"isFree"`
}
