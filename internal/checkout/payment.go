package checkout

import (
	"errors"
	"strings"

	"jaggery_back_end/internal/apperr"
	"jaggery_back_end/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type PaymentMethod string

const (
	MethodCard       PaymentMethod = "card"
	MethodUPI        PaymentMethod = "upi"
	MethodNetbanking PaymentMethod = "netbanking"
	MethodCOD        PaymentMethod = "cod"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodUPI, MethodNetbanking, MethodCOD:
		return true
	}
	return false
}

// CardDetails is only checked, never stored. The wizard keeps a CardSummary instead.
type CardDetails struct {
	Number string `json:"cardNumber" validate:"required,number,len=16"`
	Expiry string `json:"expiry" validate:"required,datetime=01/06"`
	CVV    string `json:"cvv" validate:"required,number,min=3,max=4"`
	Name   string `json:"name" validate:"required"`
}

var cardMessages = map[string]string{
	"Number": "Card number must be 16 digits",
	"Expiry": "Expiry must be MM/YY",
	"CVV":    "CVV must be 3 or 4 digits",
	"Name":   "Name on card is required",
}

var cardFields = map[string]string{
	"Number": "cardNumber",
	"Expiry": "expiry",
	"CVV":    "cvv",
	"Name":   "name",
}

func (c CardDetails) normalized() CardDetails {
	c.Number = strings.Join(strings.Fields(c.Number), "")
	c.Expiry = strings.TrimSpace(c.Expiry)
	c.CVV = strings.TrimSpace(c.CVV)
	c.Name = strings.TrimSpace(c.Name)
	return c
}

func (c CardDetails) Validate() error {
	err := validate.Struct(c.normalized())
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		f := fieldErrs[0].StructField()
		return apperr.Validation(cardFields[f], cardMessages[f])
	}
	return apperr.Validation("card", "Card details are invalid")
}

// CardSummary is the part of a card that is safe to keep between requests.
type CardSummary struct {
	Last4  string `json:"last4"`
	Expiry string `json:"expiry"`
	Name   string `json:"name"`
}

func (c CardDetails) Summary() CardSummary {
	n := c.normalized()
	last4 := n.Number
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	return CardSummary{Last4: last4, Expiry: n.Expiry, Name: n.Name}
}

// PaymentSelection is what the client sends for the payment step.
type PaymentSelection struct {
	Method   PaymentMethod        `json:"method"`
	Delivery models.DeliverySpeed `json:"delivery"`
	Card     *CardDetails         `json:"card,omitempty"`
}

func (p PaymentSelection) Validate() error {
	if !p.Method.Valid() {
		return apperr.Validation("method", "Select a payment method")
	}
	if p.Delivery != "" && !p.Delivery.Valid() {
		return apperr.Validation("delivery", "Select a delivery option")
	}
	if p.Method == MethodCard {
		if p.Card == nil {
			return apperr.Validation("card", "Card details are required")
		}
		return p.Card.Validate()
	}
	return nil
}

// PaymentState is the stored payment choice.
type PaymentState struct {
	Method   PaymentMethod        `json:"method"`
	Delivery models.DeliverySpeed `json:"delivery"`
	Card     *CardSummary         `json:"card,omitempty"`
}
