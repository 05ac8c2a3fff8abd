package checkout

import (
	"strings"

	"jaggery_back_end/internal/apperr"
	"jaggery_back_end/internal/models"
)

// Wizard is one user's checkout progress.
type Wizard struct {
	Step     Step                `json:"step"`
	Shipping models.ShippingInfo `json:"shipping"`
	Payment  PaymentState        `json:"payment"`
}

func NewWizard() *Wizard {
	return &Wizard{
		Step:     StepCart,
		Shipping: models.ShippingInfo{Country: models.DefaultCountry},
		Payment:  PaymentState{Method: MethodCard, Delivery: models.DeliveryStandard},
	}
}

// Next advances one step. It is a no-op at review. The step only moves when the
// current step's gate passes; otherwise the first failing field is returned.
func (w *Wizard) Next(cartLen int) error {
	if w.Step >= StepReview {
		return nil
	}
	if err := w.gate(cartLen); err != nil {
		return err
	}
	w.Step++
	return nil
}

// Prev goes back one step. It is a no-op at cart and is never gated.
func (w *Wizard) Prev() {
	if w.Step > StepCart {
		w.Step--
	}
}

func (w *Wizard) Reset() { *w = *NewWizard() }

func (w *Wizard) gate(cartLen int) error {
	switch w.Step {
	case StepCart:
		if cartLen == 0 {
			return apperr.Validation("cart", "Your cart is empty")
		}
	case StepShipping:
		return ValidateShipping(w.Shipping)
	case StepPayment:
		return w.Payment.ready()
	}
	return nil
}

// SetShipping stores info as given after trimming. It is checked when leaving the shipping step.
func (w *Wizard) SetShipping(info models.ShippingInfo) {
	info.FirstName = strings.TrimSpace(info.FirstName)
	info.LastName = strings.TrimSpace(info.LastName)
	info.Email = strings.TrimSpace(info.Email)
	info.Phone = strings.TrimSpace(info.Phone)
	info.Address = strings.TrimSpace(info.Address)
	info.City = strings.TrimSpace(info.City)
	info.State = strings.TrimSpace(info.State)
	info.Pincode = strings.TrimSpace(info.Pincode)
	info.Country = strings.TrimSpace(info.Country)
	if info.Country == "" {
		info.Country = models.DefaultCountry
	}
	w.Shipping = info
}

// SetPayment validates sel and keeps only the card summary.
func (w *Wizard) SetPayment(sel PaymentSelection) error {
	if err := sel.Validate(); err != nil {
		return err
	}
	state := PaymentState{Method: sel.Method, Delivery: sel.Delivery}
	if state.Delivery == "" {
		state.Delivery = models.DeliveryStandard
	}
	if sel.Method == MethodCard {
		summary := sel.Card.Summary()
		state.Card = &summary
	}
	w.Payment = state
	return nil
}

func (p PaymentState) ready() error {
	if !p.Method.Valid() {
		return apperr.Validation("method", "Select a payment method")
	}
	if p.Method == MethodCard && p.Card == nil {
		return apperr.Validation("card", "Card details are required")
	}
	return nil
}

type shippingField struct {
	name    string
	message string
	value   func(models.ShippingInfo) string
}

var requiredShipping = []shippingField{
	{"firstName", "First name is required", func(s models.ShippingInfo) string { return s.FirstName }},
	{"lastName", "Last name is required", func(s models.ShippingInfo) string { return s.LastName }},
	{"email", "Email is required", func(s models.ShippingInfo) string { return s.Email }},
	{"phone", "Phone is required", func(s models.ShippingInfo) string { return s.Phone }},
	{"address", "Address is required", func(s models.ShippingInfo) string { return s.Address }},
	{"city", "City is required", func(s models.ShippingInfo) string { return s.City }},
	{"state", "State is required", func(s models.ShippingInfo) string { return s.State }},
	{"pincode", "Pincode is required", func(s models.ShippingInfo) string { return s.Pincode }},
}

// ValidateShipping returns the first missing required field.
func ValidateShipping(info models.ShippingInfo) error {
	for _, f := range requiredShipping {
		if strings.TrimSpace(f.value(info)) == "" {
			return apperr.Validation(f.name, f.message)
		}
	}
	if validate.Var(strings.TrimSpace(info.Email), "email") != nil {
		return apperr.Validation("email", "Valid email is required")
	}
	return nil
}
