package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"jaggery_back_end/internal/apperr"

	"github.com/cucumber/godog"
)

type wizardFeature struct {
	wizard *Wizard
	err    error
}

func (f *wizardFeature) aFreshCheckout() error {
	f.wizard = NewWizard()
	f.err = nil
	return nil
}

func (f *wizardFeature) iAmOnTheStep(name string) error {
	step, err := ParseStep(name)
	if err != nil {
		return err
	}
	f.wizard.Step = step
	return nil
}

func (f *wizardFeature) myShippingDetailsAreComplete() error {
	f.wizard.SetShipping(completeShipping())
	return nil
}

func (f *wizardFeature) myShippingDetailsAreMissing(field string) error {
	info := completeShipping()
	switch field {
	case "firstName":
		info.FirstName = ""
	case "phone":
		info.Phone = ""
	case "pincode":
		info.Pincode = ""
	default:
		return fmt.Errorf("unsupported field %q", field)
	}
	f.wizard.SetShipping(info)
	return nil
}

func (f *wizardFeature) iPayWith(method string) error {
	sel := PaymentSelection{Method: PaymentMethod(method)}
	if sel.Method == MethodCard {
		sel.Card = validCard()
	}
	return f.wizard.SetPayment(sel)
}

func (f *wizardFeature) iPayWithWithoutCardDetails(method string) error {
	f.err = f.wizard.SetPayment(PaymentSelection{Method: PaymentMethod(method)})
	return nil
}

func (f *wizardFeature) iGoForwardWithItemsInTheCart(n int) error {
	f.err = f.wizard.Next(n)
	return nil
}

func (f *wizardFeature) iGoBack() error {
	f.wizard.Prev()
	return nil
}

func (f *wizardFeature) theStepIs(name string) error {
	if got := f.wizard.Step.String(); got != name {
		return fmt.Errorf("expected step %s, got %s", name, got)
	}
	return nil
}

func (f *wizardFeature) theMoveFailsOn(field string) error {
	var ve *apperr.ValidationError
	if !errors.As(f.err, &ve) {
		return fmt.Errorf("expected a validation error, got %v", f.err)
	}
	if ve.Field != field {
		return fmt.Errorf("expected failure on %s, got %s", field, ve.Field)
	}
	return nil
}

func initializeWizardScenario(ctx *godog.ScenarioContext) {
	f := &wizardFeature{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, f.aFreshCheckout()
	})

	ctx.Step(`^a fresh checkout$`, f.aFreshCheckout)
	ctx.Step(`^I am on the "([^"]*)" step$`, f.iAmOnTheStep)
	ctx.Step(`^my shipping details are complete$`, f.myShippingDetailsAreComplete)
	ctx.Step(`^my shipping details are missing "([^"]*)"$`, f.myShippingDetailsAreMissing)
	ctx.Step(`^I pay with "([^"]*)"$`, f.iPayWith)
	ctx.Step(`^I pay with "([^"]*)" without card details$`, f.iPayWithWithoutCardDetails)
	ctx.Step(`^I go forward with (\d+) items in the cart$`, f.iGoForwardWithItemsInTheCart)
	ctx.Step(`^I go back$`, f.iGoBack)
	ctx.Step(`^the step is "([^"]*)"$`, f.theStepIs)
	ctx.Step(`^the move fails on "([^"]*)"$`, f.theMoveFailsOn)
}

func TestWizardFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeWizardScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/checkout.feature"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
