package checkout

import "fmt"

// Step is a checkout wizard position. Steps are strictly ordered and are never skipped.
type Step int

const (
	StepCart Step = iota
	StepShipping
	StepPayment
	StepReview
)

var stepNames = [...]string{"cart", "shipping", "payment", "review"}

// Steps lists every step name in order.
func Steps() []string {
	out := make([]string, len(stepNames))
	copy(out, stepNames[:])
	return out
}

func (s Step) Valid() bool { return s >= StepCart && s <= StepReview }

func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

func ParseStep(name string) (Step, error) {
	for i, n := range stepNames {
		if n == name {
			return Step(i), nil
		}
	}
	return 0, fmt.Errorf("unknown checkout step %q", name)
}

func (s Step) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid checkout step %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Step) UnmarshalText(b []byte) error {
	parsed, err := ParseStep(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
