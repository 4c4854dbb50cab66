package valueobjects

import (
	"strconv"

	pkgerrors "cortex/pkg/errors"
)

// Confidence is a value object for a [0,1] confidence score
type Confidence struct {
	value float64
}

// NewConfidence creates a confidence score with range validation
func NewConfidence(value float64) (Confidence, error) {
	if value < 0 || value > 1 {
		return Confidence{}, pkgerrors.NewValidationError("confidence must be within [0,1]")
	}
	return Confidence{value: value}, nil
}

// MustConfidence panics on an out-of-range value. Reserved for literals in
// defaults and tests.
func MustConfidence(value float64) Confidence {
	c, err := NewConfidence(value)
	if err != nil {
		panic(err)
	}
	return c
}

// Value returns the raw score
func (c Confidence) Value() float64 {
	return c.value
}

// Reconcile combines this confidence with an observed one as a
// trust-weighted average. Higher-trust sources pull the result toward
// their claim.
func (c Confidence) Reconcile(observed Confidence, ownTrust, observedTrust float64) Confidence {
	if ownTrust <= 0 && observedTrust <= 0 {
		ownTrust, observedTrust = 1, 1
	}
	v := (c.value*ownTrust + observed.value*observedTrust) / (ownTrust + observedTrust)
	return Confidence{value: clamp01(v)}
}

// Dominates reports whether this confidence exceeds the other by at least
// the given margin.
func (c Confidence) Dominates(other Confidence, margin float64) bool {
	return c.value-other.value >= margin
}

// GreaterThan reports whether this confidence is strictly higher
func (c Confidence) GreaterThan(other Confidence) bool {
	return c.value > other.value
}

// MarshalJSON implements json.Marshaler
func (c Confidence) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(c.value, 'g', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Confidence) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return pkgerrors.NewValidationError("confidence must be a number")
	}
	if v < 0 || v > 1 {
		return pkgerrors.NewValidationError("confidence must be within [0,1]")
	}
	c.value = v
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
