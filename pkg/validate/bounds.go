// Package validate checks action parameter values against the schema
// store, with and without ANS state scaling. All checks are pure
// functions of their arguments and the immutable store; failures come
// back as typed errors whose message text is part of the cross-chain
// contract (downstream tooling pattern-matches on it).
package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/vagus-network/planner-go/pkg/schema"
)

// UnknownParameterError reports a parameter that could not be resolved.
// An unknown action and an unknown parameter name are deliberately not
// distinguished; both surface as this one error.
type UnknownParameterError struct {
	Action    string
	Parameter string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("Parameter %s not found in action %s", e.Parameter, e.Action)
}

// UnknownStateError reports an ANS state absent from the policy.
type UnknownStateError struct {
	State string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("Unknown ANS state: %s", e.State)
}

// BoundsError reports a value outside its (possibly scaled) bounds.
type BoundsError struct {
	Action    string
	Parameter string
	Value     float64
	// Bound is the violated bound: the schema minimum, the schema
	// maximum, or the scaled maximum.
	Bound float64
	// OriginalMax is the unscaled schema maximum, set only when the
	// scaled maximum was violated.
	OriginalMax float64
	Scaled      bool
	Below       bool
}

func (e *BoundsError) Error() string {
	v := schema.FormatDecimal(e.Value)
	switch {
	case e.Below:
		return fmt.Sprintf("Value %s below minimum %s", v, schema.FormatDecimal(e.Bound))
	case e.Scaled:
		return fmt.Sprintf("Value %s above scaled maximum %.3f (original: %s)",
			v, e.Bound, schema.FormatDecimal(e.OriginalMax))
	default:
		return fmt.Sprintf("Value %s above maximum %s", v, schema.FormatDecimal(e.Bound))
	}
}

// CheckStatic validates value against the literal schema bounds of one
// parameter, ignoring ANS state. A nil return means the value is
// acceptable.
func CheckStatic(store *schema.Store, action, param string, value float64) error {
	ps, ok := store.Parameter(action, param)
	if !ok {
		return &UnknownParameterError{Action: action, Parameter: param}
	}
	if value < ps.Min {
		return &BoundsError{Action: action, Parameter: param, Value: value, Bound: ps.Min, Below: true}
	}
	if value > ps.Max {
		return &BoundsError{Action: action, Parameter: param, Value: value, Bound: ps.Max}
	}
	return nil
}

// CheckScaled validates value with the upper bound throttled by the
// given ANS state. Non-brakeable parameters keep their literal bounds;
// the lower bound is never scaled.
func CheckScaled(store *schema.Store, action, param string, value float64, ansState string) error {
	ps, ok := store.Parameter(action, param)
	if !ok {
		return &UnknownParameterError{Action: action, Parameter: param}
	}
	if !ps.Brakeable {
		return CheckStatic(store, action, param, value)
	}

	scaling, ok := store.Scaling(ansState)
	if !ok {
		return &UnknownStateError{State: ansState}
	}

	scaledMax := ps.Max * scalingFactor(param, scaling)
	if value < ps.Min {
		return &BoundsError{Action: action, Parameter: param, Value: value, Bound: ps.Min, Below: true}
	}
	if value > scaledMax {
		return &BoundsError{
			Action:      action,
			Parameter:   param,
			Value:       value,
			Bound:       scaledMax,
			OriginalMax: ps.Max,
			Scaled:      true,
		}
	}
	return nil
}

// scalingFactor picks the throttle dimension for a parameter name.
// The rules are evaluated top to bottom and the precedence
// (speed, then force, then the combined minimum) is a safety contract
// shared with both verifiers; keep the order exactly as written.
func scalingFactor(param string, scaling schema.StateScaling) float64 {
	name := strings.ToLower(param)
	switch {
	case strings.Contains(name, "speed") || strings.HasPrefix(name, "v"):
		return scaling.Speed
	case strings.Contains(name, "force"):
		return scaling.Force
	default:
		return math.Min(scaling.Speed, scaling.Force)
	}
}
