//go:build property
// +build property

// Property-based test for scaling monotonicity: a smaller throttle
// factor can never admit a value a larger factor rejects.
package validate_test

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/vagus-network/planner-go/pkg/schema"
	"github.com/vagus-network/planner-go/pkg/validate"
)

const actionsSource = `
actions:
  MOVE_TO:
    description: Move the end effector
    parameters:
      vMax:
        type: float
        unit: m/s
        min: 0.0
        max: 2.0
        brakeable: true
`

// policyWithFactors builds a two-state policy with the given speed
// factors so the property can compare arbitrary factor pairs.
func policyWithFactors(low, high float64) string {
	return fmt.Sprintf(`
states:
  LOW:
    description: lower factor
    scaling:
      speed: %f
      force: %f
    restrictions: []
  HIGH:
    description: higher factor
    scaling:
      speed: %f
      force: %f
    restrictions: []
`, low, low, high, high)
}

func TestScalingMonotonicityProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("smaller factor admits no more than larger factor", prop.ForAll(
		func(f1, f2, value float64) bool {
			low, high := f1, f2
			if low > high {
				low, high = high, low
			}
			store, err := schema.Load([]byte(actionsSource), []byte(policyWithFactors(low, high)))
			if err != nil {
				return false
			}
			lowErr := validate.CheckScaled(store, "MOVE_TO", "vMax", value, "LOW")
			highErr := validate.CheckScaled(store, "MOVE_TO", "vMax", value, "HIGH")
			// If the stricter state accepts the value, the looser one must too.
			if lowErr == nil && highErr != nil {
				return false
			}
			return true
		},
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 4),
	))

	properties.TestingRun(t)
}
