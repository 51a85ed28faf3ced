//go:build property
// +build property

// Property-based tests for canonical encoding determinism and
// round-trip fidelity.
package cbor_test

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/vagus-network/planner-go/pkg/cbor"
)

// buildObject zips keys and values into a map; two slices are a
// convenient generator shape and duplicate keys just overwrite.
func buildObject(keys []string, ints []int64, floats []float64) map[string]any {
	obj := make(map[string]any)
	for i := 0; i < len(keys); i++ {
		switch {
		case i < len(ints):
			obj[keys[i]] = ints[i]
		case i-len(ints) < len(floats):
			obj[keys[i]] = floats[i-len(ints)]
		default:
			obj[keys[i]] = keys[i]
		}
	}
	return obj
}

// Property: Encode(v) == Encode(v) for any object, regardless of map
// iteration order.
func TestEncodeDeterminismProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("canonical encoding is deterministic", prop.ForAll(
		func(keys []string, ints []int64, floats []float64) bool {
			obj := buildObject(keys, ints, floats)
			first, err1 := cbor.Encode(obj)
			second, err2 := cbor.Encode(obj)
			if err1 != nil || err2 != nil {
				return err1 != nil && err2 != nil
			}
			return bytes.Equal(first, second)
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.Int64()),
		gen.SliceOf(gen.Float64()),
	))

	properties.TestingRun(t)
}

// Property: decode(encode(v)) re-encodes to the identical bytes.
func TestRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("round-trip preserves canonical bytes", prop.ForAll(
		func(keys []string, ints []int64, floats []float64) bool {
			obj := buildObject(keys, ints, floats)
			encoded, err := cbor.Encode(obj)
			if err != nil {
				return true
			}
			decoded, err := cbor.Decode(encoded)
			if err != nil {
				return false
			}
			again, err := cbor.Encode(decoded)
			if err != nil {
				return false
			}
			return bytes.Equal(encoded, again)
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.Int64()),
		gen.SliceOf(gen.Float64()),
	))

	properties.TestingRun(t)
}

// Property: both digest hashes are stable functions of the logical
// value.
func TestDigestDeterminismProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("digests are deterministic", prop.ForAll(
		func(keys []string, ints []int64) bool {
			obj := buildObject(keys, ints, nil)
			d1, err1 := cbor.ComputeDigest(obj)
			d2, err2 := cbor.ComputeDigest(obj)
			if err1 != nil || err2 != nil {
				return err1 != nil && err2 != nil
			}
			return d1.SHA256 == d2.SHA256 && d1.SHA3 == d2.SHA3
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.Int64()),
	))

	properties.TestingRun(t)
}
