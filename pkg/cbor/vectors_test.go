package cbor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyVectors(t *testing.T) {
	vf, err := GenerateVectors(BuiltinCases())
	require.NoError(t, err)
	require.Len(t, vf.TestVectors, len(BuiltinCases()))
	assert.Equal(t, "1.0", vf.Version)

	for _, vec := range vf.TestVectors {
		assert.NotEmpty(t, vec.CBORHex, vec.Name)
		assert.Len(t, vec.SHA256Hex, 64, vec.Name)
		assert.Len(t, vec.KeccakHex, 64, vec.Name)
	}

	mismatches, err := VerifyVectors(vf)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestVerifyVectorsReportsMismatch(t *testing.T) {
	vf, err := GenerateVectors(BuiltinCases())
	require.NoError(t, err)

	vf.TestVectors[0].SHA256Hex = "00" + vf.TestVectors[0].SHA256Hex[2:]
	vf.TestVectors[2].CBORHex = "a0"

	mismatches, err := VerifyVectors(vf)
	require.NoError(t, err)
	require.Len(t, mismatches, 2)
	assert.Equal(t, "sha256", mismatches[0].Field)
	assert.Equal(t, "cbor", mismatches[1].Field)
	assert.Contains(t, mismatches[1].String(), "mismatch")
}

func TestVectorFileRoundTrip(t *testing.T) {
	vf, err := GenerateVectors(BuiltinCases())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cbor_cases.yml")
	require.NoError(t, SaveVectorFile(path, vf))

	loaded, err := LoadVectorFile(path)
	require.NoError(t, err)
	require.Len(t, loaded.TestVectors, len(vf.TestVectors))

	// The reloaded inputs must still verify: YAML round-tripping the
	// structured inputs cannot change their canonical encoding.
	mismatches, err := VerifyVectors(loaded)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestKnownVectorEncodings(t *testing.T) {
	// Spot-check the corpus against hand-derived encodings.
	want := map[string]string{
		"empty_dict":   "a0",
		"sorted_keys":  "a3616102616d03617a01",
		"array":        "8401020304",
		"negative_int": "a1636e6567387a",
		"large_int":    "a1636269671affffffff",
	}
	vf, err := GenerateVectors(BuiltinCases())
	require.NoError(t, err)
	for _, vec := range vf.TestVectors {
		if expect, ok := want[vec.Name]; ok {
			assert.Equal(t, expect, vec.CBORHex, vec.Name)
		}
	}
}
