package cbor

import (
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vector is one conformance record: a structured input plus the hex
// form of its canonical encoding and both hashes. Independent verifier
// implementations must reproduce every hex string exactly; the vector
// file is the compatibility gate between them.
type Vector struct {
	Name      string `yaml:"name"`
	Input     any    `yaml:"input"`
	CBORHex   string `yaml:"cbor_hex"`
	SHA256Hex string `yaml:"sha256_hex"`
	KeccakHex string `yaml:"keccak_hex"`
}

// VectorFile is the on-disk vector document.
type VectorFile struct {
	Version     string   `yaml:"version"`
	TestVectors []Vector `yaml:"test_vectors"`
}

// Mismatch describes one vector the local implementation failed to
// reproduce.
type Mismatch struct {
	Name  string
	Field string // "cbor", "sha256" or "keccak"
	Want  string
	Got   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s mismatch: want %s, got %s", m.Name, m.Field, m.Want, m.Got)
}

// BuiltinCases returns the standing corpus of conformance inputs, in
// generation order. The corpus covers container ordering, integer
// widths, mixed scalar types and the intent/state shapes the protocol
// actually commits to.
func BuiltinCases() []Vector {
	return []Vector{
		{Name: "empty_dict", Input: map[string]any{}},
		{Name: "simple_dict", Input: map[string]any{"key": "value", "num": int64(42)}},
		{Name: "sorted_keys", Input: map[string]any{"z": int64(1), "a": int64(2), "m": int64(3)}},
		{Name: "nested_dict", Input: map[string]any{"outer": map[string]any{"inner": "value"}}},
		{Name: "array", Input: []any{int64(1), int64(2), int64(3), int64(4)}},
		{Name: "mixed_types", Input: map[string]any{"int": int64(123), "float": 45.67, "bool": true, "str": "test"}},
		{Name: "zero_values", Input: map[string]any{"zero": int64(0), "false": false, "empty": ""}},
		{Name: "large_int", Input: map[string]any{"big": int64(1)<<32 - 1}},
		{Name: "negative_int", Input: map[string]any{"neg": int64(-123)}},
		{Name: "intent_params", Input: map[string]any{
			"velocity":     int64(1000),
			"acceleration": int64(500),
			"duration_ms":  int64(30000),
			"energy_j":     int64(100),
		}},
		{Name: "state_root", Input: map[string]any{
			"position": map[string]any{"x": int64(100), "y": int64(200), "z": int64(50)},
			"velocity": map[string]any{"x": int64(10), "y": int64(5), "z": int64(0)},
		}},
	}
}

// GenerateVectors fills in the encoding and hash fields for every case.
func GenerateVectors(cases []Vector) (*VectorFile, error) {
	out := &VectorFile{Version: "1.0"}
	for _, c := range cases {
		d, err := ComputeDigest(c.Input)
		if err != nil {
			return nil, fmt.Errorf("vector %s: %w", c.Name, err)
		}
		c.CBORHex = hex.EncodeToString(d.Encoded)
		c.SHA256Hex = hex.EncodeToString(d.SHA256[:])
		c.KeccakHex = hex.EncodeToString(d.SHA3[:])
		out.TestVectors = append(out.TestVectors, c)
	}
	return out, nil
}

// VerifyVectors re-encodes and re-hashes every vector input and
// collects any field the local implementation did not reproduce.
// An error is returned only for inputs that cannot be encoded at all.
func VerifyVectors(f *VectorFile) ([]Mismatch, error) {
	var mismatches []Mismatch
	for _, vec := range f.TestVectors {
		d, err := ComputeDigest(vec.Input)
		if err != nil {
			return nil, fmt.Errorf("vector %s: %w", vec.Name, err)
		}
		if got := hex.EncodeToString(d.Encoded); got != vec.CBORHex {
			mismatches = append(mismatches, Mismatch{Name: vec.Name, Field: "cbor", Want: vec.CBORHex, Got: got})
		}
		if got := hex.EncodeToString(d.SHA256[:]); got != vec.SHA256Hex {
			mismatches = append(mismatches, Mismatch{Name: vec.Name, Field: "sha256", Want: vec.SHA256Hex, Got: got})
		}
		if got := hex.EncodeToString(d.SHA3[:]); got != vec.KeccakHex {
			mismatches = append(mismatches, Mismatch{Name: vec.Name, Field: "keccak", Want: vec.KeccakHex, Got: got})
		}
	}
	return mismatches, nil
}

// LoadVectorFile reads a vector document from disk.
func LoadVectorFile(path string) (*VectorFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vector file: %w", err)
	}
	var f VectorFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse vector file %s: %w", path, err)
	}
	return &f, nil
}

// SaveVectorFile writes a vector document to disk.
func SaveVectorFile(path string, f *VectorFile) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal vector file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write vector file %s: %w", path, err)
	}
	return nil
}
