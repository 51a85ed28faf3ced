package eip712

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"

	"github.com/vagus-network/planner-go/pkg/intent"
)

// TypedField is one field declaration inside a typed-data document.
type TypedField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TypedData is the full document external wallet tooling consumes to
// present and sign an intent.
type TypedData struct {
	Types       map[string][]TypedField `json:"types"`
	PrimaryType string                  `json:"primaryType"`
	Domain      map[string]any          `json:"domain"`
	Message     map[string]any          `json:"message"`
}

// NewTypedData assembles the signing document for one intent under one
// domain.
func NewTypedData(d Domain, it *intent.Intent) *TypedData {
	return &TypedData{
		Types: map[string][]TypedField{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Intent": {
				{Name: "executorId", Type: "uint256"},
				{Name: "actionId", Type: "bytes32"},
				{Name: "params", Type: "bytes"},
				{Name: "envelopeHash", Type: "bytes32"},
				{Name: "preStateRoot", Type: "bytes32"},
				{Name: "notBefore", Type: "uint256"},
				{Name: "notAfter", Type: "uint256"},
				{Name: "maxDurationMs", Type: "uint32"},
				{Name: "maxEnergyJ", Type: "uint32"},
				{Name: "planner", Type: "address"},
				{Name: "nonce", Type: "uint256"},
			},
		},
		PrimaryType: "Intent",
		Domain: map[string]any{
			"name":              d.Name,
			"version":           d.Version,
			"chainId":           d.ChainID,
			"verifyingContract": d.VerifyingContract.Hex(),
		},
		Message: it.WireMessage(),
	}
}

// CanonicalJSON serializes the document in RFC 8785 canonical form so
// two planners produce the identical signing payload for the same
// intent.
func (t *TypedData) CanonicalJSON() ([]byte, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("eip712: marshal typed data: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("eip712: canonicalize typed data: %w", err)
	}
	return canonical, nil
}

// PayloadHash content-addresses the canonical document, 0x-prefixed
// SHA-256 hex.
func (t *TypedData) PayloadHash() (string, error) {
	canonical, err := t.CanonicalJSON()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return "0x" + hex.EncodeToString(sum[:]), nil
}
