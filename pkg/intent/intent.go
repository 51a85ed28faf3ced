// Package intent defines the immutable, signable command object of the
// Vagus protocol and the builder that assembles one under schema
// validation. An Intent commits to an action, its encoded parameters,
// resource ceilings and a validity window; the digest an external
// signer signs is derived from exactly these fields.
package intent

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a 20-byte account address, rendered as 0x-prefixed
// lowercase hex in every text surface.
type Address [20]byte

// ParseAddress parses a 0x-prefixed 40-digit hex address.
func ParseAddress(s string) (Address, error) {
	var a Address
	if !strings.HasPrefix(s, "0x") || len(s) != 42 {
		return a, fmt.Errorf("intent: address %q must be 0x followed by 40 hex digits", s)
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return a, fmt.Errorf("intent: address %q: %w", s, err)
	}
	copy(a[:], raw)
	return a, nil
}

// Hex returns the 0x-prefixed lowercase hex form.
func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

// Intent is the immutable command value. Only Builder.Build produces
// one; every Intent that exists has passed schema validation and
// satisfies NotBefore <= NotAfter.
type Intent struct {
	ExecutorID    uint64
	ActionID      [32]byte // hash of the action name
	Params        []byte   // encoded parameter payload
	EnvelopeHash  [32]byte
	PreStateRoot  [32]byte // all zero until state roots are wired in
	NotBefore     uint64   // unix seconds
	NotAfter      uint64   // unix seconds
	MaxDurationMs uint32
	MaxEnergyJ    uint32
	Planner       Address
	Nonce         uint64
}

// wireIntent is the external JSON form: hashes and the params payload
// as 0x-prefixed lowercase hex, numbers as numbers.
type wireIntent struct {
	ExecutorID    uint64 `json:"executorId"`
	ActionID      string `json:"actionId"`
	Params        string `json:"params"`
	EnvelopeHash  string `json:"envelopeHash"`
	PreStateRoot  string `json:"preStateRoot"`
	NotBefore     uint64 `json:"notBefore"`
	NotAfter      uint64 `json:"notAfter"`
	MaxDurationMs uint32 `json:"maxDurationMs"`
	MaxEnergyJ    uint32 `json:"maxEnergyJ"`
	Planner       string `json:"planner"`
	Nonce         uint64 `json:"nonce"`
}

func (it *Intent) wire() wireIntent {
	return wireIntent{
		ExecutorID:    it.ExecutorID,
		ActionID:      "0x" + hex.EncodeToString(it.ActionID[:]),
		Params:        "0x" + hex.EncodeToString(it.Params),
		EnvelopeHash:  "0x" + hex.EncodeToString(it.EnvelopeHash[:]),
		PreStateRoot:  "0x" + hex.EncodeToString(it.PreStateRoot[:]),
		NotBefore:     it.NotBefore,
		NotAfter:      it.NotAfter,
		MaxDurationMs: it.MaxDurationMs,
		MaxEnergyJ:    it.MaxEnergyJ,
		Planner:       it.Planner.Hex(),
		Nonce:         it.Nonce,
	}
}

// MarshalJSON renders the wire form of the intent.
func (it *Intent) MarshalJSON() ([]byte, error) {
	return json.Marshal(it.wire())
}

// UnmarshalJSON parses the wire form.
func (it *Intent) UnmarshalJSON(data []byte) error {
	var w wireIntent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	actionID, err := parseHash32(w.ActionID)
	if err != nil {
		return fmt.Errorf("intent: actionId: %w", err)
	}
	envelopeHash, err := parseHash32(w.EnvelopeHash)
	if err != nil {
		return fmt.Errorf("intent: envelopeHash: %w", err)
	}
	preStateRoot, err := parseHash32(w.PreStateRoot)
	if err != nil {
		return fmt.Errorf("intent: preStateRoot: %w", err)
	}
	params, err := parseHexBytes(w.Params)
	if err != nil {
		return fmt.Errorf("intent: params: %w", err)
	}
	planner, err := ParseAddress(w.Planner)
	if err != nil {
		return err
	}
	*it = Intent{
		ExecutorID:    w.ExecutorID,
		ActionID:      actionID,
		Params:        params,
		EnvelopeHash:  envelopeHash,
		PreStateRoot:  preStateRoot,
		NotBefore:     w.NotBefore,
		NotAfter:      w.NotAfter,
		MaxDurationMs: w.MaxDurationMs,
		MaxEnergyJ:    w.MaxEnergyJ,
		Planner:       planner,
		Nonce:         w.Nonce,
	}
	return nil
}

// WireMessage returns the intent fields as the generic map used inside
// the typed-data signing document.
func (it *Intent) WireMessage() map[string]any {
	w := it.wire()
	return map[string]any{
		"executorId":    w.ExecutorID,
		"actionId":      w.ActionID,
		"params":        w.Params,
		"envelopeHash":  w.EnvelopeHash,
		"preStateRoot":  w.PreStateRoot,
		"notBefore":     w.NotBefore,
		"notAfter":      w.NotAfter,
		"maxDurationMs": w.MaxDurationMs,
		"maxEnergyJ":    w.MaxEnergyJ,
		"planner":       w.Planner,
		"nonce":         w.Nonce,
	}
}

func parseHash32(s string) ([32]byte, error) {
	var h [32]byte
	if !strings.HasPrefix(s, "0x") || len(s) != 66 {
		return h, fmt.Errorf("%q must be 0x followed by 64 hex digits", s)
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return h, err
	}
	copy(h[:], raw)
	return h, nil
}

func parseHexBytes(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") {
		return nil, fmt.Errorf("%q must be 0x-prefixed hex", s)
	}
	return hex.DecodeString(s[2:])
}
