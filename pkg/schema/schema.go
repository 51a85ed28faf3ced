// Package schema holds the action parameter schemas and the ANS state
// policy that every planner-side validator consults. A Store is loaded
// once from its sources and is immutable afterwards; any number of
// goroutines may read it concurrently without synchronization.
package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParameterSchema bounds a single action parameter. Brakeable marks
// parameters whose upper bound shrinks under ANS state scaling; the
// lower bound is never scaled.
type ParameterSchema struct {
	Type      string  `yaml:"type"`
	Unit      string  `yaml:"unit"`
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	Brakeable bool    `yaml:"brakeable"`
}

// ActionSchema describes one executable action and its parameters.
// Parameter names are unique and case-sensitive.
type ActionSchema struct {
	Description string                     `yaml:"description"`
	Parameters  map[string]ParameterSchema `yaml:"parameters"`
}

// StateScaling holds the per-dimension throttle factors of one ANS
// state, each in [0,1].
type StateScaling struct {
	Speed float64 `yaml:"speed"`
	Force float64 `yaml:"force"`
}

// StatePolicy describes one ANS state.
type StatePolicy struct {
	Description  string       `yaml:"description"`
	Scaling      StateScaling `yaml:"scaling"`
	Restrictions []string     `yaml:"restrictions"`
}

// PolicySchema is the full ANS state table.
type PolicySchema struct {
	States map[string]StatePolicy `yaml:"states"`
}

// Store is the immutable registry of action schemas and the ANS
// policy. Construct it with Load; never mutate it afterwards.
type Store struct {
	actions map[string]ActionSchema
	policy  PolicySchema
}

// Action returns the schema for an action, or false if unknown.
func (s *Store) Action(name string) (ActionSchema, bool) {
	a, ok := s.actions[name]
	return a, ok
}

// Parameter returns the schema for one parameter of an action, or
// false when either the action or the parameter is unknown.
func (s *Store) Parameter(action, name string) (ParameterSchema, bool) {
	a, ok := s.actions[action]
	if !ok {
		return ParameterSchema{}, false
	}
	p, ok := a.Parameters[name]
	return p, ok
}

// Scaling returns the throttle factors for an ANS state, or false if
// the state is not in the policy.
func (s *Store) Scaling(ansState string) (StateScaling, bool) {
	p, ok := s.policy.States[ansState]
	if !ok {
		return StateScaling{}, false
	}
	return p.Scaling, true
}

// State returns the full policy entry for an ANS state.
func (s *Store) State(ansState string) (StatePolicy, bool) {
	p, ok := s.policy.States[ansState]
	return p, ok
}

// Actions returns the number of registered actions.
func (s *Store) Actions() int { return len(s.actions) }

// ScaledLimitsHash commits to the scaling factors a given ANS state
// applies to an action: SHA-256 over "<action>:<speed>:<force>",
// 0x-prefixed hex. Unknown states yield the zero hash.
func (s *Store) ScaledLimitsHash(action, ansState string) string {
	scaling, ok := s.Scaling(ansState)
	if !ok {
		return "0x" + strings.Repeat("0", 64)
	}
	data := fmt.Sprintf("%s:%s:%s", action, FormatDecimal(scaling.Speed), FormatDecimal(scaling.Force))
	sum := sha256.Sum256([]byte(data))
	return "0x" + hex.EncodeToString(sum[:])
}

// FormatDecimal renders a float in its shortest round-tripping decimal
// form, with a trailing ".0" on integral values. This is the rendering
// all protocol text surfaces share (validator messages, parameter
// payloads, limit hashes), so the independent verifiers can
// pattern-match on the exact same strings.
func FormatDecimal(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}
	if math.IsNaN(v) {
		return "nan"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
