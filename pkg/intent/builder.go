package intent

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vagus-network/planner-go/pkg/schema"
	"github.com/vagus-network/planner-go/pkg/validate"
)

// Builder defaults.
const (
	DefaultMaxDurationMs   = 30000
	DefaultMaxEnergyJ      = 1000
	DefaultValiditySeconds = 3600
)

// ValidationFailedError carries the complete list of validation
// failures from one build attempt. The builder never fails fast; a
// caller sees every violation at once.
type ValidationFailedError struct {
	Errors []string
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("intent validation failed: %s", strings.Join(e.Errors, "; "))
}

// Builder accumulates the action, parameters and resource limits of an
// intent and produces a validated Intent. A Builder is single-owner
// mutable state; discard it after Build.
type Builder struct {
	store      *schema.Store
	executorID uint64
	planner    Address

	action     string
	parameters map[string]float64

	maxDurationMs   uint32
	maxEnergyJ      uint32
	validitySeconds uint64

	clock func() time.Time
	nonce *uint64
}

// NewBuilder starts an intent for one executor, validating against the
// given schema store.
func NewBuilder(store *schema.Store, executorID uint64, planner Address) *Builder {
	return &Builder{
		store:           store,
		executorID:      executorID,
		planner:         planner,
		parameters:      make(map[string]float64),
		maxDurationMs:   DefaultMaxDurationMs,
		maxEnergyJ:      DefaultMaxEnergyJ,
		validitySeconds: DefaultValiditySeconds,
		clock:           time.Now,
	}
}

// SetAction selects the action to execute.
func (b *Builder) SetAction(name string) *Builder {
	b.action = name
	return b
}

// SetParameter stages one parameter value. Setting the same name again
// overwrites the earlier value.
func (b *Builder) SetParameter(name string, value float64) *Builder {
	b.parameters[name] = value
	return b
}

// SetMaxDuration sets the execution time ceiling in milliseconds.
func (b *Builder) SetMaxDuration(durationMs uint32) *Builder {
	b.maxDurationMs = durationMs
	return b
}

// SetMaxEnergy sets the energy ceiling in joules.
func (b *Builder) SetMaxEnergy(energyJ uint32) *Builder {
	b.maxEnergyJ = energyJ
	return b
}

// SetValidityDuration sets how long the intent stays valid, in seconds
// from build time.
func (b *Builder) SetValidityDuration(seconds uint64) *Builder {
	b.validitySeconds = seconds
	return b
}

// WithClock overrides the clock for deterministic testing.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

// WithNonce overrides the default build-time nonce. The default is the
// build timestamp in seconds, which collides for two intents built
// within the same second; callers that need uniqueness inject their
// own.
func (b *Builder) WithNonce(nonce uint64) *Builder {
	n := nonce
	b.nonce = &n
	return b
}

// Validate checks the staged action and parameters against the schema
// store and returns every violation found. Bounds are the unscaled,
// SAFE-equivalent static bounds; ANS state is a runtime concern, not a
// build-time one. An empty result means the builder can Build.
func (b *Builder) Validate() []string {
	var errs []string

	if b.action == "" {
		return append(errs, "Action name is required")
	}
	if _, ok := b.store.Action(b.action); !ok {
		return append(errs, fmt.Sprintf("Unknown action: %s", b.action))
	}

	for _, name := range b.sortedParameterNames() {
		if _, ok := b.store.Parameter(b.action, name); !ok {
			errs = append(errs, fmt.Sprintf("Unknown parameter: %s for action %s", name, b.action))
			continue
		}
		if err := validate.CheckStatic(b.store, b.action, name, b.parameters[name]); err != nil {
			errs = append(errs, fmt.Sprintf("Parameter %s: %s", name, err))
		}
	}

	return errs
}

// Build validates the staged state and assembles the Intent. On any
// validation failure it returns a *ValidationFailedError carrying the
// full error list and no Intent.
func (b *Builder) Build() (*Intent, error) {
	if errs := b.Validate(); len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	actionID := sha256.Sum256([]byte(b.action))
	params := []byte(b.encodeParameters())

	envelopePreimage := fmt.Sprintf("%d:0x%s:%s",
		b.executorID, hex.EncodeToString(actionID[:]), hex.EncodeToString(params))
	envelopeHash := sha256.Sum256([]byte(envelopePreimage))

	now := uint64(b.clock().Unix())
	nonce := now
	if b.nonce != nil {
		nonce = *b.nonce
	}

	return &Intent{
		ExecutorID:    b.executorID,
		ActionID:      actionID,
		Params:        params,
		EnvelopeHash:  envelopeHash,
		PreStateRoot:  [32]byte{},
		NotBefore:     now,
		NotAfter:      now + b.validitySeconds,
		MaxDurationMs: b.maxDurationMs,
		MaxEnergyJ:    b.maxEnergyJ,
		Planner:       b.planner,
		Nonce:         nonce,
	}, nil
}

// encodeParameters renders the staged parameters as "name:value"
// entries sorted by name and joined with ";". This simple text payload
// is the contract-facing parameter form; it is intentionally distinct
// from the canonical CBOR encoding used for data-root commitments.
func (b *Builder) encodeParameters() string {
	names := b.sortedParameterNames()
	entries := make([]string, 0, len(names))
	for _, name := range names {
		entries = append(entries, name+":"+schema.FormatDecimal(b.parameters[name]))
	}
	return strings.Join(entries, ";")
}

func (b *Builder) sortedParameterNames() []string {
	names := make([]string, 0, len(b.parameters))
	for name := range b.parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
