package intent

import (
	"time"

	"github.com/vagus-network/planner-go/pkg/schema"
	"github.com/vagus-network/planner-go/pkg/validate"
)

// maxFutureStartSeconds bounds how far in the future an intent's
// validity window may begin.
const maxFutureStartSeconds = 3600

// Validator re-checks a received, already-built intent before
// execution: temporal window, resource sanity, and ANS policy
// resolution. It never rejects by panicking; a well-formed but invalid
// intent simply yields a non-empty error list.
type Validator struct {
	store *schema.Store
	clock func() time.Time
}

// NewValidator creates an intent validator over the given store.
func NewValidator(store *schema.Store) *Validator {
	return &Validator{store: store, clock: time.Now}
}

// WithClock overrides the clock for deterministic testing.
func (v *Validator) WithClock(clock func() time.Time) *Validator {
	v.clock = clock
	return v
}

// Validate returns every violation found; an empty list means the
// intent may proceed. Parameter-level scaled checks need the decoded
// parameter map and stay with callers that have it (see
// validate.CheckScaled).
func (v *Validator) Validate(it *Intent, ansState string) []string {
	var errs []string
	now := uint64(v.clock().Unix())

	if it.NotBefore > it.NotAfter {
		errs = append(errs, "not_before cannot be after not_after")
	}
	if it.NotAfter < now {
		errs = append(errs, "Intent has already expired")
	}
	if it.NotBefore > now+maxFutureStartSeconds {
		errs = append(errs, "Intent validity starts too far in the future")
	}

	if it.MaxDurationMs == 0 {
		errs = append(errs, "max_duration_ms must be positive")
	}
	if it.MaxEnergyJ == 0 {
		errs = append(errs, "max_energy_j must be positive")
	}
	if it.ExecutorID == 0 {
		errs = append(errs, "executor_id must be positive")
	}

	if _, ok := v.store.Scaling(ansState); !ok {
		errs = append(errs, (&validate.UnknownStateError{State: ansState}).Error())
	}

	return errs
}
