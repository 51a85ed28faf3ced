package intent

import "github.com/vagus-network/planner-go/pkg/schema"

// NewMoveTo builds a MOVE_TO intent for a target position and speed
// ceiling.
func NewMoveTo(store *schema.Store, executorID uint64, planner Address, x, y, z, vMax float64) (*Intent, error) {
	return NewBuilder(store, executorID, planner).
		SetAction("MOVE_TO").
		SetParameter("x", x).
		SetParameter("y", y).
		SetParameter("z", z).
		SetParameter("vMax", vMax).
		Build()
}

// NewGrasp builds a GRASP intent for a grip force and duration.
func NewGrasp(store *schema.Store, executorID uint64, planner Address, force, durationMs float64) (*Intent, error) {
	return NewBuilder(store, executorID, planner).
		SetAction("GRASP").
		SetParameter("force", force).
		SetParameter("duration", durationMs).
		Build()
}
