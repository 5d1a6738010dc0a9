package buildreg

import "errors"

// ErrSelectionPending rejects discovery while the user is still choosing
// a build from an earlier prompt.
var ErrSelectionPending = errors.New("build selection pending")

// State is the selection state of a Registry.
type State int

const (
	// StateIdle accepts discovery.
	StateIdle State = iota

	// StateAwaitingSelection waits for the chooser to report a build.
	StateAwaitingSelection

	// StateApplying is entered when the chooser answered and the choice is
	// being stored.
	StateApplying

	// StateCancelled is left by the next discovery.
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingSelection:
		return "awaiting-selection"
	case StateApplying:
		return "applying"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
