package workflow

// State represents the review state of a single batch item
type State string

const (
	// StatePending is the initial state: the item awaits a decision.
	StatePending State = "PENDING"
	// StateApproved means the user accepted the derived name and a
	// rename attempt is in flight.
	StateApproved State = "APPROVED"
	// StateRejected is terminal: the item is dropped without any I/O.
	StateRejected State = "REJECTED"
	// StateCommitted is terminal: the rename succeeded on disk.
	StateCommitted State = "COMMITTED"
	// StateRenameFailed means the rename attempt failed; the item stays
	// visible and may be re-approved or rejected.
	StateRenameFailed State = "RENAME_FAILED"
)

var validStates = map[State]bool{
	StatePending:      true,
	StateApproved:     true,
	StateRejected:     true,
	StateCommitted:    true,
	StateRenameFailed: true,
}

var terminalStates = map[State]bool{
	StateRejected:  true,
	StateCommitted: true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid review state
func (s State) IsValid() bool {
	return validStates[s]
}
