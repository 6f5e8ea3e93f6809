package workflow

// Trigger represents a user or system action that can cause a state transition
type Trigger string

const (
	// TriggerApprove accepts the derived filename for an item.
	TriggerApprove Trigger = "APPROVE"
	// TriggerReject discards an item without touching the filesystem.
	TriggerReject Trigger = "REJECT"
	// TriggerCommit records a successful rename on disk.
	TriggerCommit Trigger = "COMMIT"
	// TriggerFail records a failed rename attempt.
	TriggerFail Trigger = "FAIL"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
