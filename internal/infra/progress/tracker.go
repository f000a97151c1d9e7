// Package progress tracks the step events long-running operator flows emit,
// so a client reconnecting mid-operation can catch up on what already
// happened. Entries are short-lived; trackers expire them after a TTL.
package progress

import (
	"context"
	"time"

	"frontdesk/internal/app/policies"
)

// DefaultTTL bounds how long an operation's trail stays readable after the
// last event.
const DefaultTTL = 5 * time.Minute

// Entry is one recorded progress event.
type Entry struct {
	Event   string    `json:"event"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

// Tracker records and replays progress trails per operation.
type Tracker interface {
	policies.ProgressEmitter
	// Snapshot returns the recorded trail for an operation, oldest first.
	// An unknown or expired operation yields an empty trail.
	Snapshot(ctx context.Context, operationID string) ([]Entry, error)
}
