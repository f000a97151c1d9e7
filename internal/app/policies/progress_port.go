package policies

import "context"

// Progress event names emitted by long-running operator flows. External
// transport (socket layer, pub/sub) delivers them to subscribed clients; the
// core only calls Emit.
const (
	ProgressInit         = "init"
	ProgressStepStart    = "step:start"
	ProgressStepUpdate   = "step:update"
	ProgressStepComplete = "step:complete"
	ProgressStepFail     = "step:fail"
	ProgressComplete     = "complete"
	ProgressFail         = "fail"
)

// ProgressEmitter publishes named step events scoped by an operation ID.
type ProgressEmitter interface {
	Emit(ctx context.Context, operationID, event string, payload any) error
}

// NopProgress discards progress events.
type NopProgress struct{}

func (NopProgress) Emit(context.Context, string, string, any) error { return nil }
