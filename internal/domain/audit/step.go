package audit

import "fmt"

// Step is the audit's state pointer. Steps form a strict linear sequence per
// hotel per operational date; the aggregate only ever moves forward.
type Step string

const (
	StepNoShows      Step = "no_show_processing"
	StepRoomRollover Step = "room_status_rollover"
	StepCashier      Step = "cashier_reconciliation"
	StepDateRollover Step = "date_rollover"
	StepFinalized    Step = "finalized"
)

var stepOrder = []Step{StepNoShows, StepRoomRollover, StepCashier, StepDateRollover, StepFinalized}

// Ordinal returns the 1-based position of the step in the sequence, 0 for an
// unknown step.
func (s Step) Ordinal() int {
	for i, step := range stepOrder {
		if step == s {
			return i + 1
		}
	}
	return 0
}

// Next returns the following step; ok is false at the end of the sequence.
func (s Step) Next() (Step, bool) {
	ord := s.Ordinal()
	if ord == 0 || ord >= len(stepOrder) {
		return s, false
	}
	return stepOrder[ord], true
}

// ParseStep validates a stored step value.
func ParseStep(raw string) (Step, error) {
	s := Step(raw)
	if s.Ordinal() == 0 {
		return "", fmt.Errorf("audit: unknown step %q", raw)
	}
	return s, nil
}
