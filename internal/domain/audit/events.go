package audit

import "time"

type AuditStarted struct {
	AuditID      string
	HotelID      string
	BusinessDate time.Time
	At           time.Time
}

func (e AuditStarted) EventName() string     { return "audit.started" }
func (e AuditStarted) AggregateID() string   { return e.AuditID }
func (e AuditStarted) OccurredAt() time.Time { return e.At }

type AuditStepCompleted struct {
	AuditID string
	HotelID string
	Step    Step
	By      string
	At      time.Time
}

func (e AuditStepCompleted) EventName() string     { return "audit.step_completed" }
func (e AuditStepCompleted) AggregateID() string   { return e.AuditID }
func (e AuditStepCompleted) OccurredAt() time.Time { return e.At }

type AuditFinalized struct {
	AuditID      string
	HotelID      string
	BusinessDate time.Time
	By           string
	At           time.Time
}

func (e AuditFinalized) EventName() string     { return "audit.finalized" }
func (e AuditFinalized) AggregateID() string   { return e.AuditID }
func (e AuditFinalized) OccurredAt() time.Time { return e.At }
