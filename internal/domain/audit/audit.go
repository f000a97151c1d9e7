package audit

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"frontdesk/internal/domain/shared/events"
)

var (
	ErrAuditNotFound = errors.New("audit: no active night audit")
	ErrAuditActive   = errors.New("audit: an unfinalized audit already exists for this hotel")
	ErrStepOrder     = errors.New("audit: operation does not match the current step")
	ErrFinalized     = errors.New("audit: audit is finalized")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusFinalized Status = "finalized"
)

// StepCompletion is the bookkeeping every step writes when it finishes.
type StepCompletion struct {
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completedAt"`
	CompletedBy string    `json:"completedBy"`
}

// NoShowRecord is the per-booking outcome of no-show processing. Failures are
// recorded alongside successes for audit traceability.
type NoShowRecord struct {
	BookingID    string          `json:"bookingId"`
	Action       string          `json:"action"`
	ChargeAmount decimal.Decimal `json:"chargeAmount"`
	ChargeType   string          `json:"chargeType"`
	Succeeded    bool            `json:"succeeded"`
	Error        string          `json:"error,omitempty"`
}

type NoShowStep struct {
	StepCompletion `json:",inline"`
	Records        []NoShowRecord  `json:"records"`
	Processed      int             `json:"processed"`
	Failed         int             `json:"failed"`
	TotalCharges   decimal.Decimal `json:"totalCharges"`
}

type RoomRolloverStep struct {
	StepCompletion `json:",inline"`
	RoomsRolled    int `json:"roomsRolled"`
	Stayovers      int `json:"stayovers"`
	DueOut         int `json:"dueOut"`
}

// ShiftClosure is the per-shift outcome of cashier reconciliation.
type ShiftClosure struct {
	ShiftID      string          `json:"shiftId"`
	CashierID    string          `json:"cashierId"`
	ExpectedCash decimal.Decimal `json:"expectedCash"`
	ActualCash   decimal.Decimal `json:"actualCash"`
	Discrepancy  decimal.Decimal `json:"discrepancy"`
	Succeeded    bool            `json:"succeeded"`
	Error        string          `json:"error,omitempty"`
}

type CashierStep struct {
	StepCompletion   `json:",inline"`
	Closures         []ShiftClosure  `json:"closures"`
	TotalCash        decimal.Decimal `json:"totalCash"`
	TotalCard        decimal.Decimal `json:"totalCard"`
	TotalBank        decimal.Decimal `json:"totalBank"`
	TotalDiscrepancy decimal.Decimal `json:"totalDiscrepancy"`
}

type DateRolloverStep struct {
	StepCompletion `json:",inline"`
	FromDate       time.Time `json:"fromDate"`
	ToDate         time.Time `json:"toDate"`
}

// NightAudit is one hotel's audit for one operational date. It is the
// serialization point for the nightly close: at most one non-finalized audit
// exists per hotel, and every step advance is a single guarded document
// update.
type NightAudit struct {
	ID           string
	HotelID      string
	BusinessDate time.Time
	Step         Step
	Status       Status

	NoShows      NoShowStep
	RoomRollover RoomRolloverStep
	Cashier      CashierStep
	DateRollover DateRolloverStep

	StartedBy   string
	StartedAt   time.Time
	FinalizedAt time.Time
	UpdatedAt   time.Time
	Version     int64

	events.EventRecorder `json:"-" bson:"-"`
}

// Start opens a new audit positioned at the first step.
func Start(id, hotelID, startedBy string, businessDate, now time.Time) *NightAudit {
	a := &NightAudit{
		ID:           id,
		HotelID:      hotelID,
		BusinessDate: businessDate,
		Step:         StepNoShows,
		Status:       StatusActive,
		StartedBy:    startedBy,
		StartedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}
	a.Record(AuditStarted{AuditID: a.ID, HotelID: hotelID, BusinessDate: businessDate, At: a.StartedAt})
	return a
}

// guard validates that the aggregate is positioned at the expected step.
// A re-invocation of an already completed step surfaces as ErrStepOrder, the
// conflict the API layer maps to 409.
func (a *NightAudit) guard(expected Step) error {
	if a.Status == StatusFinalized {
		return ErrFinalized
	}
	if a.Step != expected {
		return ErrStepOrder
	}
	return nil
}

func (a *NightAudit) advance(by string, now time.Time) {
	next, ok := a.Step.Next()
	if !ok {
		return
	}
	completed := a.Step
	a.Step = next
	a.UpdatedAt = now.UTC()
	a.Record(AuditStepCompleted{AuditID: a.ID, HotelID: a.HotelID, Step: completed, By: by, At: a.UpdatedAt})
}

// CompleteNoShows records the no-show batch outcome and advances the audit.
func (a *NightAudit) CompleteNoShows(records []NoShowRecord, by string, now time.Time) error {
	if err := a.guard(StepNoShows); err != nil {
		return err
	}
	step := NoShowStep{Records: records}
	for _, rec := range records {
		if rec.Succeeded {
			step.Processed++
			step.TotalCharges = step.TotalCharges.Add(rec.ChargeAmount)
		} else {
			step.Failed++
		}
	}
	step.Completed = true
	step.CompletedAt = now.UTC()
	step.CompletedBy = by
	a.NoShows = step
	a.advance(by, now)
	return nil
}

// CompleteRoomRollover records the room rollover counters and advances.
func (a *NightAudit) CompleteRoomRollover(rolled, stayovers, dueOut int, by string, now time.Time) error {
	if err := a.guard(StepRoomRollover); err != nil {
		return err
	}
	a.RoomRollover = RoomRolloverStep{
		StepCompletion: StepCompletion{Completed: true, CompletedAt: now.UTC(), CompletedBy: by},
		RoomsRolled:    rolled,
		Stayovers:      stayovers,
		DueOut:         dueOut,
	}
	a.advance(by, now)
	return nil
}

// CompleteCashier records closed shifts and advances. Discrepancies are
// aggregated by absolute value: a till that is over does not cancel one that
// is short.
func (a *NightAudit) CompleteCashier(closures []ShiftClosure, totalCash, totalCard, totalBank decimal.Decimal, by string, now time.Time) error {
	if err := a.guard(StepCashier); err != nil {
		return err
	}
	step := CashierStep{
		Closures:  closures,
		TotalCash: totalCash,
		TotalCard: totalCard,
		TotalBank: totalBank,
	}
	for _, c := range closures {
		if c.Succeeded {
			step.TotalDiscrepancy = step.TotalDiscrepancy.Add(c.Discrepancy.Abs())
		}
	}
	step.Completed = true
	step.CompletedAt = now.UTC()
	step.CompletedBy = by
	a.Cashier = step
	a.advance(by, now)
	return nil
}

// CompleteDateRollover records the business-date advance.
func (a *NightAudit) CompleteDateRollover(from, to time.Time, by string, now time.Time) error {
	if err := a.guard(StepDateRollover); err != nil {
		return err
	}
	a.DateRollover = DateRolloverStep{
		StepCompletion: StepCompletion{Completed: true, CompletedAt: now.UTC(), CompletedBy: by},
		FromDate:       from,
		ToDate:         to,
	}
	a.advance(by, now)
	return nil
}

// Finalize seals the audit. A finalized audit is immutable and a new audit
// for the next operational date may be opened.
func (a *NightAudit) Finalize(by string, now time.Time) error {
	if err := a.guard(StepFinalized); err != nil {
		return err
	}
	a.Status = StatusFinalized
	a.FinalizedAt = now.UTC()
	a.UpdatedAt = a.FinalizedAt
	a.Record(AuditFinalized{AuditID: a.ID, HotelID: a.HotelID, BusinessDate: a.BusinessDate, By: by, At: a.FinalizedAt})
	return nil
}

// Repository is the canonical access point for the per-hotel audit state.
type Repository interface {
	// ActiveByHotel returns the single non-finalized audit, or
	// ErrAuditNotFound.
	ActiveByHotel(ctx context.Context, hotelID string) (*NightAudit, error)
	// Create persists a fresh audit, failing with ErrAuditActive when a
	// non-finalized one already exists for the hotel.
	Create(ctx context.Context, a *NightAudit) error
	// Save persists step progress. The write must be atomic against the
	// previously loaded step/version so two racing completions cannot both
	// advance the same step.
	Save(ctx context.Context, a *NightAudit) error
}
