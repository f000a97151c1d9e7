package booking

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"frontdesk/internal/domain/pricing"
	"frontdesk/internal/domain/shared/daterange"
	"frontdesk/internal/domain/shared/events"
)

var (
	ErrInvalidGuests   = errors.New("booking: occupancy must include at least one adult")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrUnavailable     = errors.New("booking: stay is not available at the quoted terms")
	ErrBookingNotFound = errors.New("booking: not found")
)

type BookingID string

type BookingState string

const (
	StatePending    BookingState = "PENDING"
	StateConfirmed  BookingState = "CONFIRMED"
	StateCancelled  BookingState = "CANCELLED"
	StateCheckedIn  BookingState = "CHECKED_IN"
	StateCheckedOut BookingState = "CHECKED_OUT"
	StateNoShow     BookingState = "NO_SHOW"
)

// Booking is one reserved stay. The price carried here is a snapshot of the
// quote at creation time: rate edits after confirmation never rewrite a
// booking's breakdown.
type Booking struct {
	ID         BookingID
	HotelID    string
	RoomTypeID string
	MealPlanID string
	MarketID   string
	GuestName  string
	Range      daterange.DateRange
	Occupancy  pricing.Occupancy
	Price      pricing.StayResult
	State      BookingState

	NoShowCharge     decimal.Decimal
	NoShowChargeType string

	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64

	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	// ArrivalsOn returns bookings whose stay begins on the given date,
	// filtered by state.
	ArrivalsOn(ctx context.Context, hotelID string, date time.Time, state BookingState) ([]*Booking, error)
}

type CreateParams struct {
	ID         BookingID
	HotelID    string
	RoomTypeID string
	MealPlanID string
	MarketID   string
	GuestName  string
	Range      daterange.DateRange
	Occupancy  pricing.Occupancy
	Price      pricing.StayResult
	CreatedAt  time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if params.Occupancy.Adults <= 0 {
		return nil, ErrInvalidGuests
	}
	if !params.Price.Available {
		return nil, ErrUnavailable
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:         params.ID,
		HotelID:    params.HotelID,
		RoomTypeID: params.RoomTypeID,
		MealPlanID: params.MealPlanID,
		MarketID:   params.MarketID,
		GuestName:  params.GuestName,
		Range:      params.Range,
		Occupancy:  params.Occupancy,
		Price:      params.Price,
		State:      StatePending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	b.Record(BookingRequested{BookingID: b.ID, HotelID: b.HotelID, Range: b.Range, Total: b.Price.Total.B2C, At: now})
	return b, nil
}

func (b *Booking) Confirm(now time.Time) error {
	if b.State != StatePending {
		return ErrInvalidState
	}
	b.State = StateConfirmed
	b.UpdatedAt = now.UTC()
	b.Record(BookingConfirmed{BookingID: b.ID, HotelID: b.HotelID, Range: b.Range, Total: b.Price.Total.B2C, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Cancel(reason string, now time.Time) error {
	switch b.State {
	case StatePending, StateConfirmed:
	default:
		return ErrInvalidState
	}
	b.State = StateCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, Reason: reason, At: b.UpdatedAt})
	return nil
}

func (b *Booking) CheckIn(now time.Time) error {
	if b.State != StateConfirmed {
		return ErrInvalidState
	}
	b.State = StateCheckedIn
	b.UpdatedAt = now.UTC()
	b.Record(CheckInCompleted{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) CheckOut(now time.Time) error {
	if b.State != StateCheckedIn {
		return ErrInvalidState
	}
	b.State = StateCheckedOut
	b.UpdatedAt = now.UTC()
	b.Record(CheckOutCompleted{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

// MarkNoShow disposes of an unfulfilled arrival during the night audit. A
// waived disposition records a zero charge.
func (b *Booking) MarkNoShow(charge decimal.Decimal, chargeType string, now time.Time) error {
	if b.State != StateConfirmed {
		return ErrInvalidState
	}
	b.State = StateNoShow
	b.NoShowCharge = charge
	b.NoShowChargeType = chargeType
	b.UpdatedAt = now.UTC()
	b.Record(NoShowRecorded{BookingID: b.ID, Charge: charge, At: b.UpdatedAt})
	return nil
}
