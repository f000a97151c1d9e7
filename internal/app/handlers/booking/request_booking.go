package booking

import (
	"context"
	"errors"
	"time"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/middleware"
	"frontdesk/internal/app/outbox"
	"frontdesk/internal/app/uow"
	domainbooking "frontdesk/internal/domain/booking"
	domainpricing "frontdesk/internal/domain/pricing"
	domainrange "frontdesk/internal/domain/shared/daterange"
)

const requestBookingKey = "booking.request"

type RequestBookingCommand struct {
	CommandID       string
	HotelID         string
	RoomTypeID      string
	MealPlanID      string
	MarketID        string
	GuestName       string
	CheckIn         time.Time
	CheckOut        time.Time
	Occupancy       domainpricing.Occupancy
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

type RequestBookingResult struct {
	BookingID string                     `json:"booking_id"`
	Price     domainpricing.StayResult   `json:"price"`
}

type RequestBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

var ErrUnitOfWorkRequired = errors.New("booking: unit of work required")

// Handle prices the requested stay and, when it is available, persists a
// booking carrying the quote snapshot.
func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	dr, err := domainrange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	aggregator := domainpricing.Aggregator{
		Resolver:  domainpricing.Resolver{Rates: unit.Rates()},
		RoomTypes: unit.RoomTypes(),
		Campaigns: unit.Campaigns(),
	}
	price, err := aggregator.ComputeStayPrice(ctx, domainpricing.StayRequest{
		HotelID:    cmd.HotelID,
		RoomTypeID: cmd.RoomTypeID,
		MealPlanID: cmd.MealPlanID,
		MarketID:   cmd.MarketID,
		Range:      dr,
		Occupancy:  cmd.Occupancy,
		BookedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(cmd.CommandID),
		HotelID:    cmd.HotelID,
		RoomTypeID: cmd.RoomTypeID,
		MealPlanID: cmd.MealPlanID,
		MarketID:   cmd.MarketID,
		GuestName:  cmd.GuestName,
		Range:      dr,
		Occupancy:  cmd.Occupancy,
		Price:      price,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, booking); err != nil {
		return nil, err
	}

	pending := booking.PendingEvents()
	booking.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &RequestBookingResult{BookingID: string(booking.ID), Price: price}, nil
}

var _ commands.Handler[RequestBookingCommand, *RequestBookingResult] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*RequestBookingCommand)(nil)
