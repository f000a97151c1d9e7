package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainbooking "frontdesk/internal/domain/booking"
	domainpricing "frontdesk/internal/domain/pricing"
	"frontdesk/internal/infra/storage/memory"
)

var (
	checkIn  = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	checkOut = time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC)
)

type seeded struct {
	factory  memory.Factory
	bookings *memory.BookingRepository
}

func seed(t *testing.T, mutate func(*domainpricing.Rate)) seeded {
	t.Helper()
	rates := memory.NewRateRepository()
	roomTypes := memory.NewRoomTypeRepository()
	bookings := memory.NewBookingRepository()
	roomTypes.Put(&domainpricing.RoomType{ID: "rt1", HotelID: "h1", MinAdults: 1, MaxOccupancy: 4})

	for day := checkIn; !day.After(checkOut); day = day.AddDate(0, 0, 1) {
		rate := &domainpricing.Rate{
			HotelID:       "h1",
			RoomTypeID:    "rt1",
			MealPlanID:    "bb",
			Date:          day,
			Mode:          domainpricing.PerRoom,
			BaseOccupancy: 2,
			HotelCost:     domainpricing.TierPrices{Base: decimal.NewFromInt(100)},
			B2C:           domainpricing.TierPrices{Base: decimal.NewFromInt(150)},
			B2B:           domainpricing.TierPrices{Base: decimal.NewFromInt(130)},
		}
		if mutate != nil {
			mutate(rate)
		}
		rates.Put(rate)
	}

	return seeded{
		factory: memory.Factory{
			RatesRepo:     rates,
			RoomTypesRepo: roomTypes,
			CampaignsRepo: memory.NewCampaignRepository(),
			BookingsRepo:  bookings,
			ShiftsRepo:    memory.NewShiftRepository(),
			AuditsRepo:    memory.NewAuditRepository(),
			RoomsRepo:     memory.NewRoomRepository(),
			HotelsRepo:    memory.NewHotelRepository(),
		},
		bookings: bookings,
	}
}

func command() RequestBookingCommand {
	return RequestBookingCommand{
		CommandID:  "booking-1",
		HotelID:    "h1",
		RoomTypeID: "rt1",
		MealPlanID: "bb",
		GuestName:  "A Guest",
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Occupancy:  domainpricing.Occupancy{Adults: 2},
	}
}

func TestRequestBookingPersistsTheQuoteSnapshot(t *testing.T) {
	s := seed(t, nil)
	h := &RequestBookingHandler{UoWFactory: s.factory, Outbox: memory.NewOutbox()}

	result, err := h.Handle(context.Background(), command())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.BookingID != "booking-1" {
		t.Errorf("booking ID = %s", result.BookingID)
	}
	if !result.Price.Total.B2C.Equal(decimal.NewFromInt(300)) {
		t.Errorf("quoted total = %s, want 300", result.Price.Total.B2C)
	}

	stored, err := s.bookings.ByID(context.Background(), domainbooking.BookingID("booking-1"))
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if stored.State != domainbooking.StatePending {
		t.Errorf("state = %s, want %s", stored.State, domainbooking.StatePending)
	}
	if !stored.Price.Total.B2C.Equal(decimal.NewFromInt(300)) {
		t.Errorf("stored snapshot total = %s, want 300", stored.Price.Total.B2C)
	}
	if len(stored.Price.Daily) != 2 {
		t.Errorf("stored breakdown = %d nights, want 2", len(stored.Price.Daily))
	}
}

func TestRequestBookingRefusesAnUnavailableStay(t *testing.T) {
	s := seed(t, func(r *domainpricing.Rate) {
		r.Restrictions.StopSale = true
	})
	h := &RequestBookingHandler{UoWFactory: s.factory, Outbox: memory.NewOutbox()}

	if _, err := h.Handle(context.Background(), command()); !errors.Is(err, domainbooking.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
	if _, err := s.bookings.ByID(context.Background(), domainbooking.BookingID("booking-1")); !errors.Is(err, domainbooking.ErrBookingNotFound) {
		t.Errorf("a refused request still persisted a booking: %v", err)
	}
}

func TestRequestBookingRejectsZeroAdults(t *testing.T) {
	s := seed(t, nil)
	h := &RequestBookingHandler{UoWFactory: s.factory, Outbox: memory.NewOutbox()}

	cmd := command()
	cmd.Occupancy = domainpricing.Occupancy{}
	if _, err := h.Handle(context.Background(), cmd); err == nil {
		t.Fatal("want an occupancy validation error")
	}
}
