package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainpricing "frontdesk/internal/domain/pricing"
	domainrange "frontdesk/internal/domain/shared/daterange"
	"frontdesk/internal/infra/storage/memory"
)

var (
	checkIn  = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	checkOut = time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC)
)

func seededFactory(t *testing.T, nightly string, mutate func(*domainpricing.Rate)) memory.Factory {
	t.Helper()
	rates := memory.NewRateRepository()
	roomTypes := memory.NewRoomTypeRepository()
	roomTypes.Put(&domainpricing.RoomType{ID: "rt1", HotelID: "h1", MinAdults: 1, MaxOccupancy: 4})

	base, err := decimal.NewFromString(nightly)
	if err != nil {
		t.Fatalf("nightly: %v", err)
	}
	for day := checkIn; !day.After(checkOut); day = day.AddDate(0, 0, 1) {
		rate := &domainpricing.Rate{
			HotelID:       "h1",
			RoomTypeID:    "rt1",
			MealPlanID:    "bb",
			Date:          day,
			Mode:          domainpricing.PerRoom,
			BaseOccupancy: 2,
			HotelCost:     domainpricing.TierPrices{Base: base.Mul(decimal.NewFromFloat(0.8))},
			B2C:           domainpricing.TierPrices{Base: base},
			B2B:           domainpricing.TierPrices{Base: base.Mul(decimal.NewFromFloat(0.9))},
		}
		if mutate != nil {
			mutate(rate)
		}
		rates.Put(rate)
	}

	return memory.Factory{
		RatesRepo:     rates,
		RoomTypesRepo: roomTypes,
		CampaignsRepo: memory.NewCampaignRepository(),
		BookingsRepo:  memory.NewBookingRepository(),
		ShiftsRepo:    memory.NewShiftRepository(),
		AuditsRepo:    memory.NewAuditRepository(),
		RoomsRepo:     memory.NewRoomRepository(),
		HotelsRepo:    memory.NewHotelRepository(),
	}
}

func TestQuoteStayPricesAllNights(t *testing.T) {
	h := &QuoteStayHandler{UoWFactory: seededFactory(t, "120", nil)}

	result, err := h.Handle(context.Background(), QuoteStayQuery{
		HotelID:    "h1",
		RoomTypeID: "rt1",
		MealPlanID: "bb",
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Occupancy:  domainpricing.Occupancy{Adults: 2},
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !result.Available {
		t.Errorf("available = false, issues = %+v", result.Issues)
	}
	if result.Nights != 3 || len(result.Daily) != 3 {
		t.Fatalf("nights/daily = %d/%d, want 3/3", result.Nights, len(result.Daily))
	}
	if !result.Total.B2C.Equal(decimal.NewFromInt(360)) {
		t.Errorf("total = %s, want 360", result.Total.B2C)
	}
}

func TestQuoteStayRejectsInvalidRange(t *testing.T) {
	h := &QuoteStayHandler{UoWFactory: seededFactory(t, "120", nil)}

	_, err := h.Handle(context.Background(), QuoteStayQuery{
		HotelID:    "h1",
		RoomTypeID: "rt1",
		MealPlanID: "bb",
		CheckIn:    checkOut,
		CheckOut:   checkIn,
		Occupancy:  domainpricing.Occupancy{Adults: 2},
	})
	if !errors.Is(err, domainrange.ErrInvalidRange) {
		t.Errorf("err = %v, want ErrInvalidRange", err)
	}
}

func TestQuoteStaySurfacesRestrictions(t *testing.T) {
	factory := seededFactory(t, "120", func(r *domainpricing.Rate) {
		if r.Date.Day() == 11 {
			r.Restrictions.StopSale = true
		}
	})
	h := &QuoteStayHandler{UoWFactory: factory}

	result, err := h.Handle(context.Background(), QuoteStayQuery{
		HotelID:    "h1",
		RoomTypeID: "rt1",
		MealPlanID: "bb",
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Occupancy:  domainpricing.Occupancy{Adults: 2},
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.Available {
		t.Error("available = true with a stop-sale night")
	}
	if len(result.Issues) != 1 || result.Issues[0].Type != domainpricing.IssueStopSale {
		t.Errorf("issues = %+v", result.Issues)
	}
}

func TestQuoteStayRequiresAFactory(t *testing.T) {
	h := &QuoteStayHandler{}
	_, err := h.Handle(context.Background(), QuoteStayQuery{HotelID: "h1"})
	if !errors.Is(err, ErrUnitOfWorkRequired) {
		t.Errorf("err = %v, want ErrUnitOfWorkRequired", err)
	}
}
