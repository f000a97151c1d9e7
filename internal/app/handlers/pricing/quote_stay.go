package pricing

import (
	"context"
	"errors"
	"time"

	"frontdesk/internal/app/queries"
	"frontdesk/internal/app/uow"
	domainpricing "frontdesk/internal/domain/pricing"
	domainrange "frontdesk/internal/domain/shared/daterange"
)

const quoteStayKey = "pricing.quote_stay"

type QuoteStayQuery struct {
	HotelID    string
	RoomTypeID string
	MealPlanID string
	MarketID   string
	CheckIn    time.Time
	CheckOut   time.Time
	Occupancy  domainpricing.Occupancy
}

func (q QuoteStayQuery) Key() string { return quoteStayKey }

type QuoteStayHandler struct {
	UoWFactory uow.UoWFactory
}

var ErrUnitOfWorkRequired = errors.New("pricing: unit of work required")

// Handle prices a stay on demand. Quotes are never persisted here; a booking
// copies the result if one is created.
func (h *QuoteStayHandler) Handle(ctx context.Context, q QuoteStayQuery) (*domainpricing.StayResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return nil, err
		}
		defer func() { _ = unit.Rollback(ctx) }()
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
	}

	dr, err := domainrange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return nil, err
	}

	aggregator := domainpricing.Aggregator{
		Resolver:  domainpricing.Resolver{Rates: unit.Rates()},
		RoomTypes: unit.RoomTypes(),
		Campaigns: unit.Campaigns(),
	}
	result, err := aggregator.ComputeStayPrice(ctx, domainpricing.StayRequest{
		HotelID:    q.HotelID,
		RoomTypeID: q.RoomTypeID,
		MealPlanID: q.MealPlanID,
		MarketID:   q.MarketID,
		Range:      dr,
		Occupancy:  q.Occupancy,
		BookedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

var _ queries.Handler[QuoteStayQuery, *domainpricing.StayResult] = (*QuoteStayHandler)(nil)
