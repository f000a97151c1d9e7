package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrRateNotFound = errors.New("pricing: rate not found")

// PricingMode selects how a nightly price scales with guest composition.
type PricingMode string

const (
	// PerRoom prices the standard occupancy as a whole; extra adults and
	// children are priced as add-ons.
	PerRoom PricingMode = "per_room"
	// PerPerson (OBP) scales a per-guest rate by an occupancy multiplier.
	PerPerson PricingMode = "per_person"
)

// ChildRuleKind is the pricing rule attached to a child age band.
type ChildRuleKind string

const (
	ChildFree    ChildRuleKind = "free"
	ChildPercent ChildRuleKind = "percent"
	ChildFixed   ChildRuleKind = "fixed"
)

type ChildRule struct {
	Kind  ChildRuleKind   `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// ChildBand maps an inclusive age range onto a pricing rule. Bands come from
// hotel configuration as an ordered list; the first matching band wins and an
// unmatched age is priced as an adult.
type ChildBand struct {
	MinAge int       `json:"minAge"`
	MaxAge int       `json:"maxAge"`
	Rule   ChildRule `json:"rule"`
}

// Restrictions are sale controls evaluated alongside the rate itself. A rate
// can exist and still be blocked.
type Restrictions struct {
	StopSale          bool `json:"stopSale"`
	SingleStop        bool `json:"singleStop"`
	ClosedToArrival   bool `json:"closedToArrival"`
	ClosedToDeparture bool `json:"closedToDeparture"`
	MinStay           int  `json:"minStay"`
}

// TierPrices holds the contracted amounts for one tier. For per_room rates
// Base is the standard-occupancy room price; for per_person rates Base is the
// adult per-person rate.
type TierPrices struct {
	Base             decimal.Decimal `json:"base"`
	ExtraAdult       decimal.Decimal `json:"extraAdult"`
	SingleSupplement decimal.Decimal `json:"singleSupplement"`
	ChildBands       []ChildBand     `json:"childBands"`
}

// Rate is a contracted nightly price for one
// (hotel, room type, meal plan, market, date) tuple. Rates referenced by a
// confirmed booking are copied onto the booking, never linked, so later rate
// edits cannot rewrite history.
type Rate struct {
	HotelID       string
	RoomTypeID    string
	MealPlanID    string
	MarketID      string
	Date          time.Time
	Mode          PricingMode
	BaseOccupancy int

	HotelCost TierPrices
	B2C       TierPrices
	B2B       TierPrices

	Restrictions Restrictions
}

// Tier returns the contracted prices for one tier. Each tier carries its own
// base/extra/child amounts rather than a markup on another tier, because cost
// and sell contracts can diverge non-linearly.
func (r *Rate) Tier(t Tier) TierPrices {
	switch t {
	case TierHotelCost:
		return r.HotelCost
	case TierB2B:
		return r.B2B
	default:
		return r.B2C
	}
}

// RestrictionIssues evaluates sale controls for one night of a stay.
// CTA applies only to the arrival night, min-stay only to a stay beginning on
// this night, and the single-occupancy stop only when the stay is solo.
func (r *Rate) RestrictionIssues(date time.Time, isArrival bool, solo bool, stayNights int) []Issue {
	var issues []Issue
	if r.Restrictions.StopSale {
		issues = append(issues, Issue{Type: IssueStopSale, Date: date, Message: "date is closed for sale"})
	}
	if solo && r.Restrictions.SingleStop {
		issues = append(issues, Issue{Type: IssueSingleStop, Date: date, Message: "single occupancy is closed for sale on this date"})
	}
	if isArrival && r.Restrictions.ClosedToArrival {
		issues = append(issues, Issue{Type: IssueCTA, Date: date, Message: "arrivals are not accepted on this date"})
	}
	if isArrival && r.Restrictions.MinStay > 0 && stayNights < r.Restrictions.MinStay {
		issues = append(issues, Issue{Type: IssueMinStay, Date: date, Message: "stay is shorter than the minimum for this arrival date"})
	}
	return issues
}

// RateKey addresses one rate lookup.
type RateKey struct {
	HotelID    string
	RoomTypeID string
	MealPlanID string
	MarketID   string
	Date       time.Time
}

// RateStore reads contracted rates. An empty MarketID addresses the
// hotel-wide default contract. Implementations return ErrRateNotFound when no
// rate covers the date.
type RateStore interface {
	RateFor(ctx context.Context, key RateKey) (*Rate, error)
}

// RoomType carries the capacity configuration the aggregator checks before
// pricing.
type RoomType struct {
	ID           string
	HotelID      string
	Name         string
	MinAdults    int
	MaxOccupancy int
}

// RoomTypeStore reads room-type capacity configuration.
type RoomTypeStore interface {
	RoomType(ctx context.Context, hotelID, roomTypeID string) (*RoomType, error)
}

var ErrRoomTypeNotFound = errors.New("pricing: room type not found")
