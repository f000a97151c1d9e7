package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"frontdesk/internal/domain/shared/daterange"
	"frontdesk/internal/domain/shared/money"
)

// StayRequest addresses one room-type/meal-plan pricing over a date range.
type StayRequest struct {
	HotelID    string
	RoomTypeID string
	MealPlanID string
	MarketID   string
	Range      daterange.DateRange
	Occupancy  Occupancy
	BookedAt   time.Time
}

// StayResult is the aggregate quote for one stay. It is ephemeral: computed
// on demand and copied onto a booking only when one is created.
type StayResult struct {
	Available bool         `json:"available"`
	Nights    int          `json:"nights"`
	Daily     []DailyEntry `json:"dailyBreakdown"`
	Issues    []Issue      `json:"issues"`

	Total         TierAmounts `json:"total"`
	OriginalTotal TierAmounts `json:"originalTotal"`
	AvgPerNight   TierAmounts `json:"avgPerNight"`

	AppliedCampaigns []AppliedCampaign `json:"appliedCampaigns,omitempty"`
	TotalDiscount    decimal.Decimal   `json:"totalDiscountAmount"`
	DiscountText     string            `json:"discountText,omitempty"`
}

// Aggregator walks a stay night by night through resolver, calculator and
// campaign engine, and folds the nights into per-stay totals.
type Aggregator struct {
	Resolver  Resolver
	RoomTypes RoomTypeStore
	Campaigns CampaignStore
}

// ComputeStayPrice prices every night in [checkIn, checkOut). Per-night
// problems become issues and never abort the walk, so the caller always sees
// the complete picture of which nights are wrong. Systemic failures (store
// unreachable) propagate as errors.
func (a Aggregator) ComputeStayPrice(ctx context.Context, req StayRequest) (StayResult, error) {
	result := StayResult{Available: true, Nights: req.Range.Nights()}
	if err := req.Occupancy.Validate(); err != nil {
		return StayResult{}, err
	}

	roomType, err := a.RoomTypes.RoomType(ctx, req.HotelID, req.RoomTypeID)
	if err != nil {
		return StayResult{}, fmt.Errorf("pricing: room type lookup: %w", err)
	}

	// Capacity is checked once, before the per-night walk. A failing check
	// short-circuits with a single issue and an empty breakdown.
	if capIssue := capacityIssue(roomType, req.Occupancy, req.Range.CheckIn); capIssue != nil {
		result.Available = false
		result.Issues = []Issue{*capIssue}
		return result, nil
	}

	engine, err := a.campaignEngine(ctx, req.HotelID)
	if err != nil {
		return StayResult{}, err
	}
	stay := StayContext{
		MarketID: req.MarketID,
		CheckIn:  req.Range.CheckIn,
		Nights:   result.Nights,
		BookedAt: req.BookedAt,
	}
	solo := req.Occupancy.Total() == 1

	dates := req.Range.Dates()
	for i, date := range dates {
		entry, issues := a.priceNight(ctx, req, date, i == 0, solo, engine, stay, &result)
		entry.IsCheckIn = i == 0
		entry.IsCheckOut = i == len(dates)-1
		entry.HasIssue = len(issues) > 0
		result.Issues = append(result.Issues, issues...)
		result.Daily = append(result.Daily, entry)
	}

	if err := a.appendDepartureIssues(ctx, req, &result); err != nil {
		return StayResult{}, err
	}

	for _, issue := range result.Issues {
		if issue.Type.Hard() {
			result.Available = false
			break
		}
	}

	a.accumulate(&result)
	return result, nil
}

func (a Aggregator) priceNight(ctx context.Context, req StayRequest, date time.Time, isArrival, solo bool, engine Engine, stay StayContext, result *StayResult) (DailyEntry, []Issue) {
	resolved, err := a.Resolver.Resolve(ctx, RateKey{
		HotelID:    req.HotelID,
		RoomTypeID: req.RoomTypeID,
		MealPlanID: req.MealPlanID,
		MarketID:   req.MarketID,
		Date:       date,
	})
	if err != nil {
		return DailyEntry{Date: date}, []Issue{{Type: IssueAPIError, Date: date, Message: err.Error()}}
	}
	if !resolved.Found {
		return DailyEntry{Date: date}, []Issue{{Type: IssueNoRate, Date: date, Message: "no rate configured for this date"}}
	}

	issues := resolved.Rate.RestrictionIssues(date, isArrival, solo, stay.Nights)

	// A restricted night is still priced so the breakdown stays complete.
	entry, capIssue := ComputeDaily(resolved.Rate, req.Occupancy, date)
	if capIssue != nil {
		return entry, append(issues, *capIssue)
	}
	applied := engine.Apply(&entry, stay)
	result.AppliedCampaigns = append(result.AppliedCampaigns, applied...)
	return entry, issues
}

// appendDepartureIssues checks closed-to-departure on the check-out date,
// which is never itself a priced night.
func (a Aggregator) appendDepartureIssues(ctx context.Context, req StayRequest, result *StayResult) error {
	resolved, err := a.Resolver.Resolve(ctx, RateKey{
		HotelID:    req.HotelID,
		RoomTypeID: req.RoomTypeID,
		MealPlanID: req.MealPlanID,
		MarketID:   req.MarketID,
		Date:       req.Range.CheckOut,
	})
	if err != nil {
		return err
	}
	if resolved.Found && resolved.Rate.Restrictions.ClosedToDeparture {
		result.Issues = append(result.Issues, Issue{
			Type:    IssueCTD,
			Date:    req.Range.CheckOut,
			Message: "departures are not accepted on this date",
		})
	}
	return nil
}

func (a Aggregator) campaignEngine(ctx context.Context, hotelID string) (Engine, error) {
	if a.Campaigns == nil {
		return Engine{}, nil
	}
	campaigns, err := a.Campaigns.ActiveCampaigns(ctx, hotelID)
	if err != nil {
		return Engine{}, fmt.Errorf("pricing: campaign lookup: %w", err)
	}
	return NewEngine(campaigns), nil
}

// accumulate folds rounded per-night totals into stay totals. Totals sum the
// already-rounded daily figures, so the final total equals the breakdown sum
// exactly, with one more rounding pass at the stay boundary.
func (a Aggregator) accumulate(result *StayResult) {
	for _, entry := range result.Daily {
		result.Total = result.Total.Add(entry.Price)
		result.OriginalTotal = result.OriginalTotal.Add(entry.OriginalPrice)
		result.TotalDiscount = result.TotalDiscount.Add(entry.DiscountAmount.B2C)
	}
	result.Total = result.Total.Round2()
	result.OriginalTotal = result.OriginalTotal.Round2()
	result.TotalDiscount = money.Round2(result.TotalDiscount)
	if result.Nights > 0 {
		result.AvgPerNight = result.Total.DivInt(result.Nights).Round2()
	}
	result.DiscountText = DiscountText(result.AppliedCampaigns)
}

func capacityIssue(roomType *RoomType, occ Occupancy, checkIn time.Time) *Issue {
	if roomType == nil {
		return &Issue{Type: IssueCapacity, Date: checkIn, Message: "room type is not configured"}
	}
	if roomType.MinAdults > 0 && occ.Adults < roomType.MinAdults {
		return &Issue{Type: IssueCapacity, Date: checkIn, Message: "BELOW_MIN_ADULTS"}
	}
	if roomType.MaxOccupancy > 0 && occ.Total() > roomType.MaxOccupancy {
		return &Issue{Type: IssueCapacity, Date: checkIn, Message: "occupancy exceeds room capacity"}
	}
	return nil
}
