package pricing

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"frontdesk/internal/domain/shared/money"
)

// CampaignKind is the promotional effect a campaign applies to a night.
type CampaignKind string

const (
	CampaignPercent   CampaignKind = "percent"
	CampaignAmount    CampaignKind = "amount"
	CampaignFreeNight CampaignKind = "free_night"
)

// Campaign is a promotional rule from hotel configuration. Eligibility is
// evaluated by the engine, never by callers; an ineligible campaign is
// silently skipped rather than raised as an issue.
type Campaign struct {
	ID         string
	Name       string
	Kind       CampaignKind
	Value      decimal.Decimal
	Priority   int
	Combinable bool

	ValidFrom      time.Time
	ValidTo        time.Time
	MinNights      int
	MinAdvanceDays int
	Markets        []string
}

// StayContext is the stay-level data campaign eligibility depends on.
type StayContext struct {
	MarketID string
	CheckIn  time.Time
	Nights   int
	BookedAt time.Time
}

func (c Campaign) eligible(date time.Time, stay StayContext) bool {
	if !c.ValidFrom.IsZero() && date.Before(c.ValidFrom) {
		return false
	}
	if !c.ValidTo.IsZero() && date.After(c.ValidTo) {
		return false
	}
	if c.MinNights > 0 && stay.Nights < c.MinNights {
		return false
	}
	if c.MinAdvanceDays > 0 {
		advance := int(stay.CheckIn.Sub(stay.BookedAt).Hours() / 24)
		if advance < c.MinAdvanceDays {
			return false
		}
	}
	if len(c.Markets) > 0 {
		found := false
		for _, m := range c.Markets {
			if m == stay.MarketID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// CampaignStore reads the active campaigns for a hotel.
type CampaignStore interface {
	ActiveCampaigns(ctx context.Context, hotelID string) ([]Campaign, error)
}

// AppliedCampaign records one campaign's effect on one night.
type AppliedCampaign struct {
	CampaignID string          `json:"campaignId"`
	Name       string          `json:"name"`
	Date       time.Time       `json:"date"`
	Discount   decimal.Decimal `json:"discount"`
	FreeNight  bool            `json:"freeNight"`
}

// Engine applies campaigns to a priced night. Campaigns run in priority
// order; combinable campaigns stack while the first matching non-combinable
// one wins the night outright and stops evaluation.
type Engine struct {
	Campaigns []Campaign
}

func NewEngine(campaigns []Campaign) Engine {
	sorted := append([]Campaign(nil), campaigns...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })
	return Engine{Campaigns: sorted}
}

// Apply mutates the entry's chargeable price and discount bookkeeping and
// returns the campaigns that landed on the night.
func (e Engine) Apply(entry *DailyEntry, stay StayContext) []AppliedCampaign {
	var applied []AppliedCampaign
	for _, c := range e.Campaigns {
		if !c.eligible(entry.Date, stay) {
			continue
		}
		record := e.applyOne(entry, c)
		applied = append(applied, record)
		if !c.Combinable {
			break
		}
	}
	return applied
}

func (e Engine) applyOne(entry *DailyEntry, c Campaign) AppliedCampaign {
	record := AppliedCampaign{CampaignID: c.ID, Name: c.Name, Date: entry.Date}
	switch c.Kind {
	case CampaignFreeNight:
		// The original price is retained for reporting; only the chargeable
		// sell amounts drop to zero.
		record.FreeNight = true
		record.Discount = entry.Price.B2C
		entry.IsFreeNight = true
		for _, tier := range SellTiers() {
			current := entry.Price.Get(tier)
			entry.DiscountAmount.Set(tier, entry.DiscountAmount.Get(tier).Add(current))
			entry.Price.Set(tier, money.Zero)
		}
	case CampaignAmount:
		record.Discount = c.Value
		for _, tier := range SellTiers() {
			current := entry.Price.Get(tier)
			cut := c.Value
			if cut.GreaterThan(current) {
				cut = current
			}
			entry.DiscountAmount.Set(tier, entry.DiscountAmount.Get(tier).Add(cut))
			entry.Price.Set(tier, money.Round2(current.Sub(cut)))
		}
	default: // percent
		record.Discount = money.Round2(money.Percent(entry.Price.B2C, c.Value))
		for _, tier := range SellTiers() {
			current := entry.Price.Get(tier)
			cut := money.Round2(money.Percent(current, c.Value))
			entry.DiscountAmount.Set(tier, entry.DiscountAmount.Get(tier).Add(cut))
			entry.Price.Set(tier, money.Round2(current.Sub(cut)))
		}
	}
	entry.DiscountApplied = true
	entry.CampaignIDs = append(entry.CampaignIDs, c.ID)
	return record
}

// DiscountText concatenates the distinct campaign names for display.
func DiscountText(applied []AppliedCampaign) string {
	seen := make(map[string]struct{}, len(applied))
	var names []string
	for _, a := range applied {
		if _, ok := seen[a.Name]; ok {
			continue
		}
		seen[a.Name] = struct{}{}
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}
