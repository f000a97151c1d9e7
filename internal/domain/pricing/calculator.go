package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"frontdesk/internal/domain/shared/money"
)

// DailyEntry is one night's resolved price. Entries are never mutated after a
// computation finishes; a re-quote produces a new slice.
type DailyEntry struct {
	Date       time.Time `json:"date"`
	HasRate    bool      `json:"hasRate"`
	IsCheckIn  bool      `json:"isCheckIn"`
	IsCheckOut bool      `json:"isCheckOut"`

	BaseAmount             TierAmounts `json:"baseAmount"`
	ExtraAdultAmount       TierAmounts `json:"extraAdultAmount"`
	ChildAmount            TierAmounts `json:"childAmount"`
	SingleSupplementAmount TierAmounts `json:"singleSupplementAmount"`

	// OriginalPrice is the pre-discount nightly total, Price the chargeable
	// total after campaigns. Both are rounded to two decimals.
	OriginalPrice TierAmounts `json:"originalPrice"`
	Price         TierAmounts `json:"price"`

	HasIssue         bool        `json:"hasIssue"`
	CampaignIDs      []string    `json:"campaignIds,omitempty"`
	DiscountApplied  bool        `json:"discountApplied"`
	DiscountAmount   TierAmounts `json:"discountAmount"`
	IsFreeNight      bool        `json:"isFreeNight"`
}

// ComputeDaily prices one night of a resolved rate for the given guest
// composition. All three tiers run through the same calculation, each with
// its own contracted inputs. A zero-adult occupancy fails closed: the night
// prices to zero and a capacity issue is reported instead of a negative or
// undefined amount.
func ComputeDaily(rate *Rate, occ Occupancy, date time.Time) (DailyEntry, *Issue) {
	entry := DailyEntry{Date: date, HasRate: true}
	if occ.Adults == 0 {
		issue := Issue{Type: IssueCapacity, Date: date, Message: "occupancy must include at least one adult"}
		return entry, &issue
	}

	for _, tier := range Tiers() {
		night := computeTierNight(rate.Tier(tier), rate.Mode, rate.BaseOccupancy, occ)
		entry.BaseAmount.Set(tier, money.Round2(night.base))
		entry.ExtraAdultAmount.Set(tier, money.Round2(night.extra))
		entry.ChildAmount.Set(tier, money.Round2(night.child))
		entry.SingleSupplementAmount.Set(tier, money.Round2(night.single))
		entry.OriginalPrice.Set(tier, money.Round2(night.total()))
	}
	entry.Price = entry.OriginalPrice
	return entry, nil
}

type tierNight struct {
	base   decimal.Decimal
	extra  decimal.Decimal
	child  decimal.Decimal
	single decimal.Decimal
}

func (n tierNight) total() decimal.Decimal {
	return n.base.Add(n.extra).Add(n.child).Add(n.single)
}

func computeTierNight(tp TierPrices, mode PricingMode, baseOccupancy int, occ Occupancy) tierNight {
	if mode == PerPerson {
		return perPersonNight(tp, occ)
	}
	return perRoomNight(tp, baseOccupancy, occ)
}

// perRoomNight: the base price covers the standard occupancy; adults beyond
// it pay the extra-adult rate, children their band rate, and a solo guest
// pays the single supplement on top of the base.
func perRoomNight(tp TierPrices, baseOccupancy int, occ Occupancy) tierNight {
	night := tierNight{base: tp.Base}
	if baseOccupancy <= 0 {
		baseOccupancy = 2
	}
	if extra := occ.Adults - baseOccupancy; extra > 0 {
		night.extra = tp.ExtraAdult.Mul(decimal.NewFromInt(int64(extra)))
	}
	if occ.Adults == 1 && len(occ.ChildAges) == 0 {
		night.single = tp.SingleSupplement
	}
	for _, age := range occ.ChildAges {
		night.child = night.child.Add(childAmount(tp, age, tp.Base))
	}
	return night
}

// perPersonNight (OBP): each adult pays the per-person rate; children weigh
// in through their band rule against the same rate. There is no separate
// single-supplement step in this mode.
func perPersonNight(tp TierPrices, occ Occupancy) tierNight {
	night := tierNight{base: tp.Base.Mul(decimal.NewFromInt(int64(occ.Adults)))}
	for _, age := range occ.ChildAges {
		night.child = night.child.Add(childAmount(tp, age, tp.Base))
	}
	return night
}

// childAmount applies the first matching age band; an unmatched age is
// priced as a full adult reference amount.
func childAmount(tp TierPrices, age int, reference decimal.Decimal) decimal.Decimal {
	for _, band := range tp.ChildBands {
		if age < band.MinAge || age > band.MaxAge {
			continue
		}
		switch band.Rule.Kind {
		case ChildFree:
			return money.Zero
		case ChildPercent:
			return money.Percent(reference, band.Rule.Value)
		case ChildFixed:
			return band.Rule.Value
		}
	}
	return reference
}
