package pricing

import (
	"github.com/shopspring/decimal"

	"frontdesk/internal/domain/shared/money"
)

// RelativePrice derives a concrete nightly price from a base rate cell and
// two percentage adjustments: the room-type adjustment is applied and rounded
// first, then the meal-plan adjustment on top. The order and the intermediate
// rounding are contractual; reordering changes published prices.
func RelativePrice(base, roomAdjPct, mealAdjPct decimal.Decimal) decimal.Decimal {
	withRoom := money.Round2(money.AdjustPercent(base, roomAdjPct))
	return money.Round2(money.AdjustPercent(withRoom, mealAdjPct))
}

// RelativeTierPrices derives all three tier bases from one base cell using
// the same adjustment pair.
func RelativeTierPrices(base TierAmounts, roomAdjPct, mealAdjPct decimal.Decimal) TierAmounts {
	return TierAmounts{
		HotelCost: RelativePrice(base.HotelCost, roomAdjPct, mealAdjPct),
		B2C:       RelativePrice(base.B2C, roomAdjPct, mealAdjPct),
		B2B:       RelativePrice(base.B2B, roomAdjPct, mealAdjPct),
	}
}
