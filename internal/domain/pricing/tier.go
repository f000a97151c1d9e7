package pricing

import (
	"github.com/shopspring/decimal"

	"frontdesk/internal/domain/shared/money"
)

// Tier identifies one of the three parallel price points carried for every
// night: the hotel's contracted cost, the consumer sell price and the agency
// sell price.
type Tier string

const (
	TierHotelCost Tier = "hotel_cost"
	TierB2C       Tier = "b2c"
	TierB2B       Tier = "b2b"
)

// Tiers lists all price tiers in canonical order.
func Tiers() []Tier {
	return []Tier{TierHotelCost, TierB2C, TierB2B}
}

// SellTiers lists the tiers campaigns discount. Contracted cost is untouched
// by promotions.
func SellTiers() []Tier {
	return []Tier{TierB2C, TierB2B}
}

// TierAmounts holds one monetary figure per tier.
type TierAmounts struct {
	HotelCost decimal.Decimal `json:"hotelCost"`
	B2C       decimal.Decimal `json:"b2cPrice"`
	B2B       decimal.Decimal `json:"b2bPrice"`
}

func (a TierAmounts) Get(t Tier) decimal.Decimal {
	switch t {
	case TierHotelCost:
		return a.HotelCost
	case TierB2B:
		return a.B2B
	default:
		return a.B2C
	}
}

func (a *TierAmounts) Set(t Tier, v decimal.Decimal) {
	switch t {
	case TierHotelCost:
		a.HotelCost = v
	case TierB2B:
		a.B2B = v
	default:
		a.B2C = v
	}
}

// Add returns the element-wise sum of two tier amounts.
func (a TierAmounts) Add(other TierAmounts) TierAmounts {
	return TierAmounts{
		HotelCost: a.HotelCost.Add(other.HotelCost),
		B2C:       a.B2C.Add(other.B2C),
		B2B:       a.B2B.Add(other.B2B),
	}
}

// Round2 rounds every tier to two decimal places.
func (a TierAmounts) Round2() TierAmounts {
	return TierAmounts{
		HotelCost: money.Round2(a.HotelCost),
		B2C:       money.Round2(a.B2C),
		B2B:       money.Round2(a.B2B),
	}
}

// DivInt divides every tier by n at full precision.
func (a TierAmounts) DivInt(n int) TierAmounts {
	if n == 0 {
		return TierAmounts{}
	}
	d := decimal.NewFromInt(int64(n))
	return TierAmounts{
		HotelCost: a.HotelCost.Div(d),
		B2C:       a.B2C.Div(d),
		B2B:       a.B2B.Div(d),
	}
}

func (a TierAmounts) IsZero() bool {
	return a.HotelCost.IsZero() && a.B2C.IsZero() && a.B2B.IsZero()
}
