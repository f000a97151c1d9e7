package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRelativePrice(t *testing.T) {
	cases := []struct {
		name    string
		base    string
		roomAdj string
		mealAdj string
		want    string
	}{
		{"no adjustments", "1000", "0", "0", "1000"},
		{"room then meal", "1000", "10", "5", "1155"},
		{"negative room adjustment", "200", "-15", "0", "170"},
		// 99.95 * 1.10 = 109.945 rounds half-up to 109.95 before the meal
		// step; 109.95 * 1.10 = 120.945 -> 120.95. Skipping the room-step
		// rounding would land on 120.94.
		{"intermediate rounding", "99.95", "10", "10", "120.95"},
		{"zero base", "0", "25", "10", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RelativePrice(dec(tc.base), dec(tc.roomAdj), dec(tc.mealAdj))
			if !got.Equal(dec(tc.want)) {
				t.Errorf("RelativePrice(%s, %s%%, %s%%) = %s, want %s",
					tc.base, tc.roomAdj, tc.mealAdj, got, tc.want)
			}
		})
	}
}

func TestRelativeTierPricesAdjustsEachTierIndependently(t *testing.T) {
	base := TierAmounts{HotelCost: dec("80"), B2C: dec("100"), B2B: dec("90")}
	got := RelativeTierPrices(base, dec("10"), dec("0"))
	if !got.HotelCost.Equal(dec("88")) {
		t.Errorf("hotel cost = %s, want 88", got.HotelCost)
	}
	if !got.B2C.Equal(dec("110")) {
		t.Errorf("b2c = %s, want 110", got.B2C)
	}
	if !got.B2B.Equal(dec("99")) {
		t.Errorf("b2b = %s, want 99", got.B2B)
	}
}
