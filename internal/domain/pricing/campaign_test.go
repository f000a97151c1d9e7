package pricing

import (
	"testing"
	"time"
)

func pricedEntry(b2c string) DailyEntry {
	amounts := TierAmounts{HotelCost: dec("80"), B2C: dec(b2c), B2B: dec(b2c)}
	return DailyEntry{
		Date:          date(2026, time.March, 10),
		HasRate:       true,
		OriginalPrice: amounts,
		Price:         amounts,
	}
}

func stayFor(nights int) StayContext {
	return StayContext{
		MarketID: "uk",
		CheckIn:  date(2026, time.March, 10),
		Nights:   nights,
		BookedAt: date(2026, time.February, 1),
	}
}

func TestEnginePercentDiscount(t *testing.T) {
	engine := NewEngine([]Campaign{
		{ID: "c1", Name: "Early Bird", Kind: CampaignPercent, Value: dec("10")},
	})
	entry := pricedEntry("200")
	applied := engine.Apply(&entry, stayFor(3))

	if len(applied) != 1 {
		t.Fatalf("applied %d campaigns, want 1", len(applied))
	}
	if !entry.Price.B2C.Equal(dec("180")) {
		t.Errorf("b2c after discount = %s, want 180", entry.Price.B2C)
	}
	if !entry.Price.HotelCost.Equal(dec("80")) {
		t.Errorf("hotel cost = %s, want untouched 80", entry.Price.HotelCost)
	}
	if !entry.DiscountAmount.B2C.Equal(dec("20")) {
		t.Errorf("discount amount = %s, want 20", entry.DiscountAmount.B2C)
	}
	if !applied[0].Discount.Equal(dec("20")) {
		t.Errorf("recorded discount = %s, want 20", applied[0].Discount)
	}
	if !entry.DiscountApplied {
		t.Error("DiscountApplied = false")
	}
}

func TestEngineAmountDiscountClampsToNightlyPrice(t *testing.T) {
	engine := NewEngine([]Campaign{
		{ID: "c1", Name: "Voucher", Kind: CampaignAmount, Value: dec("250")},
	})
	entry := pricedEntry("200")
	engine.Apply(&entry, stayFor(3))

	if !entry.Price.B2C.Equal(dec("0")) {
		t.Errorf("b2c = %s, want 0 (clamped, never negative)", entry.Price.B2C)
	}
	if !entry.DiscountAmount.B2C.Equal(dec("200")) {
		t.Errorf("discount amount = %s, want the clamped 200", entry.DiscountAmount.B2C)
	}
}

func TestEngineFreeNightZeroesSellTiersOnly(t *testing.T) {
	engine := NewEngine([]Campaign{
		{ID: "c1", Name: "Stay 7 Pay 6", Kind: CampaignFreeNight},
	})
	entry := pricedEntry("200")
	applied := engine.Apply(&entry, stayFor(7))

	if !entry.IsFreeNight {
		t.Error("IsFreeNight = false")
	}
	if !entry.Price.B2C.IsZero() || !entry.Price.B2B.IsZero() {
		t.Errorf("sell tiers = %s/%s, want 0/0", entry.Price.B2C, entry.Price.B2B)
	}
	if !entry.Price.HotelCost.Equal(dec("80")) {
		t.Errorf("hotel cost = %s, want untouched 80", entry.Price.HotelCost)
	}
	if !entry.OriginalPrice.B2C.Equal(dec("200")) {
		t.Errorf("original price = %s, want retained 200", entry.OriginalPrice.B2C)
	}
	if !applied[0].Discount.Equal(dec("200")) {
		t.Errorf("recorded discount = %s, want the pre-zero 200", applied[0].Discount)
	}
}

func TestEnginePriorityOrderAndCombinability(t *testing.T) {
	t.Run("combinable campaigns stack in priority order", func(t *testing.T) {
		engine := NewEngine([]Campaign{
			{ID: "second", Name: "Extra 10", Kind: CampaignPercent, Value: dec("10"), Priority: 2, Combinable: true},
			{ID: "first", Name: "Base 20", Kind: CampaignPercent, Value: dec("20"), Priority: 1, Combinable: true},
		})
		entry := pricedEntry("100")
		applied := engine.Apply(&entry, stayFor(3))

		if len(applied) != 2 {
			t.Fatalf("applied %d campaigns, want 2", len(applied))
		}
		if applied[0].CampaignID != "first" || applied[1].CampaignID != "second" {
			t.Errorf("order = %s, %s; want first, second", applied[0].CampaignID, applied[1].CampaignID)
		}
		// 100 - 20% = 80, then 80 - 10% = 72: sequential, not additive.
		if !entry.Price.B2C.Equal(dec("72")) {
			t.Errorf("b2c = %s, want 72", entry.Price.B2C)
		}
	})

	t.Run("non-combinable campaign wins the night and stops evaluation", func(t *testing.T) {
		engine := NewEngine([]Campaign{
			{ID: "exclusive", Name: "Flash", Kind: CampaignPercent, Value: dec("30"), Priority: 1, Combinable: false},
			{ID: "skipped", Name: "Extra", Kind: CampaignPercent, Value: dec("10"), Priority: 2, Combinable: true},
		})
		entry := pricedEntry("100")
		applied := engine.Apply(&entry, stayFor(3))

		if len(applied) != 1 {
			t.Fatalf("applied %d campaigns, want only the exclusive one", len(applied))
		}
		if applied[0].CampaignID != "exclusive" {
			t.Errorf("applied %s, want exclusive", applied[0].CampaignID)
		}
		if !entry.Price.B2C.Equal(dec("70")) {
			t.Errorf("b2c = %s, want 70", entry.Price.B2C)
		}
	})
}

func TestEngineEligibility(t *testing.T) {
	night := date(2026, time.March, 10)
	base := Campaign{ID: "c1", Name: "Promo", Kind: CampaignPercent, Value: dec("10")}

	cases := []struct {
		name     string
		mutate   func(*Campaign)
		stay     StayContext
		eligible bool
	}{
		{
			name:     "inside validity window",
			mutate:   func(c *Campaign) { c.ValidFrom = date(2026, time.March, 1); c.ValidTo = date(2026, time.March, 31) },
			stay:     stayFor(3),
			eligible: true,
		},
		{
			name:     "night before validity",
			mutate:   func(c *Campaign) { c.ValidFrom = date(2026, time.March, 15) },
			stay:     stayFor(3),
			eligible: false,
		},
		{
			name:     "night after validity",
			mutate:   func(c *Campaign) { c.ValidTo = date(2026, time.March, 5) },
			stay:     stayFor(3),
			eligible: false,
		},
		{
			name:     "stay shorter than minimum nights",
			mutate:   func(c *Campaign) { c.MinNights = 5 },
			stay:     stayFor(3),
			eligible: false,
		},
		{
			name:     "booked too late for the advance window",
			mutate:   func(c *Campaign) { c.MinAdvanceDays = 60 },
			stay:     stayFor(3),
			eligible: false,
		},
		{
			name:     "market not listed",
			mutate:   func(c *Campaign) { c.Markets = []string{"de", "fr"} },
			stay:     stayFor(3),
			eligible: false,
		},
		{
			name:     "market listed",
			mutate:   func(c *Campaign) { c.Markets = []string{"de", "uk"} },
			stay:     stayFor(3),
			eligible: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)
			engine := NewEngine([]Campaign{c})
			entry := pricedEntry("100")
			entry.Date = night
			applied := engine.Apply(&entry, tc.stay)
			if got := len(applied) == 1; got != tc.eligible {
				t.Errorf("applied = %v, want eligible = %v", got, tc.eligible)
			}
		})
	}
}

func TestDiscountText(t *testing.T) {
	applied := []AppliedCampaign{
		{Name: "Early Bird"},
		{Name: "Early Bird"},
		{Name: "Stay 7 Pay 6"},
	}
	if got := DiscountText(applied); got != "Early Bird, Stay 7 Pay 6" {
		t.Errorf("DiscountText = %q", got)
	}
	if got := DiscountText(nil); got != "" {
		t.Errorf("DiscountText(nil) = %q, want empty", got)
	}
}
