package pricing

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubRateStore struct {
	rates map[string]*Rate
	err   error
	calls []RateKey
}

func rateStoreKey(key RateKey) string {
	return key.MarketID + "|" + key.Date.Format("2006-01-02")
}

func (s *stubRateStore) RateFor(_ context.Context, key RateKey) (*Rate, error) {
	s.calls = append(s.calls, key)
	if s.err != nil {
		return nil, s.err
	}
	rate, ok := s.rates[rateStoreKey(key)]
	if !ok {
		return nil, ErrRateNotFound
	}
	return rate, nil
}

func TestResolverPrefersMarketContract(t *testing.T) {
	night := date(2026, time.March, 10)
	marketRate := testRate(PerRoom)
	marketRate.MarketID = "uk"
	defaultRate := testRate(PerRoom)

	store := &stubRateStore{rates: map[string]*Rate{
		"uk|2026-03-10": marketRate,
		"|2026-03-10":   defaultRate,
	}}
	resolver := Resolver{Rates: store}

	resolved, err := resolver.Resolve(context.Background(), RateKey{HotelID: "h1", MarketID: "uk", Date: night})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !resolved.Found {
		t.Fatal("Found = false")
	}
	if resolved.Rate != marketRate {
		t.Error("resolved the hotel default over the market contract")
	}
	if len(store.calls) != 1 {
		t.Errorf("made %d lookups, want 1 (no fallback probe on a market hit)", len(store.calls))
	}
}

func TestResolverFallsBackToHotelDefault(t *testing.T) {
	night := date(2026, time.March, 10)
	defaultRate := testRate(PerRoom)
	store := &stubRateStore{rates: map[string]*Rate{
		"|2026-03-10": defaultRate,
	}}
	resolver := Resolver{Rates: store}

	resolved, err := resolver.Resolve(context.Background(), RateKey{HotelID: "h1", MarketID: "uk", Date: night})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !resolved.Found || resolved.Rate != defaultRate {
		t.Error("did not fall back to the hotel-wide default contract")
	}
	if len(store.calls) != 2 {
		t.Fatalf("made %d lookups, want 2", len(store.calls))
	}
	if store.calls[1].MarketID != "" {
		t.Errorf("fallback lookup kept market %q, want empty", store.calls[1].MarketID)
	}
}

func TestResolverNoRateIsNotAnError(t *testing.T) {
	store := &stubRateStore{}
	resolver := Resolver{Rates: store}

	resolved, err := resolver.Resolve(context.Background(), RateKey{HotelID: "h1", MarketID: "uk", Date: date(2026, time.March, 10)})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Found {
		t.Error("Found = true for an unconfigured date")
	}
}

func TestResolverPropagatesStoreFailures(t *testing.T) {
	boom := errors.New("connection refused")
	resolver := Resolver{Rates: &stubRateStore{err: boom}}

	_, err := resolver.Resolve(context.Background(), RateKey{HotelID: "h1", MarketID: "uk", Date: date(2026, time.March, 10)})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want the store failure", err)
	}
}

func TestResolverIsIdempotent(t *testing.T) {
	night := date(2026, time.March, 10)
	store := &stubRateStore{rates: map[string]*Rate{
		"|2026-03-10": testRate(PerRoom),
	}}
	resolver := Resolver{Rates: store}
	key := RateKey{HotelID: "h1", Date: night}

	first, err := resolver.Resolve(context.Background(), key)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := resolver.Resolve(context.Background(), key)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first.Rate != second.Rate || first.Found != second.Found {
		t.Error("repeated resolution returned a different outcome")
	}
}
