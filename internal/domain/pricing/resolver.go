package pricing

import (
	"context"
	"errors"
)

// ResolvedRate is the tagged outcome of a rate lookup. Found distinguishes
// "no rate configured" from "rate exists but restricted" — callers must not
// conflate the two, they produce different issue types.
type ResolvedRate struct {
	Rate  *Rate
	Found bool
}

// Resolver looks up the applicable contracted rate for a single
// room-type/meal-plan/date. Market-specific contracts take priority; the
// hotel-wide default applies only when no market contract covers the date.
// Resolution is a pure lookup with no side effects.
type Resolver struct {
	Rates RateStore
}

func (r Resolver) Resolve(ctx context.Context, key RateKey) (ResolvedRate, error) {
	if r.Rates == nil {
		return ResolvedRate{}, errors.New("pricing: resolver missing rate store")
	}
	if key.MarketID != "" {
		rate, err := r.Rates.RateFor(ctx, key)
		if err == nil {
			return ResolvedRate{Rate: rate, Found: true}, nil
		}
		if !errors.Is(err, ErrRateNotFound) {
			return ResolvedRate{}, err
		}
	}
	fallback := key
	fallback.MarketID = ""
	rate, err := r.Rates.RateFor(ctx, fallback)
	if err != nil {
		if errors.Is(err, ErrRateNotFound) {
			return ResolvedRate{Found: false}, nil
		}
		return ResolvedRate{}, err
	}
	return ResolvedRate{Rate: rate, Found: true}, nil
}
