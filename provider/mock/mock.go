package mock

import (
	"context"

	"github.com/sig-0/currconv/storage/types"
)

type (
	LiveRateDelegate        func(context.Context, types.Currency, types.Currency) (float64, error)
	HistoricalRatesDelegate func(context.Context, types.Currency, types.Currency) []types.HistoricalRate
)

type Provider struct {
	LiveRateFn        LiveRateDelegate
	HistoricalRatesFn HistoricalRatesDelegate
}

func (m *Provider) LiveRate(ctx context.Context, from, to types.Currency) (float64, error) {
	if m.LiveRateFn != nil {
		return m.LiveRateFn(ctx, from, to)
	}

	return 0, nil
}

func (m *Provider) HistoricalRates(ctx context.Context, from, to types.Currency) []types.HistoricalRate {
	if m.HistoricalRatesFn != nil {
		return m.HistoricalRatesFn(ctx, from, to)
	}

	return nil
}
