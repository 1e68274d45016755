package provider

import (
	"context"

	"github.com/sig-0/currconv/storage/types"
)

// Provider is a source of live and historical exchange rates
type Provider interface {
	// LiveRate returns the current rate for converting from into to
	LiveRate(ctx context.Context, from, to types.Currency) (float64, error)

	// HistoricalRates returns the rates for the most recent past days, newest first.
	// Days without data are returned with a nil rate
	HistoricalRates(ctx context.Context, from, to types.Currency) []types.HistoricalRate
}
