// Package exchangerate provides the exchangerate-api.com (v6) rate provider.
//
// # Endpoints
//
// Live rates:
//
//	GET {base}/{API_KEY}/latest/{FROM}
//
// Historical rates, queried one calendar day at a time:
//
//	GET {base}/{API_KEY}/history/{FROM}?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
//
// Both respond with a JSON body carrying a "conversion_rates" object keyed by
// target currency code.
//
// # Caching
//
// Live rates are cached per (from, to) pair for DefaultCacheTTL (600s).
// Staleness is checked on read only; nothing runs in the background.
// Historical rates are never cached.
package exchangerate
