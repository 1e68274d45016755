package currencies

import "github.com/sig-0/currconv/storage/types"

var (
	USD types.Currency = "USD"
	EUR types.Currency = "EUR"
	GBP types.Currency = "GBP"
	JPY types.Currency = "JPY"
	CHF types.Currency = "CHF"
	CNY types.Currency = "CNY"
	INR types.Currency = "INR"
)
