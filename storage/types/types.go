package types

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidCurrencyLength = errors.New("invalid currency (must be 3 letters)")
	ErrInvalidCurrencyChars  = errors.New("invalid currency (must be A-Z)")
)

// DateLayout is the calendar date format used for stored and queried dates
const DateLayout = time.DateOnly

type Currency string

func (c Currency) String() string {
	return string(c)
}

// ParseCurrency normalizes and validates a 3-letter currency code
func ParseCurrency(v string) (Currency, error) {
	s := strings.ToUpper(strings.TrimSpace(v))
	if len(s) != 3 {
		return "", ErrInvalidCurrencyLength
	}

	for i := 0; i < 3; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return "", ErrInvalidCurrencyChars
		}
	}

	return Currency(s), nil
}

type Pair struct {
	Base   Currency `json:"base"`
	Target Currency `json:"target"`
}

// Conversion is a single stored currency conversion
type Conversion struct {
	Date            time.Time `json:"conversion_date"`
	From            Currency  `json:"from_currency"`
	To              Currency  `json:"to_currency"`
	ID              int64     `json:"id"`
	Amount          float64   `json:"amount"`
	ConvertedAmount float64   `json:"converted_amount"`
}

// HistoricalRate is the rate for a single past calendar date.
// Rate is nil when the provider had no data for the date
type HistoricalRate struct {
	Date time.Time `json:"date"`
	Rate *float64  `json:"rate"`
}

// Today returns the calendar date (midnight, same location) of t
func Today(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
