package server

import "github.com/sig-0/currconv/storage/types"

// Conversion is a stored conversion, with its date as YYYY-MM-DD
type Conversion struct {
	From            types.Currency `json:"from_currency"`
	To              types.Currency `json:"to_currency"`
	Date            string         `json:"conversion_date"`
	ID              int64          `json:"id"`
	Amount          float64        `json:"amount"`
	ConvertedAmount float64        `json:"converted_amount"`
}

type ConversionsResponse struct {
	Results []Conversion `json:"results"`
	Total   int          `json:"total"`
}

type RateResponse struct {
	Base   types.Currency `json:"base"`
	Target types.Currency `json:"target"`
	Rate   float64        `json:"rate"`
}

type HistoricalPoint struct {
	Rate *float64 `json:"rate"`
	Date string   `json:"date"`
}

type HistoryResponse struct {
	Base    types.Currency    `json:"base"`
	Target  types.Currency    `json:"target"`
	Results []HistoricalPoint `json:"results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
