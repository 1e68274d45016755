package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sig-0/currconv/storage/types"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

var (
	errUnableToFetchConversions = errors.New("unable to fetch conversions")
	errUnableToFetchRate        = errors.New("unable to fetch rate")

	errInvalidLimit  = errors.New("invalid limit")
	errInvalidOffset = errors.New("invalid offset")
)

// Conversions lists the stored conversions, newest first
func (s *Server) Conversions(w http.ResponseWriter, r *http.Request) {
	var (
		limitParam  = r.URL.Query().Get("limit")
		offsetParam = r.URL.Query().Get("offset")
	)

	// Parse the pagination settings
	limit, offset, err := parseLimitOffset(limitParam, offsetParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	items, err := s.storage.ListConversions(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch conversions",
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchConversions,
		)

		return
	}

	resp := &ConversionsResponse{
		Results: make([]Conversion, 0, limit),
		Total:   len(items),
	}

	if offset < len(items) {
		end := min(offset+limit, len(items))

		for _, item := range items[offset:end] {
			resp.Results = append(resp.Results, Conversion{
				ID:              item.ID,
				Amount:          item.Amount,
				From:            item.From,
				To:              item.To,
				ConvertedAmount: item.ConvertedAmount,
				Date:            item.Date.Format(types.DateLayout),
			})
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// LiveRate returns the live rate for the pair, served from the rate cache when fresh
func (s *Server) LiveRate(w http.ResponseWriter, r *http.Request) {
	base, target, err := parsePair(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	rate, err := s.provider.LiveRate(r.Context(), base, target)
	if err != nil {
		s.logger.Debug(
			"unable to fetch rate",
			"base", base,
			"target", target,
			"err", err,
		)

		writeError(
			w,
			http.StatusBadGateway,
			errUnableToFetchRate,
		)

		return
	}

	writeJSON(w, http.StatusOK, &RateResponse{
		Base:   base,
		Target: target,
		Rate:   rate,
	})
}

// HistoricalRates returns the past daily rates for the pair, newest first.
// Days the provider had no data for carry a null rate
func (s *Server) HistoricalRates(w http.ResponseWriter, r *http.Request) {
	base, target, err := parsePair(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	points := s.provider.HistoricalRates(r.Context(), base, target)

	resp := &HistoryResponse{
		Base:    base,
		Target:  target,
		Results: make([]HistoricalPoint, 0, len(points)),
	}

	for _, point := range points {
		resp.Results = append(resp.Results, HistoricalPoint{
			Date: point.Date.Format(types.DateLayout),
			Rate: point.Rate,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func parsePair(r *http.Request) (types.Currency, types.Currency, error) {
	var (
		baseParam   = chi.URLParam(r, "base")
		targetParam = chi.URLParam(r, "target")
	)

	// Parse the base currency
	base, err := types.ParseCurrency(baseParam)
	if err != nil {
		return "", "", err
	}

	// Parse the target currency
	target, err := types.ParseCurrency(targetParam)
	if err != nil {
		return "", "", err
	}

	return base, target, nil
}

func parseLimitOffset(limitRaw, offsetRaw string) (int, int, error) {
	limit := defaultLimit

	if v := strings.TrimSpace(limitRaw); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, errInvalidLimit
		}

		limit = n
	}

	if limit == 0 {
		limit = defaultLimit
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	var offset int

	if v := strings.TrimSpace(offsetRaw); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, errInvalidOffset
		}

		offset = n
	}

	return limit, offset, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}
