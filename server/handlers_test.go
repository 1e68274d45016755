package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/currconv/provider/currencies"
	providerMock "github.com/sig-0/currconv/provider/mock"
	"github.com/sig-0/currconv/storage/mock"
	"github.com/sig-0/currconv/storage/types"
)

func TestHandlers_Conversions(t *testing.T) {
	t.Parallel()

	conversions := func(n int) []*types.Conversion {
		items := make([]*types.Conversion, 0, n)

		for i := 0; i < n; i++ {
			items = append(items, &types.Conversion{
				ID:              int64(i + 1),
				Amount:          100,
				From:            currencies.USD,
				To:              currencies.EUR,
				ConvertedAmount: 90,
				Date:            time.Date(2026, time.October, 18-i, 0, 0, 0, 0, time.UTC),
			})
		}

		return items
	}

	t.Run("storage error", func(t *testing.T) {
		t.Parallel()

		storage := &mock.Storage{
			ListConversionsFn: func(_ context.Context) ([]*types.Conversion, error) {
				return nil, errors.New("boom")
			},
		}

		s := &Server{
			storage: storage,
			logger:  noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/conversions", http.NoBody)

		w := httptest.NewRecorder()
		s.Conversions(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp ErrorResponse

		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, errUnableToFetchConversions.Error(), resp.Error)
	})

	t.Run("invalid limit", func(t *testing.T) {
		t.Parallel()

		var called bool

		storage := &mock.Storage{
			ListConversionsFn: func(_ context.Context) ([]*types.Conversion, error) {
				called = true

				return nil, nil
			},
		}

		s := &Server{
			storage: storage,
			logger:  noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/conversions?limit=nope", http.NoBody)

		w := httptest.NewRecorder()
		s.Conversions(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, called)
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		storage := &mock.Storage{
			ListConversionsFn: func(_ context.Context) ([]*types.Conversion, error) {
				return conversions(3), nil
			},
		}

		s := &Server{
			storage: storage,
			logger:  noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/conversions", http.NoBody)

		w := httptest.NewRecorder()
		s.Conversions(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp ConversionsResponse

		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp.Results, 3)
		assert.Equal(t, 3, resp.Total)

		assert.Equal(t, Conversion{
			ID:              1,
			Amount:          100,
			From:            currencies.USD,
			To:              currencies.EUR,
			ConvertedAmount: 90,
			Date:            "2026-10-18",
		}, resp.Results[0])
	})

	t.Run("paginated", func(t *testing.T) {
		t.Parallel()

		storage := &mock.Storage{
			ListConversionsFn: func(_ context.Context) ([]*types.Conversion, error) {
				return conversions(5), nil
			},
		}

		s := &Server{
			storage: storage,
			logger:  noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/conversions?limit=2&offset=3", http.NoBody)

		w := httptest.NewRecorder()
		s.Conversions(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp ConversionsResponse

		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp.Results, 2)
		assert.Equal(t, 5, resp.Total)
		assert.Equal(t, int64(4), resp.Results[0].ID)
		assert.Equal(t, int64(5), resp.Results[1].ID)
	})

	t.Run("offset past the end", func(t *testing.T) {
		t.Parallel()

		storage := &mock.Storage{
			ListConversionsFn: func(_ context.Context) ([]*types.Conversion, error) {
				return conversions(2), nil
			},
		}

		s := &Server{
			storage: storage,
			logger:  noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/conversions?offset=10", http.NoBody)

		w := httptest.NewRecorder()
		s.Conversions(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp ConversionsResponse

		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Empty(t, resp.Results)
		assert.Equal(t, 2, resp.Total)
	})
}

func TestHandlers_LiveRate(t *testing.T) {
	t.Parallel()

	t.Run("invalid base", func(t *testing.T) {
		t.Parallel()

		var called bool

		p := &providerMock.Provider{
			LiveRateFn: func(_ context.Context, _, _ types.Currency) (float64, error) {
				called = true

				return 0, nil
			},
		}

		s := &Server{
			provider: p,
			logger:   noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/rates/US/EUR", http.NoBody)
		req = withRouteParams(t, req, map[string]string{
			"base":   "US",
			"target": currencies.EUR.String(),
		})

		w := httptest.NewRecorder()
		s.LiveRate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, called)
	})

	t.Run("provider error", func(t *testing.T) {
		t.Parallel()

		p := &providerMock.Provider{
			LiveRateFn: func(_ context.Context, _, _ types.Currency) (float64, error) {
				return 0, errors.New("unexpected status code: 404")
			},
		}

		s := &Server{
			provider: p,
			logger:   noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/rates/USD/XYZ", http.NoBody)
		req = withRouteParams(t, req, map[string]string{
			"base":   currencies.USD.String(),
			"target": "XYZ",
		})

		w := httptest.NewRecorder()
		s.LiveRate(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		var capturedFrom, capturedTo types.Currency

		p := &providerMock.Provider{
			LiveRateFn: func(_ context.Context, from, to types.Currency) (float64, error) {
				capturedFrom, capturedTo = from, to

				return 0.9, nil
			},
		}

		s := &Server{
			provider: p,
			logger:   noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/rates/usd/eur", http.NoBody)
		req = withRouteParams(t, req, map[string]string{
			"base":   "usd",
			"target": "eur",
		})

		w := httptest.NewRecorder()
		s.LiveRate(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp RateResponse

		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

		assert.Equal(t, RateResponse{
			Base:   currencies.USD,
			Target: currencies.EUR,
			Rate:   0.9,
		}, resp)

		assert.Equal(t, currencies.USD, capturedFrom)
		assert.Equal(t, currencies.EUR, capturedTo)
	})
}

func TestHandlers_HistoricalRates(t *testing.T) {
	t.Parallel()

	t.Run("invalid target", func(t *testing.T) {
		t.Parallel()

		s := &Server{
			provider: &providerMock.Provider{},
			logger:   noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/rates/USD/E1R/history", http.NoBody)
		req = withRouteParams(t, req, map[string]string{
			"base":   currencies.USD.String(),
			"target": "E1R",
		})

		w := httptest.NewRecorder()
		s.HistoricalRates(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success with missing days", func(t *testing.T) {
		t.Parallel()

		rate := 0.91

		p := &providerMock.Provider{
			HistoricalRatesFn: func(_ context.Context, _, _ types.Currency) []types.HistoricalRate {
				return []types.HistoricalRate{
					{
						Date: time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC),
						Rate: &rate,
					},
					{
						Date: time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC),
					},
				}
			},
		}

		s := &Server{
			provider: p,
			logger:   noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/rates/USD/EUR/history", http.NoBody)
		req = withRouteParams(t, req, map[string]string{
			"base":   currencies.USD.String(),
			"target": currencies.EUR.String(),
		})

		w := httptest.NewRecorder()
		s.HistoricalRates(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp HistoryResponse

		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp.Results, 2)

		assert.Equal(t, currencies.USD, resp.Base)
		assert.Equal(t, currencies.EUR, resp.Target)

		assert.Equal(t, "2026-10-17", resp.Results[0].Date)
		require.NotNil(t, resp.Results[0].Rate)
		assert.Equal(t, 0.91, *resp.Results[0].Rate)

		assert.Equal(t, "2026-10-16", resp.Results[1].Date)
		assert.Nil(t, resp.Results[1].Rate)
	})
}

func TestUtils_ParseLimitOffset(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		limit, offset, err := parseLimitOffset("", "")

		require.NoError(t, err)
		assert.Equal(t, 100, limit)
		assert.Equal(t, 0, offset)
	})

	t.Run("clamps limit", func(t *testing.T) {
		t.Parallel()

		limit, offset, err := parseLimitOffset("999", "5")

		require.NoError(t, err)
		assert.Equal(t, 500, limit)
		assert.Equal(t, 5, offset)
	})

	t.Run("invalid limit", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseLimitOffset("nope", "0")

		assert.ErrorIs(t, err, errInvalidLimit)
	})

	t.Run("negative offset", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseLimitOffset("10", "-1")

		assert.ErrorIs(t, err, errInvalidOffset)
	})
}

func withRouteParams(t *testing.T, req *http.Request, params map[string]string) *http.Request {
	t.Helper()

	rctx := chi.NewRouteContext()

	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}

	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
