package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/currconv/provider/currencies"
	"github.com/sig-0/currconv/storage/types"
)

func TestStorage_SaveConversion(t *testing.T) {
	t.Parallel()

	t.Run("assigns monotonic ids", func(t *testing.T) {
		t.Parallel()

		s := NewStorage()

		first := &types.Conversion{Amount: 1, From: currencies.USD, To: currencies.EUR}
		second := &types.Conversion{Amount: 2, From: currencies.USD, To: currencies.EUR}

		require.NoError(t, s.SaveConversion(context.Background(), first))
		require.NoError(t, s.SaveConversion(context.Background(), second))

		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, int64(2), second.ID)
	})

	t.Run("defaults to today", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2026, time.October, 18, 15, 4, 5, 0, time.UTC)

		s := NewStorage()
		s.now = func() time.Time {
			return now
		}

		c := &types.Conversion{Amount: 100, From: currencies.USD, To: currencies.EUR, ConvertedAmount: 90}

		require.NoError(t, s.SaveConversion(context.Background(), c))

		assert.Equal(t, time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC), c.Date)
	})
}

func TestStorage_ListConversions(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		items, err := NewStorage().ListConversions(context.Background())
		require.NoError(t, err)

		assert.Empty(t, items)
	})

	t.Run("date descending, insertion order on ties", func(t *testing.T) {
		t.Parallel()

		var (
			s = NewStorage()

			older = time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)
			newer = time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)
		)

		for _, c := range []*types.Conversion{
			{Amount: 1, From: currencies.USD, To: currencies.EUR, Date: older},
			{Amount: 2, From: currencies.USD, To: currencies.EUR, Date: newer},
			{Amount: 3, From: currencies.EUR, To: currencies.USD, Date: older},
			{Amount: 4, From: currencies.EUR, To: currencies.GBP, Date: newer},
		} {
			require.NoError(t, s.SaveConversion(context.Background(), c))
		}

		items, err := s.ListConversions(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 4)

		ids := make([]int64, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ID)
		}

		assert.Equal(t, []int64{2, 4, 1, 3}, ids)
	})

	t.Run("returns copies", func(t *testing.T) {
		t.Parallel()

		s := NewStorage()
		require.NoError(t, s.SaveConversion(context.Background(), &types.Conversion{Amount: 1}))

		items, err := s.ListConversions(context.Background())
		require.NoError(t, err)

		items[0].Amount = 42

		again, err := s.ListConversions(context.Background())
		require.NoError(t, err)

		assert.Equal(t, float64(1), again[0].Amount)
	})
}
