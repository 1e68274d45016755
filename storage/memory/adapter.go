package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sig-0/currconv/storage/types"
)

type Storage struct {
	now func() time.Time

	data   []types.Conversion
	nextID int64

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		now:    time.Now,
		data:   make([]types.Conversion, 0),
		nextID: 1,
	}
}

func (s *Storage) SaveConversion(_ context.Context, c *types.Conversion) error {
	if c.Date.IsZero() {
		c.Date = s.now()
	}

	c.Date = types.Today(c.Date)

	s.mu.Lock()
	c.ID = s.nextID
	s.nextID++
	s.data = append(s.data, *c)
	s.mu.Unlock()

	return nil
}

func (s *Storage) ListConversions(_ context.Context) ([]*types.Conversion, error) {
	s.mu.RLock()

	out := make([]*types.Conversion, 0, len(s.data))
	for _, v := range s.data {
		cp := v
		out = append(out, &cp)
	}

	s.mu.RUnlock()

	// data is kept in insertion order, the stable sort preserves it per date
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	return out, nil
}
