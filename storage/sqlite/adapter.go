package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sig-0/currconv/storage/types"
)

const (
	insertConversionQuery = `INSERT INTO conversions (amount, from_currency, to_currency, converted_amount, conversion_date) VALUES (?, ?, ?, ?, ?)`

	listConversionsQuery = `SELECT id, amount, from_currency, to_currency, converted_amount, conversion_date FROM conversions ORDER BY conversion_date DESC, id ASC`
)

type Storage struct {
	db  *sql.DB
	now func() time.Time
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		db:  db,
		now: time.Now,
	}
}

func (s *Storage) SaveConversion(ctx context.Context, c *types.Conversion) error {
	if c.Date.IsZero() {
		c.Date = s.now()
	}

	c.Date = types.Today(c.Date)

	res, err := s.db.ExecContext(
		ctx,
		insertConversionQuery,
		c.Amount,
		c.From.String(),
		c.To.String(),
		c.ConvertedAmount,
		c.Date.Format(types.DateLayout),
	)
	if err != nil {
		return fmt.Errorf("unable to save conversion: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("unable to fetch conversion id: %w", err)
	}

	c.ID = id

	return nil
}

func (s *Storage) ListConversions(ctx context.Context) ([]*types.Conversion, error) {
	rows, err := s.db.QueryContext(ctx, listConversionsQuery)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch conversions: %w", err)
	}
	defer rows.Close()

	out := make([]*types.Conversion, 0)

	for rows.Next() {
		var (
			c        types.Conversion
			from, to string
			date     string
		)

		if err := rows.Scan(&c.ID, &c.Amount, &from, &to, &c.ConvertedAmount, &date); err != nil {
			return nil, fmt.Errorf("unable to scan conversion: %w", err)
		}

		parsed, err := time.ParseInLocation(types.DateLayout, date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("unable to parse conversion date %q: %w", date, err)
		}

		c.From = types.Currency(from)
		c.To = types.Currency(to)
		c.Date = parsed

		out = append(out, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to fetch conversions: %w", err)
	}

	return out, nil
}
