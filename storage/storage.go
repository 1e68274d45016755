package storage

import (
	"context"

	"github.com/sig-0/currconv/storage/types"
)

// Storage is an abstraction over conversion records
type Storage interface {
	// SaveConversion appends the conversion record, assigning its ID.
	// A zero Date is set to the current calendar date
	SaveConversion(context.Context, *types.Conversion) error

	// ListConversions lists all conversions, newest date first.
	// Records sharing a date keep their insertion order
	ListConversions(context.Context) ([]*types.Conversion, error)
}
