package mock

import (
	"context"

	"github.com/sig-0/currconv/storage/types"
)

type (
	SaveConversionDelegate  func(context.Context, *types.Conversion) error
	ListConversionsDelegate func(context.Context) ([]*types.Conversion, error)
)

type Storage struct {
	SaveConversionFn  SaveConversionDelegate
	ListConversionsFn ListConversionsDelegate
}

func (m *Storage) SaveConversion(ctx context.Context, conversion *types.Conversion) error {
	if m.SaveConversionFn != nil {
		return m.SaveConversionFn(ctx, conversion)
	}

	return nil
}

func (m *Storage) ListConversions(ctx context.Context) ([]*types.Conversion, error) {
	if m.ListConversionsFn != nil {
		return m.ListConversionsFn(ctx)
	}

	return nil, nil
}
