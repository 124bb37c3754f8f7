package rollingstock

import (
	"context"

	"trainyard/internal/inventory"
	"trainyard/pkg/jsonstore"
)

const (
	Kind     = "rolling_stock"
	FileName = "rolling-stock.json"
)

// NewStore opens the rolling stock collection under dataDir.
func NewStore(dataDir string, opts ...jsonstore.Option) (*jsonstore.Store[*RollingStock], error) {
	return jsonstore.New[*RollingStock](dataDir, FileName, Kind, opts...)
}

type service struct {
	*inventory.Catalog[*RollingStock]
}

// NewService creates a new rolling stock service instance.
func NewService(store *jsonstore.Store[*RollingStock]) Service {
	return &service{Catalog: inventory.NewCatalog(store, "rolling stock")}
}

func (s *service) Search(ctx context.Context, c Criteria) (inventory.Results[*RollingStock], error) {
	return s.Find(ctx, c.Page, c.predicates()...)
}
