package locomotive

import (
	"context"

	"trainyard/internal/inventory"
	"trainyard/pkg/jsonstore"
)

const (
	Kind     = "locomotive"
	FileName = "locomotives.json"
)

// NewStore opens the locomotive collection under dataDir.
func NewStore(dataDir string, opts ...jsonstore.Option) (*jsonstore.Store[*Locomotive], error) {
	return jsonstore.New[*Locomotive](dataDir, FileName, Kind, opts...)
}

// service implements the Service interface.
type service struct {
	*inventory.Catalog[*Locomotive]
}

// NewService creates a new locomotive service instance.
func NewService(store *jsonstore.Store[*Locomotive]) Service {
	return &service{Catalog: inventory.NewCatalog(store, "locomotive")}
}

// Search filters the collection. Without an explicit page every match is returned.
func (s *service) Search(ctx context.Context, c Criteria) (inventory.Results[*Locomotive], error) {
	return s.Find(ctx, c.Page, c.predicates()...)
}
