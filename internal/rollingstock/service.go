package rollingstock

import (
	"context"

	"trainyard/internal/inventory"
)

// Service defines the interface for the rolling stock service.
type Service interface {
	Create(ctx context.Context, rs *RollingStock) (*RollingStock, error)
	Get(ctx context.Context, id int64) (*RollingStock, error)
	List(ctx context.Context) ([]*RollingStock, error)
	Update(ctx context.Context, id int64, rs *RollingStock) (*RollingStock, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, c Criteria) (inventory.Results[*RollingStock], error)
	SetStatus(ctx context.Context, id int64, status inventory.MaintenanceStatus) error
	Exists(ctx context.Context, id int64) (bool, error)
}
