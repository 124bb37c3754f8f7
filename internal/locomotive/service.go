package locomotive

import (
	"context"

	"trainyard/internal/inventory"
)

// Service defines the interface for the locomotive service.
type Service interface {
	Create(ctx context.Context, l *Locomotive) (*Locomotive, error)
	Get(ctx context.Context, id int64) (*Locomotive, error)
	List(ctx context.Context) ([]*Locomotive, error)
	Update(ctx context.Context, id int64, l *Locomotive) (*Locomotive, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, c Criteria) (inventory.Results[*Locomotive], error)
	SetStatus(ctx context.Context, id int64, status inventory.MaintenanceStatus) error
	Exists(ctx context.Context, id int64) (bool, error)
}
