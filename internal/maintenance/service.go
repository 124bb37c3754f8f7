package maintenance

import (
	"context"

	"trainyard/internal/inventory"
)

// Service defines the interface for the maintenance service.
type Service interface {
	Create(ctx context.Context, log *Log) (*Log, error)
	Get(ctx context.Context, id int64) (*Log, error)
	List(ctx context.Context) ([]*Log, error)
	ListForItem(ctx context.Context, itemID int64) ([]*Log, error)
	Delete(ctx context.Context, id int64) error
	UpdateItemStatus(ctx context.Context, itemID int64, status inventory.MaintenanceStatus) error
}

// Inventory is what the maintenance service needs from one kind of inventory item.
type Inventory interface {
	Exists(ctx context.Context, id int64) (bool, error)
	SetStatus(ctx context.Context, id int64, status inventory.MaintenanceStatus) error
}
