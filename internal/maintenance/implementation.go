package maintenance

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"trainyard/internal/inventory"
	"trainyard/pkg/jsonstore"
)

const (
	Kind     = "maintenance_log"
	FileName = "maintenance-logs.json"
)

// NewStore opens the maintenance log collection under dataDir.
func NewStore(dataDir string, opts ...jsonstore.Option) (*jsonstore.Store[*Log], error) {
	return jsonstore.New[*Log](dataDir, FileName, Kind, opts...)
}

// service implements the Service interface.
type service struct {
	store *jsonstore.Store[*Log]
	kinds []Inventory
}

// NewService creates a maintenance service. kinds are consulted in order when resolving an
// inventory item id; since ids of different kinds may collide, the first kind holding the id wins.
func NewService(store *jsonstore.Store[*Log], kinds ...Inventory) Service {
	return &service{store: store, kinds: kinds}
}

// Create stores a log after checking that the referenced item exists in some kind.
func (s *service) Create(ctx context.Context, log *Log) (*Log, error) {
	if err := log.Validate(); err != nil {
		return nil, err
	}

	found := false
	for _, kind := range s.kinds {
		ok, err := kind.Exists(ctx, log.InventoryItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up inventory item: %w", err)
		}
		if ok {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: inventory item %d does not exist", inventory.ErrValidation, log.InventoryItemID)
	}

	saved, err := s.store.Save(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("failed to save maintenance log: %w", err)
	}
	return saved, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Log, error) {
	return s.store.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Log, error) {
	return s.store.List(ctx)
}

// ListForItem returns the logs referencing itemID, oldest first.
func (s *service) ListForItem(ctx context.Context, itemID int64) ([]*Log, error) {
	if itemID <= 0 {
		return []*Log{}, nil
	}
	logs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.Filter(logs, forItem(itemID)), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// UpdateItemStatus sets the maintenance status of whichever kind holds itemID first.
func (s *service) UpdateItemStatus(ctx context.Context, itemID int64, status inventory.MaintenanceStatus) error {
	if status == "" {
		return fmt.Errorf("%w: status is required", inventory.ErrValidation)
	}
	for i, kind := range s.kinds {
		err := kind.SetStatus(ctx, itemID, status)
		if errors.Is(err, jsonstore.ErrNotFound) {
			zerolog.Ctx(ctx).Debug().Int64("item_id", itemID).Int("kind_index", i).Msg("item not in kind, trying next")
			continue
		}
		return err
	}
	return fmt.Errorf("%w: inventory item %d", jsonstore.ErrNotFound, itemID)
}

func forItem(itemID int64) inventory.Predicate[*Log] {
	return inventory.Equal(func(l *Log) int64 { return l.InventoryItemID }, itemID)
}
