package inventory

import (
	"context"
	"errors"
	"fmt"

	"trainyard/pkg/jsonstore"
)

// Entity is an item kind that can be kept in a Catalog.
type Entity interface {
	jsonstore.Record
	Inventoried
	Normalize()
	Validate() error
}

// Catalog holds the operations every item kind shares, over that kind's store.
type Catalog[T Entity] struct {
	store *jsonstore.Store[T]
	noun  string
}

// NewCatalog wraps store. noun names the kind in error messages.
func NewCatalog[T Entity](store *jsonstore.Store[T], noun string) *Catalog[T] {
	return &Catalog[T]{store: store, noun: noun}
}

// Create fills defaults, validates and stores a new item.
func (c *Catalog[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	item.Normalize()
	if err := item.Validate(); err != nil {
		return zero, err
	}
	saved, err := c.store.Save(ctx, item)
	if err != nil {
		return zero, fmt.Errorf("failed to save %s: %w", c.noun, err)
	}
	return saved, nil
}

func (c *Catalog[T]) Get(ctx context.Context, id int64) (T, error) {
	return c.store.FindByID(ctx, id)
}

func (c *Catalog[T]) List(ctx context.Context) ([]T, error) {
	return c.store.List(ctx)
}

// Update replaces every attribute of an existing item.
func (c *Catalog[T]) Update(ctx context.Context, id int64, item T) (T, error) {
	var zero T
	item.Normalize()
	if err := item.Validate(); err != nil {
		return zero, err
	}
	updated, err := c.store.Update(ctx, id, item)
	if err != nil {
		return zero, fmt.Errorf("failed to update %s: %w", c.noun, err)
	}
	return updated, nil
}

func (c *Catalog[T]) Delete(ctx context.Context, id int64) error {
	return c.store.Delete(ctx, id)
}

// Find filters the collection and applies page. Without an explicit page every match is returned.
func (c *Catalog[T]) Find(ctx context.Context, page Page, preds ...Predicate[T]) (Results[T], error) {
	if err := page.Validate(); err != nil {
		return Results[T]{}, err
	}
	all, err := c.store.List(ctx)
	if err != nil {
		return Results[T]{}, fmt.Errorf("failed to search %s: %w", c.noun, err)
	}
	return Paginate(Filter(all, preds...), page), nil
}

// SetStatus changes only the maintenance status of an item.
func (c *Catalog[T]) SetStatus(ctx context.Context, id int64, status MaintenanceStatus) error {
	if status == "" {
		return fmt.Errorf("%w: status is required", ErrValidation)
	}
	_, err := c.store.Modify(ctx, id, func(item T) error {
		item.Base().MaintenanceStatus = status
		return nil
	})
	return err
}

func (c *Catalog[T]) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := c.store.FindByID(ctx, id)
	if errors.Is(err, jsonstore.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
