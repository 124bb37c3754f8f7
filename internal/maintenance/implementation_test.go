package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainyard/internal/inventory"
	"trainyard/pkg/jsonstore"
)

// fakeInventory is an in-memory kind of item.
type fakeInventory struct {
	statuses map[int64]inventory.MaintenanceStatus
}

func newFakeInventory(ids ...int64) *fakeInventory {
	f := &fakeInventory{statuses: map[int64]inventory.MaintenanceStatus{}}
	for _, id := range ids {
		f.statuses[id] = inventory.StatusOperational
	}
	return f
}

func (f *fakeInventory) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.statuses[id]
	return ok, nil
}

func (f *fakeInventory) SetStatus(_ context.Context, id int64, status inventory.MaintenanceStatus) error {
	if _, ok := f.statuses[id]; !ok {
		return jsonstore.ErrNotFound
	}
	f.statuses[id] = status
	return nil
}

func newTestService(t *testing.T, kinds ...Inventory) Service {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return NewService(store, kinds...)
}

func TestCreateChecksReferencedItem(t *testing.T) {
	ctx := context.Background()
	locos, cars := newFakeInventory(1), newFakeInventory(7)
	svc := newTestService(t, locos, cars)

	date := inventory.NewDate(2024, time.May, 4)
	saved, err := svc.Create(ctx, &Log{InventoryItemID: 7, MaintenanceDate: &date, WorkPerformed: "cleaned wheels"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.False(t, saved.CreatedDate.IsZero())

	_, err = svc.Create(ctx, &Log{InventoryItemID: 99})
	assert.ErrorIs(t, err, inventory.ErrValidation)
	_, err = svc.Create(ctx, &Log{})
	assert.ErrorIs(t, err, inventory.ErrValidation)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListForItem(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeInventory(1, 2))

	for _, id := range []int64{1, 2, 1} {
		_, err := svc.Create(ctx, &Log{InventoryItemID: id})
		require.NoError(t, err)
	}

	logs, err := svc.ListForItem(ctx, 1)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, int64(1), logs[0].ID)
	assert.Equal(t, int64(3), logs[1].ID)

	logs, err = svc.ListForItem(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestLogsOutliveTheirItem(t *testing.T) {
	ctx := context.Background()
	locos := newFakeInventory(4)
	svc := newTestService(t, locos)

	_, err := svc.Create(ctx, &Log{InventoryItemID: 4})
	require.NoError(t, err)
	delete(locos.statuses, 4)

	logs, err := svc.ListForItem(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestUpdateItemStatusPrefersFirstKind(t *testing.T) {
	ctx := context.Background()
	locos, cars := newFakeInventory(1), newFakeInventory(1, 2)
	svc := newTestService(t, locos, cars)

	require.NoError(t, svc.UpdateItemStatus(ctx, 1, inventory.StatusInMaintenance))
	assert.Equal(t, inventory.StatusInMaintenance, locos.statuses[1])
	assert.Equal(t, inventory.StatusOperational, cars.statuses[1])

	require.NoError(t, svc.UpdateItemStatus(ctx, 2, inventory.StatusOutOfService))
	assert.Equal(t, inventory.StatusOutOfService, cars.statuses[2])

	assert.ErrorIs(t, svc.UpdateItemStatus(ctx, 3, inventory.StatusOperational), jsonstore.ErrNotFound)
	assert.ErrorIs(t, svc.UpdateItemStatus(ctx, 1, ""), inventory.ErrValidation)
}

func TestDeleteLog(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeInventory(1))

	saved, err := svc.Create(ctx, &Log{InventoryItemID: 1})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, saved.ID))

	_, err = svc.Get(ctx, saved.ID)
	assert.ErrorIs(t, err, jsonstore.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, saved.ID), jsonstore.ErrNotFound)
}
