package rollingstock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainyard/internal/inventory"
	"trainyard/pkg/jsonstore"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return NewService(store)
}

func car(manufacturer string, scale inventory.Scale, aar inventory.AARType) *RollingStock {
	return &RollingStock{Item: inventory.Item{Manufacturer: manufacturer, Scale: scale}, AARType: aar}
}

func TestCreateRollingStock(t *testing.T) {
	svc := newTestService(t)

	rs := car("Walthers", inventory.ScaleHO, "xm")
	rs.Capacity = "50 ton"
	saved, err := svc.Create(context.Background(), rs)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.Equal(t, inventory.AARType("XM"), saved.AARType)
	assert.Equal(t, inventory.StatusOperational, saved.MaintenanceStatus)

	_, err = svc.Create(context.Background(), car("Walthers", inventory.ScaleHO, "ZZ"))
	assert.ErrorIs(t, err, inventory.ErrValidation)
}

func TestSearchByAARType(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for _, rs := range []*RollingStock{
		car("Walthers", inventory.ScaleHO, "XM"),
		car("Atlas", inventory.ScaleHO, "TA"),
		car("Kadee", inventory.ScaleHO, "XM"),
		car("Atlas", inventory.ScaleN, "XM"),
	} {
		_, err := svc.Create(ctx, rs)
		require.NoError(t, err)
	}

	res, err := svc.Search(ctx, Criteria{AARType: "XM", Scale: inventory.ScaleHO})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "Walthers", res.Results[0].Manufacturer)
	assert.Equal(t, "Kadee", res.Results[1].Manufacturer)

	res, err = svc.Search(ctx, Criteria{Manufacturer: "ATLAS"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
}

func TestRollingStockLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	saved, err := svc.Create(ctx, car("Athearn", inventory.ScaleHO, "GN"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, saved.ID, car("Athearn", inventory.ScaleHO, "GB"))
	require.NoError(t, err)
	got, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.AARType("GB"), got.AARType)

	require.NoError(t, svc.SetStatus(ctx, saved.ID, inventory.StatusOutOfService))
	got, err = svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusOutOfService, got.MaintenanceStatus)

	require.NoError(t, svc.Delete(ctx, saved.ID))
	ok, err := svc.Exists(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, svc.Delete(ctx, saved.ID), jsonstore.ErrNotFound)

	next, err := svc.Create(ctx, car("Athearn", inventory.ScaleHO, ""))
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.ID)
}
