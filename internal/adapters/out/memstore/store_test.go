package memstore_test

import (
	"context"
	"testing"

	"dispatch/internal/adapters/out/memstore"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, id string) *order.Order {
	t.Helper()
	pickup, err := kernel.NewLocation(19.0760, 72.8777)
	require.NoError(t, err)
	drop, err := kernel.NewLocation(19.0896, 72.8656)
	require.NoError(t, err)
	o, err := order.NewOrder(id, pickup, drop, order.Normal,
		order.Package{Weight: 1.5, Size: order.SizeSmall})
	require.NoError(t, err)
	return o
}

func TestNewStore_SeedsFleet(t *testing.T) {
	store, err := memstore.NewStore()
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("ten couriers, all available", func(t *testing.T) {
		couriers, err := store.CourierRepository().GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, couriers, 10)

		for _, c := range couriers {
			assert.True(t, c.IsAvailable())
			assert.Nil(t, c.OrderID())
		}
	})

	t.Run("listing is ordered by identifier", func(t *testing.T) {
		couriers, err := store.CourierRepository().GetAll(ctx)
		require.NoError(t, err)

		assert.Equal(t, "COU_001", couriers[0].ID())
		assert.Equal(t, "COU_010", couriers[9].ID())
	})

	t.Run("known seed positions", func(t *testing.T) {
		c, err := store.CourierRepository().Get(ctx, "COU_001")
		require.NoError(t, err)
		assert.Equal(t, "Aswin Kumar", c.Name())
		assert.InDelta(t, 19.0760, c.Location().Lat(), 1e-12)
		assert.InDelta(t, 72.8777, c.Location().Lng(), 1e-12)
	})
}

func TestOrderRepository(t *testing.T) {
	t.Run("NextID produces the sequential format", func(t *testing.T) {
		store, _ := memstore.NewStore()
		repo := store.OrderRepository()

		assert.Equal(t, "ORD_0001", repo.NextID())
		assert.Equal(t, "ORD_0002", repo.NextID())
	})

	t.Run("Add then Get round-trips", func(t *testing.T) {
		store, _ := memstore.NewStore()
		repo := store.OrderRepository()
		ctx := context.Background()

		o := newOrder(t, repo.NextID())
		require.NoError(t, repo.Add(ctx, o))

		got, err := repo.Get(ctx, o.ID())
		require.NoError(t, err)
		assert.True(t, got.IsEqual(o))
		assert.Equal(t, order.Created, got.State())
	})

	t.Run("Add rejects duplicates", func(t *testing.T) {
		store, _ := memstore.NewStore()
		repo := store.OrderRepository()
		ctx := context.Background()

		o := newOrder(t, repo.NextID())
		require.NoError(t, repo.Add(ctx, o))
		require.Error(t, repo.Add(ctx, o))
	})

	t.Run("Get returns not found for unknown id", func(t *testing.T) {
		store, _ := memstore.NewStore()

		_, err := store.OrderRepository().Get(context.Background(), "ORD_9999")
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("Update requires an existing order", func(t *testing.T) {
		store, _ := memstore.NewStore()

		err := store.OrderRepository().Update(context.Background(), newOrder(t, "ORD_0042"))
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("reads observe only written state, not later mutations", func(t *testing.T) {
		store, _ := memstore.NewStore()
		repo := store.OrderRepository()
		ctx := context.Background()

		o := newOrder(t, repo.NextID())
		require.NoError(t, repo.Add(ctx, o))

		// Mutate the local copy without writing it back.
		require.NoError(t, o.Assign("COU_001"))

		got, err := repo.Get(ctx, o.ID())
		require.NoError(t, err)
		assert.Equal(t, order.Created, got.State())
		assert.Nil(t, got.CourierID())

		require.NoError(t, repo.Update(ctx, o))
		got, err = repo.Get(ctx, o.ID())
		require.NoError(t, err)
		assert.Equal(t, order.Assigned, got.State())
	})

	t.Run("GetAll preserves creation order", func(t *testing.T) {
		store, _ := memstore.NewStore()
		repo := store.OrderRepository()
		ctx := context.Background()

		first := newOrder(t, repo.NextID())
		second := newOrder(t, repo.NextID())
		require.NoError(t, repo.Add(ctx, first))
		require.NoError(t, repo.Add(ctx, second))

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, first.ID(), all[0].ID())
		assert.Equal(t, second.ID(), all[1].ID())
	})

	t.Run("GetAllActive selects active states with a courier", func(t *testing.T) {
		store, _ := memstore.NewStore()
		repo := store.OrderRepository()
		ctx := context.Background()

		created := newOrder(t, repo.NextID())
		assigned := newOrder(t, repo.NextID())
		cancelled := newOrder(t, repo.NextID())
		require.NoError(t, repo.Add(ctx, created))
		require.NoError(t, repo.Add(ctx, assigned))
		require.NoError(t, repo.Add(ctx, cancelled))

		require.NoError(t, assigned.Assign("COU_001"))
		require.NoError(t, repo.Update(ctx, assigned))
		require.NoError(t, cancelled.TransitionTo(order.Cancelled))
		require.NoError(t, repo.Update(ctx, cancelled))

		active, err := repo.GetAllActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, assigned.ID(), active[0].ID())
	})
}

func TestCourierRepository(t *testing.T) {
	t.Run("GetAllAvailable excludes busy couriers", func(t *testing.T) {
		store, _ := memstore.NewStore()
		repo := store.CourierRepository()
		ctx := context.Background()

		c, err := repo.Get(ctx, "COU_003")
		require.NoError(t, err)
		require.NoError(t, c.MarkBusy("ORD_0001"))
		require.NoError(t, repo.Update(ctx, c))

		available, err := repo.GetAllAvailable(ctx)
		require.NoError(t, err)
		require.Len(t, available, 9)
		for _, a := range available {
			assert.NotEqual(t, "COU_003", a.ID())
		}
	})

	t.Run("Get returns not found for unknown id", func(t *testing.T) {
		store, _ := memstore.NewStore()

		_, err := store.CourierRepository().Get(context.Background(), "COU_999")
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestStore_Stats(t *testing.T) {
	store, _ := memstore.NewStore()
	orderRepo := store.OrderRepository()
	courierRepo := store.CourierRepository()
	ctx := context.Background()

	inProgress := newOrder(t, orderRepo.NextID())
	done := newOrder(t, orderRepo.NextID())
	require.NoError(t, orderRepo.Add(ctx, inProgress))
	require.NoError(t, orderRepo.Add(ctx, done))
	require.NoError(t, done.TransitionTo(order.Cancelled))
	require.NoError(t, orderRepo.Update(ctx, done))

	c, err := courierRepo.Get(ctx, "COU_001")
	require.NoError(t, err)
	require.NoError(t, c.MarkBusy(inProgress.ID()))
	require.NoError(t, courierRepo.Update(ctx, c))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 10, stats.TotalCouriers)
	assert.Equal(t, 9, stats.AvailableCouriers)
	assert.Equal(t, 1, stats.OrdersInProgress)
}
