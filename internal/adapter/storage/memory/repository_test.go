package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MikeRez0/ypfulfillment/internal/adapter/storage/memory"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(id, number string) *domain.Order {
	o := &domain.Order{
		ID:         id,
		Number:     number,
		CustomerID: "c1",
		Lines:      []domain.OrderLine{{ProductID: "p1", Quantity: 1}},
	}
	o.Open(domain.Actor{ID: "c1", Role: domain.RoleCustomer}, time.Now())
	return o
}

func TestRepository_CreateOrder(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	saved, err := repo.CreateOrder(ctx, newOrder("o1", "20240101-000001"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Version)

	_, err = repo.CreateOrder(ctx, newOrder("o2", "20240101-000001"))
	assert.ErrorIs(t, err, domain.ErrConflictingData)

	_, err = repo.ReadOrder(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrDataNotFound)
}

func TestRepository_UpdateOrder(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()
	_, err := repo.CreateOrder(ctx, newOrder("o1", "n1"))
	require.NoError(t, err)

	t.Run("failed update keeps stored order", func(t *testing.T) {
		_, err := repo.UpdateOrder(ctx, "o1", func(o *domain.Order) error {
			o.Status = domain.OrderStatusCancelled
			return errors.New("boom")
		})
		assert.Error(t, err)

		stored, err := repo.ReadOrder(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPendingConfirmation, stored.Status)
		assert.Equal(t, int64(1), stored.Version)
	})

	t.Run("writers are serialized", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.UpdateOrder(ctx, "o1", func(o *domain.Order) error {
					o.Lines[0].Quantity++
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		stored, err := repo.ReadOrder(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, int64(51), stored.Lines[0].Quantity)
		assert.Equal(t, int64(51), stored.Version)
	})

	t.Run("returned order is a copy", func(t *testing.T) {
		got, err := repo.ReadOrder(ctx, "o1")
		require.NoError(t, err)
		got.Lines[0].Quantity = 0
		got.History[0].Note = "changed"

		stored, err := repo.ReadOrder(ctx, "o1")
		require.NoError(t, err)
		assert.NotZero(t, stored.Lines[0].Quantity)
		assert.Equal(t, "order created", stored.History[0].Note)
	})
}
