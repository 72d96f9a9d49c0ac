package memrepo

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
)

func newPendingOrder(t *testing.T, repo *OrderRepository) *domain.Order {
	t.Helper()
	order, factoryErr := domain.NewCreditTopupOrder(
		123456, decimal.NewFromInt(2000), "KPay", "proof", decimal.NewFromInt(100),
	)
	require.NoError(t, factoryErr)

	created, createErr := repo.Create(context.Background(), order)
	require.NoError(t, createErr)
	return created
}

func TestOrderRepositoryUpdateStatus(t *testing.T) {
	repo := NewOrderRepository()
	order := newPendingOrder(t, repo)

	updated, err := repo.UpdateStatus(context.Background(), repoargs.UpdateOrderStatus{
		ID:       order.ID,
		From:     domain.OrderStatusPendingApproval,
		To:       domain.OrderStatusCompleted,
		ActionBy: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, updated.Status)
	assert.Equal(t, "admin", updated.ActionBy)

	// статус уже не Pending Approval: compare-and-swap отклоняет перевод
	_, secondErr := repo.UpdateStatus(context.Background(), repoargs.UpdateOrderStatus{
		ID:       order.ID,
		From:     domain.OrderStatusPendingApproval,
		To:       domain.OrderStatusDeclined,
		ActionBy: "admin",
	})
	require.ErrorIs(t, secondErr, domain.ErrInvalidOrderState)
}

// Два админа закрывают один заказ параллельно: ровно одна попытка выигрывает.
func TestOrderRepositoryUpdateStatusRace(t *testing.T) {
	repo := NewOrderRepository()
	order := newPendingOrder(t, repo)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			_, errs[i] = repo.UpdateStatus(context.Background(), repoargs.UpdateOrderStatus{
				ID:       order.ID,
				From:     domain.OrderStatusPendingApproval,
				To:       domain.OrderStatusCompleted,
				ActionBy: "admin",
			})
		}()
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, domain.ErrInvalidOrderState)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestOrderRepositoryCreateDuplicate(t *testing.T) {
	repo := NewOrderRepository()
	order := newPendingOrder(t, repo)

	_, err := repo.Create(context.Background(), order)
	require.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestOrderRepositoryReturnsClones(t *testing.T) {
	repo := NewOrderRepository()
	order := newPendingOrder(t, repo)

	// мутация возвращенной копии не должна задевать хранимое состояние
	order.Status = domain.OrderStatusDeclined

	stored, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPendingApproval, stored.Status)
}

func TestOrderRepositoryDeleteByUserID(t *testing.T) {
	repo := NewOrderRepository()
	newPendingOrder(t, repo)
	newPendingOrder(t, repo)

	require.NoError(t, repo.DeleteByUserID(context.Background(), 123456))

	orders, err := repo.GetByUserID(context.Background(), 123456)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
