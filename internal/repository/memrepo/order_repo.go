package memrepo

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]*domain.Order)}
}

func (o *OrderRepository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.orders[order.ID]; exists {
		return nil, domain.ErrDuplicateKey
	}
	clone := *order
	o.orders[order.ID] = &clone
	result := clone
	return &result, nil
}

func (o *OrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	order, ok := o.orders[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (o *OrderRepository) GetByUserID(_ context.Context, userID int64) ([]domain.Order, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.collect(func(order *domain.Order) bool { return order.UserID == userID }), nil
}

func (o *OrderRepository) ListAll(_ context.Context) ([]domain.Order, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.collect(func(*domain.Order) bool { return true }), nil
}

// UpdateStatus переводит заказ из статуса From в To. Сравнение текущего статуса и запись
// происходят под одним мьютексом, так что повторное закрытие заказа всегда получит
// domain.ErrInvalidOrderState.
func (o *OrderRepository) UpdateStatus(_ context.Context, args repoargs.UpdateOrderStatus) (*domain.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	order, ok := o.orders[args.ID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	if order.Status != args.From {
		return nil, domain.ErrInvalidOrderState
	}

	order.Status = args.To
	order.ActionBy = args.ActionBy
	order.UpdatedAt = time.Now().UTC()

	clone := *order
	return &clone, nil
}

func (o *OrderRepository) DeleteByUserID(_ context.Context, userID int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for id, order := range o.orders {
		if order.UserID == userID {
			delete(o.orders, id)
		}
	}
	return nil
}

// collect возвращает копии заказов по фильтру, свежие первыми.
func (o *OrderRepository) collect(keep func(*domain.Order) bool) []domain.Order {
	var orders []domain.Order
	for _, order := range o.orders {
		if keep(order) {
			orders = append(orders, *order)
		}
	}
	slices.SortFunc(orders, func(a, b domain.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return orders
}
