package analytics

import (
	"sync"

	"salesanalytics/internal/model"
)

// RecentOrders is a bounded newest-first view of the order stream.
type RecentOrders struct {
	mu     sync.RWMutex
	limit  int
	orders []model.Order
}

func NewRecentOrders(limit int) *RecentOrders {
	if limit <= 0 {
		limit = 10
	}
	return &RecentOrders{limit: limit, orders: make([]model.Order, 0, limit+1)}
}

func (r *RecentOrders) Add(order model.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := 0
	for i < len(r.orders) && r.orders[i].CreatedAt.After(order.CreatedAt) {
		i++
	}
	if i >= r.limit {
		return
	}
	r.orders = append(r.orders, model.Order{})
	copy(r.orders[i+1:], r.orders[i:])
	r.orders[i] = order
	if len(r.orders) > r.limit {
		r.orders = r.orders[:r.limit]
	}
}

func (r *RecentOrders) List() []model.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Order, len(r.orders))
	copy(out, r.orders)
	return out
}
