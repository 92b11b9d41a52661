package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"salesanalytics/internal/apperr"
	"salesanalytics/internal/model"
	"salesanalytics/pkg/pagination"

	"github.com/google/uuid"
)

var errDuplicateID = errors.New("duplicate order id")

// MemoryOrderRepository keeps orders in process memory. It satisfies the same
// append-only contract as the GORM repository and backs local runs and tests.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []model.Order
	byID   map[uuid.UUID]int
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{byID: make(map[uuid.UUID]int)}
}

var _ OrderRepository = (*MemoryOrderRepository)(nil)

func (r *MemoryOrderRepository) Create(ctx context.Context, order *model.Order) error {
	if err := ctx.Err(); err != nil {
		return apperr.Transient("create order", err)
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[order.ID]; exists {
		return apperr.Internal("create order", errDuplicateID)
	}
	r.byID[order.ID] = len(r.orders)
	r.orders = append(r.orders, *order)
	return nil
}

func (r *MemoryOrderRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("order", id.String())
	}
	order := r.orders[idx]
	return &order, nil
}

// List pages through orders newest first. Insertion order breaks CreatedAt ties.
func (r *MemoryOrderRepository) List(_ context.Context, page, limit int) ([]model.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := int64(len(r.orders))
	offset := pagination.Params{Page: page, Limit: limit}.Offset()
	if offset < 0 {
		offset = 0
	}

	sorted := make([]model.Order, len(r.orders))
	for i := range r.orders {
		sorted[len(r.orders)-1-i] = r.orders[i]
	}
	// Appends can land slightly out of CreatedAt order under concurrency.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if offset >= len(sorted) {
		return []model.Order{}, total, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	out := make([]model.Order, end-offset)
	copy(out, sorted[offset:end])
	return out, total, nil
}

func (r *MemoryOrderRepository) Walk(ctx context.Context, batchSize int, fn func(batch []model.Order) error) error {
	if batchSize <= 0 {
		batchSize = 500
	}
	r.mu.RLock()
	snapshot := make([]model.Order, len(r.orders))
	copy(snapshot, r.orders)
	r.mu.RUnlock()

	for start := 0; start < len(snapshot); start += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + batchSize
		if end > len(snapshot) {
			end = len(snapshot)
		}
		if err := fn(snapshot[start:end]); err != nil {
			return err
		}
	}
	return nil
}
