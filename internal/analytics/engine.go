package analytics

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"salesanalytics/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Clock returns the current time. Tests substitute a fixed or advancing clock.
type Clock func() time.Time

// OrderWalker is the replay source, normally the order repository.
type OrderWalker interface {
	Walk(ctx context.Context, batchSize int, fn func(batch []model.Order) error) error
}

type EngineConfig struct {
	TopProducts  int
	RecentOrders int
	// DedupSize bounds how many applied order ids are remembered for
	// redelivery detection.
	DedupSize int
}

// Engine owns the derived aggregates. Each structure has its own lock so an
// order update never waits on an unrelated reader.
type Engine struct {
	aggregator *Aggregator
	ranker     *Ranker
	recent     *RecentOrders
	applied    *idSet
	version    atomic.Uint64
	now        Clock
	topN       int
}

func NewEngine(cfg EngineConfig, clock Clock) *Engine {
	if clock == nil {
		clock = time.Now
	}
	if cfg.TopProducts <= 0 {
		cfg.TopProducts = 5
	}
	if cfg.DedupSize <= 0 {
		cfg.DedupSize = 10000
	}
	return &Engine{
		aggregator: NewAggregator(),
		ranker:     NewRanker(),
		recent:     NewRecentOrders(cfg.RecentOrders),
		applied:    newIDSet(cfg.DedupSize),
		now:        clock,
		topN:       cfg.TopProducts,
	}
}

// Apply folds a stored order into every aggregate using its stored total, so
// live and replayed aggregates agree. A redelivered order is ignored and Apply
// reports false.
func (e *Engine) Apply(order model.Order) bool {
	if !e.applied.add(order.ID) {
		return false
	}
	total := decimal.NewFromFloat(order.Total)
	e.aggregator.Record(order.CreatedAt, order.ProductName, order.Quantity, total, e.now())
	e.ranker.Record(order.ProductName, order.Quantity, total)
	e.recent.Add(order)
	e.version.Add(1)
	return true
}

// Replay rebuilds the aggregates from the order store.
func (e *Engine) Replay(ctx context.Context, source OrderWalker) (int, error) {
	applied := 0
	err := source.Walk(ctx, 500, func(batch []model.Order) error {
		for _, order := range batch {
			if e.Apply(order) {
				applied++
			}
		}
		return nil
	})
	if err != nil {
		return applied, fmt.Errorf("failed to replay orders: %w", err)
	}
	return applied, nil
}

// Snapshot composes the dashboard view at the engine clock's current time.
func (e *Engine) Snapshot() model.Analytics {
	counters := e.aggregator.Counters(e.now())
	return model.Analytics{
		TotalRevenue:       counters.TotalRevenue.InexactFloat64(),
		TotalOrders:        counters.TotalOrders,
		TopProducts:        e.ranker.Top(e.topN),
		RecentOrders:       e.recent.List(),
		RevenueChange:      counters.RevenueChange,
		OrdersInLastMinute: counters.OrdersInLastMinute,
	}
}

// WindowQuantities reports units sold per product during the last minute.
func (e *Engine) WindowQuantities() map[string]int {
	return e.aggregator.WindowQuantities(e.now())
}

// Version increases by one for every applied order.
func (e *Engine) Version() uint64 {
	return e.version.Load()
}

func (e *Engine) Now() time.Time {
	return e.now()
}

// idSet remembers the most recent ids in insertion order.
type idSet struct {
	mu   sync.Mutex
	seen map[uuid.UUID]struct{}
	ring []uuid.UUID
	next int
}

func newIDSet(size int) *idSet {
	return &idSet{seen: make(map[uuid.UUID]struct{}, size), ring: make([]uuid.UUID, size)}
}

func (s *idSet) add(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[id]; ok {
		return false
	}
	if old := s.ring[s.next]; old != uuid.Nil {
		delete(s.seen, old)
	}
	s.ring[s.next] = id
	s.next = (s.next + 1) % len(s.ring)
	s.seen[id] = struct{}{}
	return true
}
