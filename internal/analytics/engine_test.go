package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"salesanalytics/internal/model"
	"salesanalytics/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newOrder(product string, quantity int, price float64, at time.Time) model.Order {
	return model.Order{
		ID:          uuid.New(),
		ProductName: product,
		Quantity:    quantity,
		Price:       price,
		Date:        at,
		Total:       OrderTotal(quantity, price).InexactFloat64(),
		CreatedAt:   at,
	}
}

func TestApplyIncreasesTotals(t *testing.T) {
	clock := newFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	engine := NewEngine(EngineConfig{}, clock.Now)

	before := engine.Snapshot()
	engine.Apply(newOrder("Widget", 3, 10, clock.Now()))
	after := engine.Snapshot()

	if after.TotalOrders != before.TotalOrders+1 {
		t.Fatalf("expected totalOrders to grow by 1, got %d -> %d", before.TotalOrders, after.TotalOrders)
	}
	if after.TotalRevenue-before.TotalRevenue != 30 {
		t.Fatalf("expected revenue to grow by 30, got %v -> %v", before.TotalRevenue, after.TotalRevenue)
	}
	if len(after.TopProducts) != 1 || after.TopProducts[0].Name != "Widget" || after.TopProducts[0].Percentage != 100 {
		t.Fatalf("unexpected top products %+v", after.TopProducts)
	}
	if after.OrdersInLastMinute != 1 || after.RevenueChange != NewRevenueChange {
		t.Fatalf("unexpected window metrics %+v", after)
	}
}

func TestApplyIgnoresRedelivery(t *testing.T) {
	clock := newFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	engine := NewEngine(EngineConfig{}, clock.Now)

	order := newOrder("Widget", 1, 2, clock.Now())
	if !engine.Apply(order) {
		t.Fatalf("first delivery must apply")
	}
	if engine.Apply(order) {
		t.Fatalf("second delivery must be ignored")
	}
	if got := engine.Snapshot().TotalOrders; got != 1 {
		t.Fatalf("expected 1 order, got %d", got)
	}
	if engine.Version() != 1 {
		t.Fatalf("expected version 1, got %d", engine.Version())
	}
}

func TestSnapshotIsIdempotent(t *testing.T) {
	clock := newFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	engine := NewEngine(EngineConfig{}, clock.Now)
	engine.Apply(newOrder("a", 2, 1.5, clock.Now()))
	engine.Apply(newOrder("b", 1, 7, clock.Now()))

	first, err := json.Marshal(engine.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(engine.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("snapshots differ:\n%s\n%s", first, second)
	}
}

func TestEmptySnapshotMarshalsEmptyLists(t *testing.T) {
	engine := NewEngine(EngineConfig{}, nil)
	raw, err := json.Marshal(engine.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Contains(raw, []byte(`"topProducts":[]`)) || !bytes.Contains(raw, []byte(`"recentOrders":[]`)) {
		t.Fatalf("expected empty arrays, got %s", raw)
	}
}

func TestConcurrentApplyLosesNothing(t *testing.T) {
	clock := newFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	engine := NewEngine(EngineConfig{}, clock.Now)

	const workers = 16
	const perWorker = 250
	prices := []float64{0.1, 0.2, 0.7, 1.99, 3}

	var expected decimal.Decimal
	orders := make([]model.Order, 0, workers*perWorker)
	for i := 0; i < workers*perWorker; i++ {
		o := newOrder([]string{"a", "b", "c"}[i%3], 1+i%5, prices[i%len(prices)], clock.Now())
		expected = expected.Add(OrderTotal(o.Quantity, o.Price))
		orders = append(orders, o)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(chunk []model.Order) {
			defer wg.Done()
			for _, o := range chunk {
				engine.Apply(o)
			}
		}(orders[w*perWorker : (w+1)*perWorker])
	}
	wg.Wait()

	snap := engine.Snapshot()
	if snap.TotalOrders != workers*perWorker {
		t.Fatalf("expected %d orders, got %d", workers*perWorker, snap.TotalOrders)
	}
	if snap.TotalRevenue != expected.InexactFloat64() {
		t.Fatalf("expected revenue %s, got %v", expected, snap.TotalRevenue)
	}
}

func TestRecentOrdersNewestFirstAndBounded(t *testing.T) {
	clock := newFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	engine := NewEngine(EngineConfig{RecentOrders: 3}, clock.Now)

	for i := 0; i < 5; i++ {
		engine.Apply(newOrder(string(rune('a'+i)), 1, 1, clock.Now()))
		clock.Advance(time.Second)
	}

	recent := engine.Snapshot().RecentOrders
	if len(recent) != 3 {
		t.Fatalf("expected 3 recent orders, got %d", len(recent))
	}
	if recent[0].ProductName != "e" || recent[2].ProductName != "c" {
		t.Fatalf("unexpected order %v, %v, %v", recent[0].ProductName, recent[1].ProductName, recent[2].ProductName)
	}
}

func TestReplayRebuildsState(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := repository.NewMemoryOrderRepository()

	live := NewEngine(EngineConfig{}, clock.Now)
	for i := 0; i < 12; i++ {
		o := newOrder([]string{"x", "y"}[i%2], 2, 2.5, clock.Now())
		if err := repo.Create(ctx, &o); err != nil {
			t.Fatalf("create: %v", err)
		}
		live.Apply(o)
		clock.Advance(2 * time.Second)
	}

	rebuilt := NewEngine(EngineConfig{}, clock.Now)
	n, err := rebuilt.Replay(ctx, repo)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if n != 12 {
		t.Fatalf("expected 12 replayed orders, got %d", n)
	}

	a, _ := json.Marshal(live.Snapshot())
	b, _ := json.Marshal(rebuilt.Snapshot())
	if !bytes.Equal(a, b) {
		t.Fatalf("replayed snapshot differs:\n%s\n%s", a, b)
	}
}
