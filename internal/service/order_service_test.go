package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"salesanalytics/internal/analytics"
	"salesanalytics/internal/apperr"
	"salesanalytics/internal/model"
	"salesanalytics/internal/repository"

	"github.com/shopspring/decimal"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []model.WebSocketMessage
}

func (p *recordingPublisher) Publish(msg model.WebSocketMessage) {
	p.mu.Lock()
	p.messages = append(p.messages, msg)
	p.mu.Unlock()
}

func (p *recordingPublisher) ofType(kind string) []model.WebSocketMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []model.WebSocketMessage
	for _, m := range p.messages {
		if m.Type == kind {
			out = append(out, m)
		}
	}
	return out
}

type countingNotifier struct {
	calls atomic.Int32
}

func (n *countingNotifier) Notify() { n.calls.Add(1) }

type failingRepo struct {
	repository.OrderRepository
	err error
}

func (r failingRepo) Create(context.Context, *model.Order) error { return r.err }

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	svc       OrderService
	repo      repository.OrderRepository
	engine    *analytics.Engine
	publisher *recordingPublisher
	notifier  *countingNotifier
	clock     *testClock
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(repo repository.OrderRepository) *fixture {
	clock := &testClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	if repo == nil {
		repo = repository.NewMemoryOrderRepository()
	}
	f := &fixture{
		repo:      repo,
		engine:    analytics.NewEngine(analytics.EngineConfig{}, clock.Now),
		publisher: &recordingPublisher{},
		notifier:  &countingNotifier{},
		clock:     clock,
	}
	f.svc = NewOrderService(OrderServiceConfig{
		Repo:      f.repo,
		Engine:    f.engine,
		Publisher: f.publisher,
		Notifier:  f.notifier,
		Clock:     clock.Now,
		Logger:    quietLogger(),
	})
	return f
}

func TestAppendValidation(t *testing.T) {
	valid := model.OrderInput{ProductName: "Widget", Quantity: 1, Price: 1, Date: "2024-01-01T00:00:00Z"}
	tests := []struct {
		name   string
		mutate func(*model.OrderInput)
		field  string
	}{
		{name: "blank product", mutate: func(in *model.OrderInput) { in.ProductName = "   " }, field: "productName"},
		{name: "zero quantity", mutate: func(in *model.OrderInput) { in.Quantity = 0 }, field: "quantity"},
		{name: "negative quantity", mutate: func(in *model.OrderInput) { in.Quantity = -2 }, field: "quantity"},
		{name: "negative price", mutate: func(in *model.OrderInput) { in.Price = -0.01 }, field: "price"},
		{name: "five decimal price", mutate: func(in *model.OrderInput) { in.Price = 0.12345 }, field: "price"},
		{name: "price beyond column", mutate: func(in *model.OrderInput) { in.Price = 1e10 }, field: "price"},
		{name: "total beyond column", mutate: func(in *model.OrderInput) { in.Price = 9_999_999; in.Quantity = 100_000 }, field: "quantity"},
		{name: "quantity beyond column", mutate: func(in *model.OrderInput) { in.Quantity = math.MaxInt32 + 1 }, field: "quantity"},
		{name: "missing date", mutate: func(in *model.OrderInput) { in.Date = "" }, field: "date"},
		{name: "bad date", mutate: func(in *model.OrderInput) { in.Date = "yesterday" }, field: "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(nil)
			in := valid
			tt.mutate(&in)
			_, err := f.svc.Append(context.Background(), in)
			var verr *apperr.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, verr.Field)
			}
			if len(f.publisher.messages) != 0 || f.engine.Version() != 0 {
				t.Fatalf("rejected order must not reach aggregates or subscribers")
			}
		})
	}
}

func TestAppendAcceptsDateLayouts(t *testing.T) {
	f := newFixture(nil)
	for _, date := range []string{"2024-01-01T10:00:00Z", "2024-01-01T10:00:00.123+02:00", "2024-01-01T10:00:00", "2024-01-01T10:00", "2024-01-01"} {
		order, err := f.svc.Append(context.Background(), model.OrderInput{ProductName: "a", Quantity: 1, Price: 0, Date: date})
		if err != nil {
			t.Fatalf("%s: unexpected error %v", date, err)
		}
		if order.Date.Year() != 2024 {
			t.Fatalf("%s: parsed %v", date, order.Date)
		}
	}
}

func TestAppendWidgetScenario(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	order, err := f.svc.Append(ctx, model.OrderInput{ProductName: " Widget ", Quantity: 3, Price: 10, Date: "2024-01-01T00:00:00Z"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if order.ProductName != "Widget" || order.Total != 30 || order.ID.String() == "" {
		t.Fatalf("unexpected order %+v", order)
	}

	snap := f.engine.Snapshot()
	if snap.TotalRevenue != 30 || snap.TotalOrders != 1 || snap.OrdersInLastMinute != 1 {
		t.Fatalf("unexpected analytics %+v", snap)
	}
	if len(snap.TopProducts) != 1 || snap.TopProducts[0].Name != "Widget" || snap.TopProducts[0].Percentage != 100 {
		t.Fatalf("unexpected top products %+v", snap.TopProducts)
	}
	if len(snap.RecentOrders) != 1 || snap.RecentOrders[0].ID != order.ID {
		t.Fatalf("unexpected recent orders %+v", snap.RecentOrders)
	}

	published := f.publisher.ofType(model.MessageNewOrder)
	if len(published) != 1 || published[0].Data.(model.Order).ID != order.ID {
		t.Fatalf("expected one new_order message, got %+v", published)
	}
	if f.notifier.calls.Load() != 1 {
		t.Fatalf("expected one notification, got %d", f.notifier.calls.Load())
	}

	stored, err := f.svc.Get(ctx, order.ID.String())
	if err != nil || stored.Total != 30 {
		t.Fatalf("stored order mismatch: %+v, %v", stored, err)
	}
}

func TestAppendedRevenueMatchesReplay(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	order, err := f.svc.Append(ctx, model.OrderInput{ProductName: "Widget", Quantity: 3, Price: 0.1235, Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if order.Total != 0.3705 {
		t.Fatalf("expected total 0.3705, got %v", order.Total)
	}

	replayed := analytics.NewEngine(analytics.EngineConfig{}, f.clock.Now)
	if _, err := replayed.Replay(ctx, f.repo); err != nil {
		t.Fatalf("replay: %v", err)
	}
	live, rebuilt := f.engine.Snapshot(), replayed.Snapshot()
	if live.TotalRevenue != 0.3705 || rebuilt.TotalRevenue != live.TotalRevenue {
		t.Fatalf("live revenue %v, replayed %v", live.TotalRevenue, rebuilt.TotalRevenue)
	}
}

func TestAppendStoreFailureLeavesAggregatesUntouched(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{name: "transient", err: apperr.Transient("create order", errors.New("connection refused")), transient: true},
		{name: "internal", err: apperr.Internal("create order", errors.New("duplicate key"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(failingRepo{err: tt.err})
			_, err := f.svc.Append(context.Background(), model.OrderInput{ProductName: "a", Quantity: 1, Price: 1, Date: "2024-01-01"})
			if err == nil {
				t.Fatalf("expected an error")
			}
			if apperr.IsTransient(err) != tt.transient {
				t.Fatalf("transient=%v, got %v", tt.transient, err)
			}
			if f.engine.Snapshot().TotalOrders != 0 || len(f.publisher.messages) != 0 || f.notifier.calls.Load() != 0 {
				t.Fatalf("failed append leaked into aggregates or subscribers")
			}
		})
	}
}

func TestConcurrentAppends(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.Append(ctx, model.OrderInput{
				ProductName: []string{"a", "b", "c", "d"}[i%4],
				Quantity:    1 + i%3,
				Price:       0.1,
				Date:        "2024-01-01",
			})
			if err != nil {
				t.Errorf("append %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	expected := decimal.Zero
	for i := 0; i < n; i++ {
		expected = expected.Add(analytics.OrderTotal(1+i%3, 0.1))
	}

	snap := f.engine.Snapshot()
	if snap.TotalOrders != n {
		t.Fatalf("expected %d orders, got %d", n, snap.TotalOrders)
	}
	if snap.TotalRevenue != expected.InexactFloat64() {
		t.Fatalf("expected revenue %s, got %v", expected, snap.TotalRevenue)
	}
	_, total, err := f.svc.List(ctx, 1, 10)
	if err != nil || total != n {
		t.Fatalf("expected %d stored orders, got %d (%v)", n, total, err)
	}
	if got := len(f.publisher.ofType(model.MessageNewOrder)); got != n {
		t.Fatalf("expected %d new_order messages, got %d", n, got)
	}
}

func TestGetErrors(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	if _, err := f.svc.Get(ctx, "not-a-uuid"); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.svc.Get(ctx, "5b0c7c7e-8a4e-4a51-9f0e-1f0b8e7d2a11"); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
