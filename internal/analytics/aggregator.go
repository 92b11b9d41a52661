// Package analytics holds the live aggregates derived from the order stream:
// cumulative totals, the rolling order-rate windows, the product ranking and
// the recent-orders view. All state here is recomputable by replaying the
// order store.
package analytics

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// OrderRateWindow is the length of the "last minute" window. Revenue change
// compares the current window against the one immediately before it.
const OrderRateWindow = time.Minute

// NewRevenueChange is reported when the prior window had no revenue but the
// current one does. There is no meaningful percentage in that case.
const NewRevenueChange = 100.0

var hundred = decimal.NewFromInt(100)

type windowEntry struct {
	at       time.Time
	product  string
	quantity int
	total    decimal.Decimal
}

// Counters is a point-in-time read of the aggregator.
type Counters struct {
	TotalRevenue       decimal.Decimal
	TotalOrders        int64
	OrdersInLastMinute int
	RevenueChange      float64
}

// Aggregator maintains cumulative totals and a time-ordered deque of recent
// entries covering two rate windows. Expired entries are dropped lazily on
// every insert and read.
type Aggregator struct {
	mu           sync.Mutex
	totalRevenue decimal.Decimal
	totalOrders  int64
	entries      []windowEntry
	head         int
	span         time.Duration
}

func NewAggregator() *Aggregator {
	return &Aggregator{span: 2 * OrderRateWindow}
}

// Record adds one order. at is the order's ingestion time.
func (a *Aggregator) Record(at time.Time, product string, quantity int, total decimal.Decimal, now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalRevenue = a.totalRevenue.Add(total)
	a.totalOrders++

	a.evict(now)
	if !at.After(now.Add(-a.span)) {
		return
	}

	a.entries = append(a.entries, windowEntry{at: at, product: product, quantity: quantity, total: total})
	// Concurrent appends may arrive slightly out of order.
	for i := len(a.entries) - 1; i > a.head && a.entries[i-1].at.After(a.entries[i].at); i-- {
		a.entries[i-1], a.entries[i] = a.entries[i], a.entries[i-1]
	}
}

// Counters returns totals and window metrics as of now.
func (a *Aggregator) Counters(now time.Time) Counters {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.evict(now)

	var current, prior decimal.Decimal
	inLastMinute := 0
	for _, e := range a.entries[a.head:] {
		if now.Sub(e.at) < OrderRateWindow {
			current = current.Add(e.total)
			inLastMinute++
		} else {
			prior = prior.Add(e.total)
		}
	}

	return Counters{
		TotalRevenue:       a.totalRevenue,
		TotalOrders:        a.totalOrders,
		OrdersInLastMinute: inLastMinute,
		RevenueChange:      RevenueChange(current, prior),
	}
}

// WindowQuantities sums quantity per product over the last OrderRateWindow.
func (a *Aggregator) WindowQuantities(now time.Time) map[string]int {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.evict(now)
	out := make(map[string]int)
	for _, e := range a.entries[a.head:] {
		if now.Sub(e.at) < OrderRateWindow {
			out[e.product] += e.quantity
		}
	}
	return out
}

// evict drops entries at least span old. The dead prefix is reclaimed once it
// makes up half the backing slice, which keeps eviction amortized O(1).
func (a *Aggregator) evict(now time.Time) {
	cutoff := now.Add(-a.span)
	for a.head < len(a.entries) && !a.entries[a.head].at.After(cutoff) {
		a.entries[a.head] = windowEntry{}
		a.head++
	}
	if a.head > 0 && a.head*2 >= len(a.entries) {
		n := copy(a.entries, a.entries[a.head:])
		a.entries = a.entries[:n]
		a.head = 0
	}
}

// RevenueChange is (current-prior)/prior*100. A zero prior yields 0 when the
// current window is also empty and NewRevenueChange otherwise.
func RevenueChange(current, prior decimal.Decimal) float64 {
	if prior.IsZero() {
		if current.IsZero() {
			return 0
		}
		return NewRevenueChange
	}
	return current.Sub(prior).Div(prior).Mul(hundred).Round(4).InexactFloat64()
}

// OrderTotal is quantity*price in exact decimal arithmetic.
func OrderTotal(quantity int, price float64) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}
