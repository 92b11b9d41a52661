package analytics

import (
	"sort"
	"sync"

	"salesanalytics/internal/model"

	"github.com/shopspring/decimal"
)

type productTotals struct {
	sales    decimal.Decimal
	quantity int64
}

// Ranker keeps per-product sales totals. Ranking happens lazily on read.
type Ranker struct {
	mu       sync.RWMutex
	products map[string]*productTotals
	total    decimal.Decimal
}

func NewRanker() *Ranker {
	return &Ranker{products: make(map[string]*productTotals)}
}

func (r *Ranker) Record(product string, quantity int, total decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[product]
	if !ok {
		p = &productTotals{}
		r.products[product] = p
	}
	p.sales = p.sales.Add(total)
	p.quantity += int64(quantity)
	r.total = r.total.Add(total)
}

type rankEntry struct {
	name string
	productTotals
}

// Top returns at most n products ordered by sales, then quantity, then name.
// Percentages are shares of the ranker's own grand total, so they never sum
// past 100 even while other aggregates are catching up.
func (r *Ranker) Top(n int) []model.TopProduct {
	r.mu.RLock()
	entries := make([]rankEntry, 0, len(r.products))
	for name, p := range r.products {
		entries = append(entries, rankEntry{name: name, productTotals: *p})
	}
	total := r.total
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].sales.Cmp(entries[j].sales); c != 0 {
			return c > 0
		}
		if entries[i].quantity != entries[j].quantity {
			return entries[i].quantity > entries[j].quantity
		}
		return entries[i].name < entries[j].name
	})

	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}

	out := make([]model.TopProduct, 0, len(entries))
	for _, e := range entries {
		pct := 0.0
		if total.IsPositive() {
			pct = e.sales.Div(total).Mul(hundred).Round(4).InexactFloat64()
		}
		out = append(out, model.TopProduct{
			Name:       e.name,
			TotalSales: e.sales.InexactFloat64(),
			Quantity:   e.quantity,
			Percentage: pct,
		})
	}
	return out
}
