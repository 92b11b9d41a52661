package repository

import (
	"context"
	"sort"
	"time"

	"salesanalytics/internal/model"

	"github.com/shopspring/decimal"
)

var _ StatisticsRepository = (*MemoryOrderRepository)(nil)

func (r *MemoryOrderRepository) GetSalesSummary(ctx context.Context, start, end time.Time) (float64, int64, error) {
	revenue := decimal.Zero
	var count int64
	r.eachInRange(start, end, func(o model.Order) {
		revenue = revenue.Add(decimal.NewFromFloat(o.Total))
		count++
	})
	return revenue.InexactFloat64(), count, nil
}

func (r *MemoryOrderRepository) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]model.ProductRanking, error) {
	type totals struct {
		quantity int64
		value    decimal.Decimal
	}
	byProduct := make(map[string]*totals)
	r.eachInRange(start, end, func(o model.Order) {
		t, ok := byProduct[o.ProductName]
		if !ok {
			t = &totals{}
			byProduct[o.ProductName] = t
		}
		t.quantity += int64(o.Quantity)
		t.value = t.value.Add(decimal.NewFromFloat(o.Total))
	})

	rankings := make([]model.ProductRanking, 0, len(byProduct))
	for name, t := range byProduct {
		rankings = append(rankings, model.ProductRanking{
			ProductName:   name,
			TotalQuantity: t.quantity,
			TotalValue:    t.value.InexactFloat64(),
		})
	}
	sort.Slice(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]
		if a.TotalValue != b.TotalValue {
			return a.TotalValue > b.TotalValue
		}
		if a.TotalQuantity != b.TotalQuantity {
			return a.TotalQuantity > b.TotalQuantity
		}
		return a.ProductName < b.ProductName
	})
	if limit > 0 && len(rankings) > limit {
		rankings = rankings[:limit]
	}
	return rankings, nil
}

func (r *MemoryOrderRepository) eachInRange(start, end time.Time, fn func(model.Order)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.Date.Before(start) || o.Date.After(end) {
			continue
		}
		fn(o)
	}
}

var _ RevenueRepository = (*MemoryOrderRepository)(nil)

func (r *MemoryOrderRepository) GetRevenueSeries(ctx context.Context, groupBy string, start, end time.Time) ([]model.RevenuePoint, error) {
	type bucket struct {
		revenue decimal.Decimal
		orders  int64
	}
	buckets := make(map[string]*bucket)
	r.eachInRange(start, end, func(o model.Order) {
		key := truncatePeriod(o.Date, groupBy).Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.revenue = b.revenue.Add(decimal.NewFromFloat(o.Total))
		b.orders++
	})

	points := make([]model.RevenuePoint, 0, len(buckets))
	for period, b := range buckets {
		points = append(points, model.RevenuePoint{Period: period, TotalRevenue: b.revenue.InexactFloat64(), Orders: b.orders})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points, nil
}

// truncatePeriod mirrors postgres DATE_TRUNC in UTC; weeks start on Monday.
func truncatePeriod(t time.Time, groupBy string) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch groupBy {
	case GroupByWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case GroupByMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}
