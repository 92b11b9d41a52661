package repository

import (
	"context"
	"testing"
	"time"

	"salesanalytics/internal/model"
)

func TestMemoryStatisticsRange(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository()
	day := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }

	seed := []model.Order{
		{ProductName: "a", Quantity: 2, Price: 5, Total: 10, Date: day(1)},
		{ProductName: "b", Quantity: 1, Price: 0.1, Total: 0.1, Date: day(2)},
		{ProductName: "b", Quantity: 2, Price: 0.1, Total: 0.2, Date: day(2)},
		{ProductName: "c", Quantity: 9, Price: 9, Total: 81, Date: day(20)},
	}
	for i := range seed {
		seed[i].CreatedAt = day(25)
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	revenue, count, err := repo.GetSalesSummary(ctx, day(1), day(2))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if count != 3 || revenue != 10.3 {
		t.Fatalf("expected 3 orders worth 10.3, got %d worth %v", count, revenue)
	}

	top, err := repo.GetTopProducts(ctx, day(1), day(31), 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].ProductName != "c" || top[1].ProductName != "a" {
		t.Fatalf("unexpected ranking %+v", top)
	}

	top, _ = repo.GetTopProducts(ctx, day(2), day(2), 5)
	if len(top) != 1 || top[0].TotalQuantity != 3 || top[0].TotalValue != 0.3 {
		t.Fatalf("unexpected ranking %+v", top)
	}
}

func TestMemoryRevenueSeries(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository()
	for _, d := range []time.Time{
		time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC),  // Monday
		time.Date(2024, 4, 7, 23, 0, 0, 0, time.UTC), // Sunday, same week
		time.Date(2024, 4, 8, 1, 0, 0, 0, time.UTC),  // next Monday
		time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
	} {
		o := model.Order{ProductName: "a", Quantity: 1, Price: 2.5, Total: 2.5, Date: d}
		if err := repo.Create(ctx, &o); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		groupBy string
		want    []model.RevenuePoint
	}{
		{groupBy: GroupByWeek, want: []model.RevenuePoint{
			{Period: "2024-04-01", TotalRevenue: 5, Orders: 2},
			{Period: "2024-04-08", TotalRevenue: 2.5, Orders: 1},
			{Period: "2024-04-29", TotalRevenue: 2.5, Orders: 1},
		}},
		{groupBy: GroupByMonth, want: []model.RevenuePoint{
			{Period: "2024-04-01", TotalRevenue: 7.5, Orders: 3},
			{Period: "2024-05-01", TotalRevenue: 2.5, Orders: 1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.groupBy, func(t *testing.T) {
			got, err := repo.GetRevenueSeries(ctx, tt.groupBy, start, end)
			if err != nil {
				t.Fatalf("series: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %+v, got %+v", tt.want, got)
				}
			}
		})
	}
}
