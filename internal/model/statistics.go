package model

import (
	"time"
)

// SalesStatistics summarizes stored orders whose business date falls in a range
type SalesStatistics struct {
	StartDate         time.Time        `json:"startDate"`
	EndDate           time.Time        `json:"endDate"`
	TotalRevenue      float64          `json:"totalRevenue"`
	TotalOrders       int64            `json:"totalOrders"`
	AverageOrderValue float64          `json:"averageOrderValue"`
	TopProducts       []ProductRanking `json:"topProducts"`
}

// ProductRanking represents a product ranked by sales within the range
type ProductRanking struct {
	ProductName   string  `json:"productName"`
	TotalQuantity int64   `json:"totalQuantity"`
	TotalValue    float64 `json:"totalValue"`
}

// RevenuePoint is revenue for one period bucket; Period is the bucket's
// first day as YYYY-MM-DD.
type RevenuePoint struct {
	Period       string  `json:"period"`
	TotalRevenue float64 `json:"totalRevenue"`
	Orders       int64   `json:"orders"`
}
