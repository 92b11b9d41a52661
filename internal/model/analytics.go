package model

// Analytics is the composed dashboard view served by GET /api/analytics and
// pushed as analytics_update.
type Analytics struct {
	TotalRevenue       float64      `json:"totalRevenue"`
	TotalOrders        int64        `json:"totalOrders"`
	TopProducts        []TopProduct `json:"topProducts"`
	RecentOrders       []Order      `json:"recentOrders"`
	RevenueChange      float64      `json:"revenueChange"`
	OrdersInLastMinute int          `json:"ordersInLastMinute"`
}

// TopProduct represents a ranked product based on accumulated sales
type TopProduct struct {
	Name       string  `json:"name"`
	TotalSales float64 `json:"totalSales"`
	Quantity   int64   `json:"quantity"`
	Percentage float64 `json:"percentage"`
}
