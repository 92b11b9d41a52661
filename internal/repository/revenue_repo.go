package repository

import (
	"context"
	"time"

	"salesanalytics/internal/model"

	"gorm.io/gorm"
)

// Revenue buckets accepted by RevenueRepository.
const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
)

type RevenueRepository interface {
	// GetRevenueSeries buckets orders dated within [start, end] by groupBy,
	// oldest bucket first. Empty buckets are omitted.
	GetRevenueSeries(ctx context.Context, groupBy string, start, end time.Time) ([]model.RevenuePoint, error)
}

type revenueRepository struct {
	db *gorm.DB
}

func NewRevenueRepository(db *gorm.DB) RevenueRepository {
	return &revenueRepository{db: db}
}

func (r *revenueRepository) GetRevenueSeries(ctx context.Context, groupBy string, start, end time.Time) ([]model.RevenuePoint, error) {
	query := `
		SELECT
			TO_CHAR(DATE_TRUNC($1, o.date AT TIME ZONE 'UTC'), 'YYYY-MM-DD') AS period,
			COALESCE(SUM(o.total), 0) AS total_revenue,
			COUNT(*) AS orders
		FROM orders o
		WHERE o.date >= $2
		  AND o.date <= $3
		GROUP BY DATE_TRUNC($1, o.date AT TIME ZONE 'UTC')
		ORDER BY period
	`

	var rows []model.RevenuePoint
	if err := r.db.WithContext(ctx).Raw(query, groupBy, start, end).Scan(&rows).Error; err != nil {
		return nil, classify("query revenue series", err)
	}
	return rows, nil
}
