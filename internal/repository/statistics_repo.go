package repository

import (
	"context"
	"time"

	"salesanalytics/internal/model"

	"gorm.io/gorm"
)

// StatisticsRepository answers range queries over the order log by business
// date. Both bounds are inclusive.
type StatisticsRepository interface {
	GetSalesSummary(ctx context.Context, start, end time.Time) (revenue float64, count int64, err error)
	GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]model.ProductRanking, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) GetSalesSummary(ctx context.Context, start, end time.Time) (float64, int64, error) {
	var result struct {
		Value float64
		Count int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(total), 0) as value, COUNT(*) as count").
		Where("date >= ? AND date <= ?", start, end).
		Scan(&result).Error; err != nil {
		return 0, 0, classify("summarize orders", err)
	}
	return result.Value, result.Count, nil
}

func (r *statisticsRepository) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]model.ProductRanking, error) {
	var rankings []model.ProductRanking
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("product_name, SUM(quantity) as total_quantity, SUM(total) as total_value").
		Where("date >= ? AND date <= ?", start, end).
		Group("product_name").
		Order("total_value DESC, total_quantity DESC, product_name ASC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, classify("rank products", err)
	}
	return rankings, nil
}
