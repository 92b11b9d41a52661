package service

import (
	"context"
	"fmt"
	"time"

	"salesanalytics/internal/apperr"
	"salesanalytics/internal/model"
	"salesanalytics/internal/repository"

	"github.com/shopspring/decimal"
)

type StatisticsService interface {
	GetStatistics(ctx context.Context, startDate, endDate time.Time) (model.SalesStatistics, error)
}

type statisticsService struct {
	repo     repository.StatisticsRepository
	topLimit int
}

func NewStatisticsService(repo repository.StatisticsRepository, topLimit int) StatisticsService {
	if topLimit <= 0 {
		topLimit = 5
	}
	return &statisticsService{repo: repo, topLimit: topLimit}
}

// GetStatistics summarizes stored orders dated within [startDate, endDate].
func (s *statisticsService) GetStatistics(ctx context.Context, startDate, endDate time.Time) (model.SalesStatistics, error) {
	if endDate.Before(startDate) {
		return model.SalesStatistics{}, apperr.Validation("endDate", "must not be before startDate")
	}

	revenue, count, err := s.repo.GetSalesSummary(ctx, startDate, endDate)
	if err != nil {
		return model.SalesStatistics{}, fmt.Errorf("failed to summarize sales: %w", err)
	}
	top, err := s.repo.GetTopProducts(ctx, startDate, endDate, s.topLimit)
	if err != nil {
		return model.SalesStatistics{}, fmt.Errorf("failed to rank products: %w", err)
	}
	if top == nil {
		top = []model.ProductRanking{}
	}

	stats := model.SalesStatistics{
		StartDate:    startDate,
		EndDate:      endDate,
		TotalRevenue: revenue,
		TotalOrders:  count,
		TopProducts:  top,
	}
	if count > 0 {
		stats.AverageOrderValue = decimal.NewFromFloat(revenue).
			Div(decimal.NewFromInt(count)).
			Round(4).
			InexactFloat64()
	}
	return stats, nil
}
