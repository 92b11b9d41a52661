package service

import (
	"context"
	"fmt"
	"time"

	"salesanalytics/internal/apperr"
	"salesanalytics/internal/model"
	"salesanalytics/internal/repository"
)

type RevenueFilter struct {
	GroupBy   string // day, week, month
	StartDate time.Time
	EndDate   time.Time
}

type RevenueService interface {
	GetRevenueSeries(ctx context.Context, filter RevenueFilter) ([]model.RevenuePoint, error)
}

type revenueService struct {
	repo repository.RevenueRepository
}

func NewRevenueService(repo repository.RevenueRepository) RevenueService {
	return &revenueService{repo: repo}
}

func (s *revenueService) GetRevenueSeries(ctx context.Context, filter RevenueFilter) ([]model.RevenuePoint, error) {
	switch filter.GroupBy {
	case repository.GroupByDay, repository.GroupByWeek, repository.GroupByMonth:
	case "":
		filter.GroupBy = repository.GroupByDay
	default:
		return nil, apperr.Validation("groupBy", "must be one of: day, week, month")
	}
	if filter.EndDate.Before(filter.StartDate) {
		return nil, apperr.Validation("endDate", "must not be before startDate")
	}

	points, err := s.repo.GetRevenueSeries(ctx, filter.GroupBy, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue series: %w", err)
	}
	if points == nil {
		points = []model.RevenuePoint{}
	}
	return points, nil
}
