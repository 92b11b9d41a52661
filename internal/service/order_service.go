package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"salesanalytics/internal/analytics"
	"salesanalytics/internal/apperr"
	"salesanalytics/internal/metrics"
	"salesanalytics/internal/model"
	"salesanalytics/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Collaborators ---

// Publisher delivers push messages to subscribers.
type Publisher interface {
	Publish(msg model.WebSocketMessage)
}

// Notifier is told that the aggregates changed.
type Notifier interface {
	Notify()
}

// Mirror receives a copy of every stored order.
type Mirror interface {
	Mirror(order model.Order)
}

// --- Interface ---

type OrderService interface {
	Append(ctx context.Context, input model.OrderInput) (model.Order, error)
	List(ctx context.Context, page, limit int) ([]model.Order, int64, error)
	Get(ctx context.Context, id string) (model.Order, error)
}

// --- Implementation ---

type OrderServiceConfig struct {
	Repo      repository.OrderRepository
	Engine    *analytics.Engine
	Publisher Publisher
	Notifier  Notifier
	// Mirror is optional.
	Mirror  Mirror
	Clock   analytics.Clock
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

type orderService struct {
	repo      repository.OrderRepository
	engine    *analytics.Engine
	publisher Publisher
	notifier  Notifier
	mirror    Mirror
	now       analytics.Clock
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewOrderService(cfg OrderServiceConfig) OrderService {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &orderService{
		repo:      cfg.Repo,
		engine:    cfg.Engine,
		publisher: cfg.Publisher,
		notifier:  cfg.Notifier,
		mirror:    cfg.Mirror,
		now:       cfg.Clock,
		logger:    cfg.Logger.With("component", "orders"),
		metrics:   cfg.Metrics,
	}
}

// --- Validation helpers ---

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseOrderDate accepts RFC3339 and a few zone-less layouts, read as UTC.
func parseOrderDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// Money limits follow the orders table: price numeric(14,4), total numeric(18,4).
// Totals are further capped so they survive a float64 round trip unchanged.
const (
	priceScale    = 4
	maxPrice      = 1e10
	maxOrderTotal = 1e11
)

func validateOrderInput(input model.OrderInput) (string, time.Time, error) {
	name := strings.TrimSpace(input.ProductName)
	if name == "" {
		return "", time.Time{}, apperr.Validation("productName", "is required")
	}
	if input.Quantity <= 0 {
		return "", time.Time{}, apperr.Validation("quantity", "must be greater than 0")
	}
	if input.Quantity > math.MaxInt32 {
		return "", time.Time{}, apperr.Validation("quantity", "is too large")
	}
	if input.Price < 0 {
		return "", time.Time{}, apperr.Validation("price", "must not be negative")
	}
	price := decimal.NewFromFloat(input.Price)
	if !price.Equal(price.Truncate(priceScale)) {
		return "", time.Time{}, apperr.Validation("price", "must have at most 4 decimal places")
	}
	if input.Price >= maxPrice {
		return "", time.Time{}, apperr.Validation("price", "must be less than 10000000000")
	}
	if analytics.OrderTotal(input.Quantity, input.Price).GreaterThanOrEqual(decimal.NewFromFloat(maxOrderTotal)) {
		return "", time.Time{}, apperr.Validation("quantity", "order total must be less than 100000000000")
	}
	if strings.TrimSpace(input.Date) == "" {
		return "", time.Time{}, apperr.Validation("date", "is required")
	}
	date, err := parseOrderDate(input.Date)
	if err != nil {
		return "", time.Time{}, apperr.Validation("date", "must be an RFC3339 timestamp")
	}
	return name, date, nil
}

// --- Operations ---

// Append stores the order and only then publishes it and folds it into the
// aggregates. new_order is published before the order is applied so every
// analytics_update reflecting it reaches subscribers after it.
func (s *orderService) Append(ctx context.Context, input model.OrderInput) (model.Order, error) {
	name, date, err := validateOrderInput(input)
	if err != nil {
		s.metrics.OrderRejected("validation")
		return model.Order{}, err
	}

	order := model.Order{
		ID:          uuid.New(),
		ProductName: name,
		Quantity:    input.Quantity,
		Price:       input.Price,
		Date:        date,
		Total:       analytics.OrderTotal(input.Quantity, input.Price).InexactFloat64(),
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, &order); err != nil {
		reason := "internal"
		if apperr.IsTransient(err) {
			reason = "transient"
		}
		s.metrics.OrderRejected(reason)
		s.logger.Error("failed to store order", "product", name, "error", err)
		return model.Order{}, fmt.Errorf("failed to append order: %w", err)
	}

	s.publisher.Publish(model.WebSocketMessage{Type: model.MessageNewOrder, Data: order})
	s.engine.Apply(order)
	s.notifier.Notify()
	if s.mirror != nil {
		s.mirror.Mirror(order)
	}
	s.metrics.OrderIngested()

	s.logger.Debug("order appended", "order_id", order.ID, "product", name, "total", order.Total)
	return order, nil
}

func (s *orderService) List(ctx context.Context, page, limit int) ([]model.Order, int64, error) {
	orders, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, total, nil
}

func (s *orderService) Get(ctx context.Context, id string) (model.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return model.Order{}, apperr.Validation("id", "must be a valid UUID")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return model.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return *order, nil
}
