package repository

import (
	"context"
	"errors"

	"salesanalytics/internal/apperr"
	"salesanalytics/internal/model"
	"salesanalytics/pkg/pagination"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// OrderRepository is the durable, append-only order log.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, page, limit int) ([]model.Order, int64, error)
	// Walk visits every stored order in batches. Batch order is unspecified.
	Walk(ctx context.Context, batchSize int, fn func(batch []model.Order) error) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return classify("create order", err)
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order", id.String())
		}
		return nil, classify("find order", err)
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, page, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Order{}).Count(&total).Error; err != nil {
		return nil, 0, classify("count orders", err)
	}

	params := pagination.Params{Page: page, Limit: limit}
	if err := db.
		Order("created_at DESC").
		Offset(params.Offset()).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, classify("list orders", err)
	}

	return orders, total, nil
}

func (r *orderRepository) Walk(ctx context.Context, batchSize int, fn func(batch []model.Order) error) error {
	var batch []model.Order
	res := r.db.WithContext(ctx).FindInBatches(&batch, batchSize, func(_ *gorm.DB, _ int) error {
		return fn(batch)
	})
	if res.Error != nil {
		return classify("walk orders", res.Error)
	}
	return nil
}

// classify maps GORM failures onto the store error taxonomy. Anything that is
// not a data or programming error is treated as the store being unavailable.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && isDataError(pgErr.Code):
		return apperr.Internal(op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrInvalidData),
		errors.Is(err, gorm.ErrInvalidValue),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrCheckConstraintViolated):
		return apperr.Internal(op, err)
	default:
		return apperr.Transient(op, err)
	}
}

// isDataError reports SQLSTATE classes that retrying cannot fix: data
// exceptions (22), integrity violations (23) and syntax or access errors (42).
func isDataError(code string) bool {
	if len(code) < 2 {
		return false
	}
	switch code[:2] {
	case "22", "23", "42":
		return true
	}
	return false
}
