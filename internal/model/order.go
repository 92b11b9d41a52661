package model

import (
	"time"

	"github.com/google/uuid"
)

// Order is a single stored sale. Records are append-only: once persisted they
// are never updated or deleted.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductName string    `gorm:"type:varchar(255);not null;index" json:"productName"`
	Quantity    int       `gorm:"type:int;not null" json:"quantity"`
	Price       float64   `gorm:"type:numeric(14,4);not null" json:"price"`
	Date        time.Time `gorm:"not null" json:"date"`
	Total       float64   `gorm:"type:numeric(18,4);not null" json:"total"`
	CreatedAt   time.Time `gorm:"not null;index" json:"-"`
}

// OrderInput is the client-supplied part of an order (everything but id and total).
type OrderInput struct {
	ProductName string  `json:"productName" example:"Widget"`
	Quantity    int     `json:"quantity" example:"3"`
	Price       float64 `json:"price" example:"10"`
	Date        string  `json:"date" example:"2024-01-01T00:00:00Z"`
}
