package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uuid.UUID
	Title       string
	Price       decimal.Decimal
	Description string
	Category    string
	Image       string
	RatingRate  float64
	RatingCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
