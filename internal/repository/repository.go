package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/felipenb/go_sales/internal/domain"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateUser   = errors.New("username or email already taken")
)

// CartRepository defines cart persistence operations. Consumers define
// this interface, not the Postgres implementation.
type CartRepository interface {
	Create(ctx context.Context, cart *domain.Cart) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	Update(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]domain.Cart, error)
	// NextSaleNumber draws the next value from a monotonically
	// increasing sequence shared by all carts.
	NextSaleNumber(ctx context.Context) (int64, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// PriceByID satisfies domain.PriceLookup.
	PriceByID(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]domain.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
