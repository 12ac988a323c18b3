package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/felipenb/go_sales/internal/domain"
	"github.com/felipenb/go_sales/internal/paging"
	"github.com/felipenb/go_sales/internal/repository"
)

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	users    repository.UserRepository
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, users repository.UserRepository) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		users:    users,
	}
}

// CreateCart builds a cart with a freshly drawn sale number and catalog
// prices, validates it, and persists it. Caller-supplied prices are
// never trusted.
func (s *CartService) CreateCart(ctx context.Context, userID uuid.UUID, branch string, items []domain.ItemInput) (*domain.Cart, error) {
	if err := s.checkReferences(ctx, userID, items); err != nil {
		return nil, err
	}

	now := time.Now()
	cart := &domain.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		Branch:    branch,
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	saleNumber, err := s.carts.NextSaleNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("assign sale number: %w", err)
	}
	cart.SaleNumber = saleNumber

	if e2 := cart.ReplaceItems(ctx, s.products, items); e2 != nil {
		return nil, e2
	}

	if violations := cart.Validate(); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	if e3 := s.carts.Create(ctx, cart); e3 != nil {
		log.Printf("repo create cart error: %v \n", e3)
		return nil, e3
	}
	return cart, nil
}

// UpdateCart applies replace-items semantics: the stored item collection
// is discarded and rebuilt from the request, with prices re-resolved
// from the catalog.
func (s *CartService) UpdateCart(ctx context.Context, id, userID uuid.UUID, branch string, items []domain.ItemInput) (*domain.Cart, error) {
	cart, err := s.carts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if e2 := s.checkReferences(ctx, userID, items); e2 != nil {
		return nil, e2
	}

	cart.UserID = userID
	cart.Branch = branch
	cart.UpdatedAt = time.Now()
	if e3 := cart.ReplaceItems(ctx, s.products, items); e3 != nil {
		return nil, e3
	}

	if violations := cart.Validate(); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	if e4 := s.carts.Update(ctx, cart); e4 != nil {
		log.Printf("repo update cart error: %v \n", e4)
		return nil, e4
	}
	return cart, nil
}

func (s *CartService) GetCart(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	return s.carts.GetByID(ctx, id)
}

// CancelCart latches the cart as cancelled. Cancelling an already
// cancelled cart succeeds without effect.
func (s *CartService) CancelCart(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	cart, err := s.carts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cart.Cancel()
	if e2 := s.carts.Cancel(ctx, id); e2 != nil {
		log.Printf("repo cancel cart error: %v \n", e2)
		return nil, e2
	}
	return cart, nil
}

func (s *CartService) DeleteCart(ctx context.Context, id uuid.UUID) error {
	return s.carts.Delete(ctx, id)
}

// ListCarts returns one page of carts ordered by the caller's spec.
// Page and size must already be normalized to >= 1.
func (s *CartService) ListCarts(ctx context.Context, page, size int, order string) (paging.PagedResult[domain.Cart], error) {
	carts, err := s.carts.List(ctx)
	if err != nil {
		return paging.PagedResult[domain.Cart]{}, err
	}
	return paging.Apply(carts, order, page, size, cartSortFields)
}

// checkReferences verifies the user and every product exist before any
// mutation. Missing products are collected so the caller learns about
// all of them at once.
func (s *CartService) checkReferences(ctx context.Context, userID uuid.UUID, items []domain.ItemInput) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user %s: %w", userID, err)
	}
	if !ok {
		return fmt.Errorf("user %s: %w", userID, repository.ErrUserNotFound)
	}

	var missing []uuid.UUID
	for _, item := range items {
		exists, e2 := s.products.Exists(ctx, item.ProductID)
		if e2 != nil {
			return fmt.Errorf("check product %s: %w", item.ProductID, e2)
		}
		if !exists {
			missing = append(missing, item.ProductID)
		}
	}
	if len(missing) > 0 {
		return &UnknownProductsError{ProductIDs: missing}
	}
	return nil
}
