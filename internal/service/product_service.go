package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/felipenb/go_sales/internal/domain"
	"github.com/felipenb/go_sales/internal/paging"
	"github.com/felipenb/go_sales/internal/repository"
)

type ProductService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

type ProductInput struct {
	Title       string
	Price       decimal.Decimal
	Description string
	Category    string
	Image       string
	RatingRate  float64
	RatingCount int
}

func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		Image:       in.Image,
		RatingRate:  in.RatingRate,
		RatingCount: in.RatingCount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Title = in.Title
	product.Price = in.Price
	product.Description = in.Description
	product.Category = in.Category
	product.Image = in.Image
	product.RatingRate = in.RatingRate
	product.RatingCount = in.RatingCount
	product.UpdatedAt = time.Now()

	if e2 := s.products.Update(ctx, product); e2 != nil {
		return nil, e2
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

func (s *ProductService) ListProducts(ctx context.Context, page, size int, order string) (paging.PagedResult[domain.Product], error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return paging.PagedResult[domain.Product]{}, err
	}
	return paging.Apply(products, order, page, size, productSortFields)
}

func (s *ProductService) ListProductsByCategory(ctx context.Context, category string, page, size int, order string) (paging.PagedResult[domain.Product], error) {
	products, err := s.products.ListByCategory(ctx, category)
	if err != nil {
		return paging.PagedResult[domain.Product]{}, err
	}
	return paging.Apply(products, order, page, size, productSortFields)
}

func (s *ProductService) ListCategories(ctx context.Context) ([]string, error) {
	return s.products.Categories(ctx)
}
