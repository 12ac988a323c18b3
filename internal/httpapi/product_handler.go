package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/felipenb/go_sales/internal/domain"
	"github.com/felipenb/go_sales/internal/paging"
	"github.com/felipenb/go_sales/internal/service"
)

type ProductService interface {
	CreateProduct(ctx context.Context, in service.ProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in service.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, page, size int, order string) (paging.PagedResult[domain.Product], error)
	ListProductsByCategory(ctx context.Context, category string, page, size int, order string) (paging.PagedResult[domain.Product], error)
	ListCategories(ctx context.Context) ([]string, error)
}

type ProductHandler struct {
	products ProductService
}

func NewProductHandler(products ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

type ProductRequestDTO struct {
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	RatingRate  float64         `json:"ratingRate"`
	RatingCount int             `json:"ratingCount"`
}

type ProductResponseDTO struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	RatingRate  float64         `json:"ratingRate"`
	RatingCount int             `json:"ratingCount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func toProductResponse(product *domain.Product) ProductResponseDTO {
	return ProductResponseDTO{
		ID:          product.ID,
		Title:       product.Title,
		Price:       product.Price,
		Description: product.Description,
		Category:    product.Category,
		Image:       product.Image,
		RatingRate:  product.RatingRate,
		RatingCount: product.RatingCount,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func productInput(req ProductRequestDTO) service.ProductInput {
	return service.ProductInput{
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
		RatingRate:  req.RatingRate,
		RatingCount: req.RatingCount,
	}
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "invalid_title", "title must not be empty")
		return
	}
	if req.Price.Sign() <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must be positive")
		return
	}

	product, err := h.products.CreateProduct(r.Context(), productInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), id, productInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, size, order := parseListParams(r)

	result, err := h.products.ListProducts(r.Context(), page, size, order)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondProductPage(w, result)
}

func (h *ProductHandler) ListProductsByCategory(w http.ResponseWriter, r *http.Request) {
	page, size, order := parseListParams(r)
	category := chi.URLParam(r, "category")

	result, err := h.products.ListProductsByCategory(r.Context(), category, page, size, order)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondProductPage(w, result)
}

func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.ListCategories(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, categories)
}

func respondProductPage(w http.ResponseWriter, result paging.PagedResult[domain.Product]) {
	items := make([]ProductResponseDTO, len(result.Items))
	for i := range result.Items {
		items[i] = toProductResponse(&result.Items[i])
	}
	respondJSON(w, http.StatusOK, paging.PagedResult[ProductResponseDTO]{
		Items:       items,
		TotalItems:  result.TotalItems,
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
	})
}
