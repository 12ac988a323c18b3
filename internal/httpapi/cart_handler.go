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
)

// CartService is the use-case surface the handler needs.
type CartService interface {
	CreateCart(ctx context.Context, userID uuid.UUID, branch string, items []domain.ItemInput) (*domain.Cart, error)
	UpdateCart(ctx context.Context, id, userID uuid.UUID, branch string, items []domain.ItemInput) (*domain.Cart, error)
	GetCart(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	CancelCart(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	DeleteCart(ctx context.Context, id uuid.UUID) error
	ListCarts(ctx context.Context, page, size int, order string) (paging.PagedResult[domain.Cart], error)
}

type CartHandler struct {
	carts CartService
}

func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type CartItemRequestDTO struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type CartRequestDTO struct {
	UserID uuid.UUID            `json:"userId"`
	Branch string               `json:"branch"`
	Items  []CartItemRequestDTO `json:"items"`
}

type CartItemResponseDTO struct {
	ProductID       uuid.UUID       `json:"productId"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	LineTotal       decimal.Decimal `json:"lineTotal"`
}

type CartResponseDTO struct {
	ID          uuid.UUID             `json:"id"`
	UserID      uuid.UUID             `json:"userId"`
	Branch      string                `json:"branch"`
	SaleNumber  int64                 `json:"saleNumber"`
	Date        time.Time             `json:"date"`
	Cancelled   bool                  `json:"cancelled"`
	Items       []CartItemResponseDTO `json:"items"`
	TotalAmount decimal.Decimal       `json:"totalAmount"`
}

func toCartResponse(cart *domain.Cart) CartResponseDTO {
	items := make([]CartItemResponseDTO, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemResponseDTO{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent(),
			LineTotal:       item.LineTotal(),
		}
	}
	return CartResponseDTO{
		ID:          cart.ID,
		UserID:      cart.UserID,
		Branch:      cart.Branch,
		SaleNumber:  cart.SaleNumber,
		Date:        cart.Date,
		Cancelled:   cart.Cancelled,
		Items:       items,
		TotalAmount: cart.TotalAmount(),
	}
}

func itemInputs(items []CartItemRequestDTO) []domain.ItemInput {
	inputs := make([]domain.ItemInput, len(items))
	for i, item := range items {
		inputs[i] = domain.ItemInput{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return inputs
}

func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	var req CartRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart, err := h.carts.CreateCart(r.Context(), req.UserID, req.Branch, itemInputs(req.Items))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCartResponse(cart))
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.GetCart(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req CartRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart, err := h.carts.UpdateCart(r.Context(), id, req.UserID, req.Branch, itemInputs(req.Items))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) CancelCart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.CancelCart(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.carts.DeleteCart(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) ListCarts(w http.ResponseWriter, r *http.Request) {
	page, size, order := parseListParams(r)
	if order == "" {
		order = "branch asc"
	}

	result, err := h.carts.ListCarts(r.Context(), page, size, order)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]CartResponseDTO, len(result.Items))
	for i := range result.Items {
		items[i] = toCartResponse(&result.Items[i])
	}
	respondJSON(w, http.StatusOK, paging.PagedResult[CartResponseDTO]{
		Items:       items,
		TotalItems:  result.TotalItems,
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
	})
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
