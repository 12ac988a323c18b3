package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/felipenb/go_sales/internal/domain"
	"github.com/felipenb/go_sales/internal/paging"
	"github.com/felipenb/go_sales/internal/service"
)

type UserService interface {
	CreateUser(ctx context.Context, in service.UserInput) (*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, in service.UserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context, page, size int, order string) (paging.PagedResult[domain.User], error)
}

type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

type UserRequestDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Role     string `json:"role"`
}

type UserResponseDTO struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(user *domain.User) UserResponseDTO {
	return UserResponseDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Name:      user.Name,
		Status:    string(user.Status),
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func userInput(req UserRequestDTO) service.UserInput {
	return service.UserInput{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Status:   domain.UserStatus(req.Status),
		Role:     domain.UserRole(req.Role),
	}
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Username == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_user", "username and email must not be empty")
		return
	}

	user, err := h.users.CreateUser(r.Context(), userInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UserRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.users.UpdateUser(r.Context(), id, userInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, size, order := parseListParams(r)
	if order == "" {
		order = "username asc,email desc"
	}

	result, err := h.users.ListUsers(r.Context(), page, size, order)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]UserResponseDTO, len(result.Items))
	for i := range result.Items {
		items[i] = toUserResponse(&result.Items[i])
	}
	respondJSON(w, http.StatusOK, paging.PagedResult[UserResponseDTO]{
		Items:       items,
		TotalItems:  result.TotalItems,
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
	})
}
