package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/felipenb/go_sales/internal/paging"
	"github.com/felipenb/go_sales/internal/repository"
	"github.com/felipenb/go_sales/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, statusCode int, code, message string) {
	respondJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// handleServiceError maps domain and repository errors onto HTTP status
// codes. Validation failures and bad sort specs are client errors;
// anything unrecognized is a server fault.
func handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Code:    "validation_error",
			Details: validationErr.Violations,
		})
		return
	}

	var unknownProducts *service.UnknownProductsError
	if errors.As(err, &unknownProducts) {
		respondError(w, http.StatusNotFound, "products_not_found", unknownProducts.Error())
		return
	}

	switch {
	case errors.Is(err, repository.ErrCartNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, repository.ErrDuplicateUser):
		respondError(w, http.StatusConflict, "duplicate_user", err.Error())
	case errors.Is(err, paging.ErrUnknownField):
		respondError(w, http.StatusBadRequest, "invalid_order", err.Error())
	case errors.Is(err, paging.ErrInvalidPage):
		respondError(w, http.StatusBadRequest, "invalid_page", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
