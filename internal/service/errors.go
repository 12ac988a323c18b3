package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/felipenb/go_sales/internal/domain"
)

// ValidationError carries the advisory violation list produced by
// Cart.Validate once a use case decides to reject on it.
type ValidationError struct {
	Violations []domain.Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// UnknownProductsError lists every product id in a request that does not
// exist in the catalog, so one round-trip reports them all.
type UnknownProductsError struct {
	ProductIDs []uuid.UUID
}

func (e *UnknownProductsError) Error() string {
	ids := make([]string, len(e.ProductIDs))
	for i, id := range e.ProductIDs {
		ids[i] = id.String()
	}
	return "products do not exist: " + strings.Join(ids, ", ")
}
