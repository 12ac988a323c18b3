package httpapi

import (
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// parseListParams reads the _page/_size/_order query parameters and
// normalizes page and size to the engine's preconditions (both >= 1,
// size capped). The order spec is passed through untouched; the paging
// engine owns its parsing.
func parseListParams(r *http.Request) (page, size int, order string) {
	query := r.URL.Query()

	page = 1
	if v, err := strconv.Atoi(query.Get("_page")); err == nil && v >= 1 {
		page = v
	}

	size = defaultPageSize
	if v, err := strconv.Atoi(query.Get("_size")); err == nil && v >= 1 {
		size = v
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return page, size, query.Get("_order")
}
