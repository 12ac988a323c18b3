// Package paging turns a caller-supplied order specification into a
// deterministic multi-key sort over an entity slice and slices one page
// out of the result.
package paging

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownField is returned when an order spec names a field
	// outside the entity's allow-list.
	ErrUnknownField = errors.New("unknown sort field")
	// ErrInvalidPage is returned when page or size is below 1. Callers
	// are expected to normalize both before invoking the engine.
	ErrInvalidPage = errors.New("page and size must be at least 1")
)

type PagedResult[T any] struct {
	Items       []T `json:"items"`
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

// FieldSet is the allow-list of sortable fields for an entity type:
// lower-case field name to three-way comparator. Anything not listed
// here cannot be sorted on.
type FieldSet[T any] map[string]func(a, b T) int

type sortKey[T any] struct {
	compare func(a, b T) int
	desc    bool
}

// parseSpec splits the order spec on commas, then each token on
// whitespace. The first word is the field name (case-insensitive), an
// optional second word "desc" flips the direction. An empty spec means
// no explicit ordering.
func parseSpec[T any](spec string, fields FieldSet[T]) ([]sortKey[T], error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}

	var keys []sortKey[T]
	for _, token := range strings.Split(spec, ",") {
		parts := strings.Fields(token)
		if len(parts) == 0 {
			continue
		}
		compare, ok := fields[strings.ToLower(parts[0])]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, parts[0])
		}
		keys = append(keys, sortKey[T]{
			compare: compare,
			desc:    len(parts) > 1 && strings.EqualFold(parts[1], "desc"),
		})
	}
	return keys, nil
}

// Apply orders items by the spec and returns the requested page. The
// sort is stable: entities comparing equal across all keys keep their
// original relative order, and an empty spec preserves source order
// entirely. A page past the end yields empty items with totals intact.
func Apply[T any](items []T, spec string, page, size int, fields FieldSet[T]) (PagedResult[T], error) {
	if page < 1 || size < 1 {
		return PagedResult[T]{}, fmt.Errorf("%w: page=%d size=%d", ErrInvalidPage, page, size)
	}

	keys, err := parseSpec(spec, fields)
	if err != nil {
		return PagedResult[T]{}, err
	}

	ordered := make([]T, len(items))
	copy(ordered, items)
	if len(keys) > 0 {
		sort.SliceStable(ordered, func(i, j int) bool {
			for _, key := range keys {
				c := key.compare(ordered[i], ordered[j])
				if c == 0 {
					continue
				}
				if key.desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	total := len(ordered)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return PagedResult[T]{
		Items:       ordered[start:end],
		TotalItems:  total,
		CurrentPage: page,
		TotalPages:  (total + size - 1) / size,
	}, nil
}
