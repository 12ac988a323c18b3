package service

import (
	"cmp"
	"strings"

	"github.com/felipenb/go_sales/internal/domain"
	"github.com/felipenb/go_sales/internal/paging"
)

// Allow-listed sortable fields per entity, resolved once at startup.
// Field names outside these maps are rejected by the paging engine
// instead of being reflected onto struct members.

var cartSortFields = paging.FieldSet[domain.Cart]{
	"id": func(a, b domain.Cart) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	},
	"userid": func(a, b domain.Cart) int {
		return strings.Compare(a.UserID.String(), b.UserID.String())
	},
	"branch": func(a, b domain.Cart) int {
		return strings.Compare(a.Branch, b.Branch)
	},
	"salenumber": func(a, b domain.Cart) int {
		return cmp.Compare(a.SaleNumber, b.SaleNumber)
	},
	"date": func(a, b domain.Cart) int {
		return a.Date.Compare(b.Date)
	},
	"totalamount": func(a, b domain.Cart) int {
		return a.TotalAmount().Cmp(b.TotalAmount())
	},
}

var productSortFields = paging.FieldSet[domain.Product]{
	"id": func(a, b domain.Product) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	},
	"title": func(a, b domain.Product) int {
		return strings.Compare(a.Title, b.Title)
	},
	"price": func(a, b domain.Product) int {
		return a.Price.Cmp(b.Price)
	},
	"category": func(a, b domain.Product) int {
		return strings.Compare(a.Category, b.Category)
	},
	"ratingrate": func(a, b domain.Product) int {
		return cmp.Compare(a.RatingRate, b.RatingRate)
	},
	"ratingcount": func(a, b domain.Product) int {
		return cmp.Compare(a.RatingCount, b.RatingCount)
	},
}

var userSortFields = paging.FieldSet[domain.User]{
	"id": func(a, b domain.User) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	},
	"username": func(a, b domain.User) int {
		return strings.Compare(a.Username, b.Username)
	},
	"email": func(a, b domain.User) int {
		return strings.Compare(a.Email, b.Email)
	},
	"name": func(a, b domain.User) int {
		return strings.Compare(a.Name, b.Name)
	},
	"status": func(a, b domain.User) int {
		return strings.Compare(string(a.Status), string(b.Status))
	},
	"role": func(a, b domain.User) int {
		return strings.Compare(string(a.Role), string(b.Role))
	},
}
