package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(carts *CartHandler, products *ProductHandler, users *UserHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/carts", func(r chi.Router) {
		r.Get("/", carts.ListCarts)
		r.Post("/", carts.CreateCart)
		r.Get("/{id}", carts.GetCart)
		r.Put("/{id}", carts.UpdateCart)
		r.Patch("/{id}/cancel", carts.CancelCart)
		r.Delete("/{id}", carts.DeleteCart)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", products.ListProducts)
		r.Post("/", products.CreateProduct)
		r.Get("/categories", products.ListCategories)
		r.Get("/category/{category}", products.ListProductsByCategory)
		r.Get("/{id}", products.GetProduct)
		r.Put("/{id}", products.UpdateProduct)
		r.Delete("/{id}", products.DeleteProduct)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", users.ListUsers)
		r.Post("/", users.CreateUser)
		r.Get("/{id}", users.GetUser)
		r.Put("/{id}", users.UpdateUser)
		r.Delete("/{id}", users.DeleteUser)
	})

	return r
}
