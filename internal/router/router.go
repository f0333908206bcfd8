package router

import (
	"net/http"

	"perde-store/internal/handler"
	"perde-store/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
// The order list, status update and bulk delete routes form the admin
// surface and sit behind the API key; everything else is the public
// storefront.
func New(
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/order", orderHandler.Create)
		r.Post("/payment", paymentHandler.Charge)

		r.Get("/products", productHandler.GetAll)
		r.Get("/products/{id}", productHandler.GetByID)

		r.Route("/cart/{accountID}", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/{itemID}", cartHandler.RemoveItem)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(apiKey, logger))
			r.Get("/order", orderHandler.List)
			r.Patch("/order", orderHandler.UpdateStatus)
			r.Delete("/products", productHandler.BulkDelete)
		})
	})

	return r
}
