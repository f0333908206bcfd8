package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"perde-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductHandler handles catalogue HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	products, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve products", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "product ID is required", h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve product", h.logger)
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "product not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

type bulkDeleteResponse struct {
	Status  string                 `json:"status"`
	Results []service.DeleteResult `json:"results"`
}

// BulkDelete handles DELETE /api/products requests. Partial failure is
// reported per entry rather than as an aggregate count.
func (h *ProductHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids are required", h.logger)
		return
	}

	results := h.service.BulkDelete(r.Context(), req.IDs)
	writeJSON(w, http.StatusOK, bulkDeleteResponse{Status: "success", Results: results})
}

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, key string, defaultValue int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
