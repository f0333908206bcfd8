package handler

import (
	"encoding/json"
	"net/http"

	"perde-store/internal/model"
	"perde-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartHandler handles account-scoped cart HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

type cartResponse struct {
	Status string           `json:"status"`
	Items  []model.CartItem `json:"items"`
}

type cartItemResponse struct {
	Status string          `json:"status"`
	Item   *model.CartItem `json:"item"`
}

// Get handles GET /api/cart/{accountId}.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	items, err := h.service.GetItems(r.Context(), accountID)
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "failed to retrieve cart", h.logger)
		return
	}
	if items == nil {
		items = []model.CartItem{}
	}
	writeJSON(w, http.StatusOK, cartResponse{Status: "success", Items: items})
}

// AddItem handles POST /api/cart/{accountId}/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	var req model.AddCartItemRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	item, err := h.service.AddItem(r.Context(), accountID, &req)
	if err != nil {
		writeFailure(w, errorStatus(err), err.Error(), h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, cartItemResponse{Status: "success", Item: item})
}

// RemoveItem handles DELETE /api/cart/{accountId}/items/{itemId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid cart item ID", h.logger)
		return
	}

	if err := h.service.RemoveItem(r.Context(), accountID, itemID); err != nil {
		writeFailure(w, errorStatus(err), err.Error(), h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *CartHandler) accountID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid account ID", h.logger)
		return uuid.Nil, false
	}
	return id, true
}
