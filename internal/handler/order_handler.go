package handler

import (
	"encoding/json"
	"net/http"

	"perde-store/internal/model"
	"perde-store/internal/payment"
	"perde-store/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

type placeOrderResponse struct {
	Status        string          `json:"status"`
	Order         *model.Order    `json:"order"`
	PaymentResult *payment.Result `json:"paymentResult,omitempty"`
}

type listOrdersResponse struct {
	Status string        `json:"status"`
	Orders []model.Order `json:"orders"`
}

type updateStatusResponse struct {
	Status     string            `json:"status"`
	Order      *model.Order      `json:"order"`
	NextStatus model.OrderStatus `json:"nextStatus,omitempty"`
}

// Create handles POST /api/order: place the order and charge the card.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.PlaceOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	placed, err := h.service.PlaceOrder(r.Context(), &req)
	if err != nil {
		writeFailure(w, errorStatus(err), err.Error(), h.logger)
		return
	}

	status := http.StatusCreated
	if placed.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, placeOrderResponse{
		Status:        "success",
		Order:         placed.Order,
		PaymentResult: placed.PaymentResult,
	})
}

// List handles GET /api/order: all orders, newest first, no pagination.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, err.Error(), h.logger)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, listOrdersResponse{Status: "success", Orders: orders})
}

// UpdateStatus handles PATCH /api/order: set a new lifecycle status. The
// response carries the advisory next forward status for the admin UI.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateStatusRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), &req)
	if err != nil {
		writeFailure(w, errorStatus(err), err.Error(), h.logger)
		return
	}

	resp := updateStatusResponse{Status: "success", Order: order}
	if next, ok := model.NextStatus(order.Status); ok {
		resp.NextStatus = next
	}
	writeJSON(w, http.StatusOK, resp)
}
