package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"perde-store/internal/model"
	"perde-store/internal/payment"
	"perde-store/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, req *model.PlaceOrderRequest) (*service.PlacedOrder, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PlacedOrder), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, req *model.UpdateStatusRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func placeOrderBody(t *testing.T) []byte {
	t.Helper()
	body := map[string]any{
		"userId": uuid.NewString(),
		"basketItems": []map[string]any{
			{"productId": "PRD-3", "quantity": 1, "unitPrice": "150.00", "totalPrice": "150.00"},
		},
		"shippingAddress": map[string]any{
			"firstName": "Ayşe", "lastName": "Yılmaz", "address": "Çamlık Mah. 12",
			"city": "İstanbul", "country": "Türkiye",
		},
		"billingAddress": map[string]any{
			"firstName": "Ayşe", "lastName": "Yılmaz", "address": "Çamlık Mah. 12",
			"city": "İstanbul", "country": "Türkiye",
		},
		"totalPrice": "150.00",
		"paidPrice":  "150.00",
		"paymentCard": map[string]any{
			"cardHolderName": "Ayşe Yılmaz", "cardNumber": "5528790000000008",
			"expireMonth": "12", "expireYear": "2030", "cvc": "123",
		},
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return data
}

func TestOrderHandler_Create(t *testing.T) {
	transactionID := "pay_1"
	placed := &service.PlacedOrder{
		Order: &model.Order{
			ID:            uuid.New(),
			Status:        model.StatusPaid,
			TotalPrice:    decimal.NewFromFloat(150.00),
			PaidPrice:     decimal.NewFromFloat(150.00),
			TransactionID: &transactionID,
		},
		PaymentResult: &payment.Result{Status: "success", PaymentID: "pay_1"},
	}

	tests := []struct {
		name       string
		body       []byte
		setupMock  func(*MockOrderService)
		wantStatus int
		wantBody   func(*testing.T, map[string]any)
	}{
		{
			name:       "malformed json",
			body:       []byte(`{"userId":`),
			setupMock:  func(m *MockOrderService) {},
			wantStatus: http.StatusBadRequest,
			wantBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "failure", body["status"])
			},
		},
		{
			name:       "unknown field rejected",
			body:       []byte(`{"userId":"` + uuid.NewString() + `","surprise":true}`),
			setupMock:  func(m *MockOrderService) {},
			wantStatus: http.StatusBadRequest,
			wantBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "failure", body["status"])
			},
		},
		{
			name: "validation failure",
			setupMock: func(m *MockOrderService) {
				m.On("PlaceOrder", mock.Anything, mock.Anything).Return(nil, model.ErrNoUserOrItems)
			},
			wantStatus: http.StatusBadRequest,
			wantBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "failure", body["status"])
				assert.Equal(t, "no valid user or items", body["error"])
			},
		},
		{
			name: "gateway decline",
			setupMock: func(m *MockOrderService) {
				m.On("PlaceOrder", mock.Anything, mock.Anything).
					Return(nil, &payment.Error{Code: "10051", Message: "Kart limiti yetersiz"})
			},
			wantStatus: http.StatusBadRequest,
			wantBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "failure", body["status"])
				assert.Equal(t, "Kart limiti yetersiz", body["error"])
			},
		},
		{
			name: "persistence failure",
			setupMock: func(m *MockOrderService) {
				m.On("PlaceOrder", mock.Anything, mock.Anything).
					Return(nil, model.NewDomainError(model.ErrCodePersistence, "insert failed"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "failure", body["status"])
			},
		},
		{
			name: "success",
			setupMock: func(m *MockOrderService) {
				m.On("PlaceOrder", mock.Anything, mock.Anything).Return(placed, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "success", body["status"])
				order := body["order"].(map[string]any)
				assert.Equal(t, "paid", order["status"])
				assert.Equal(t, "pay_1", order["transactionId"])
			},
		},
		{
			name: "idempotent replay returns 200",
			setupMock: func(m *MockOrderService) {
				m.On("PlaceOrder", mock.Anything, mock.Anything).
					Return(&service.PlacedOrder{Order: placed.Order, Replayed: true}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "success", body["status"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			tt.setupMock(mockService)
			h := NewOrderHandler(mockService, zerolog.Nop())

			reqBody := tt.body
			if reqBody == nil {
				reqBody = placeOrderBody(t)
			}
			req := httptest.NewRequest(http.MethodPost, "/api/order", bytes.NewReader(reqBody))
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			tt.wantBody(t, body)
		})
	}
}

func TestOrderHandler_List(t *testing.T) {
	t.Run("returns orders", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("ListOrders", mock.Anything).Return([]model.Order{
			{ID: uuid.New(), Status: model.StatusPaid},
		}, nil)
		h := NewOrderHandler(mockService, zerolog.Nop())

		req := httptest.NewRequest(http.MethodGet, "/api/order", nil)
		rec := httptest.NewRecorder()

		h.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "success", body["status"])
		assert.Len(t, body["orders"], 1)
	})

	t.Run("empty list is an array, not null", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("ListOrders", mock.Anything).Return(nil, nil)
		h := NewOrderHandler(mockService, zerolog.Nop())

		req := httptest.NewRequest(http.MethodGet, "/api/order", nil)
		rec := httptest.NewRecorder()

		h.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"orders":[]`)
	})
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	orderID := uuid.New()

	t.Run("success carries advisory next status", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(req *model.UpdateStatusRequest) bool {
			return req.OrderID == orderID && req.Status == model.StatusShipped
		})).Return(&model.Order{ID: orderID, Status: model.StatusShipped}, nil)
		h := NewOrderHandler(mockService, zerolog.Nop())

		payload := []byte(`{"orderId":"` + orderID.String() + `","status":"shipped"}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/order", bytes.NewReader(payload))
		rec := httptest.NewRecorder()

		h.UpdateStatus(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "delivered", body["nextStatus"])
	})

	t.Run("terminal status has no next", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("UpdateStatus", mock.Anything, mock.Anything).
			Return(&model.Order{ID: orderID, Status: model.StatusDelivered}, nil)
		h := NewOrderHandler(mockService, zerolog.Nop())

		payload := []byte(`{"orderId":"` + orderID.String() + `","status":"delivered"}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/order", bytes.NewReader(payload))
		rec := httptest.NewRecorder()

		h.UpdateStatus(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "nextStatus")
	})

	t.Run("unknown status", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("UpdateStatus", mock.Anything, mock.Anything).Return(nil, model.ErrInvalidStatus)
		h := NewOrderHandler(mockService, zerolog.Nop())

		payload := []byte(`{"orderId":"` + orderID.String() + `","status":"refunded"}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/order", bytes.NewReader(payload))
		rec := httptest.NewRecorder()

		h.UpdateStatus(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "failure")
	})

	t.Run("missing order", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("UpdateStatus", mock.Anything, mock.Anything).Return(nil, model.ErrOrderNotFound)
		h := NewOrderHandler(mockService, zerolog.Nop())

		payload := []byte(`{"orderId":"` + orderID.String() + `","status":"paid"}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/order", bytes.NewReader(payload))
		rec := httptest.NewRecorder()

		h.UpdateStatus(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
