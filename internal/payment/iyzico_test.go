package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"perde-store/internal/config"
	"perde-store/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGatewayConfig(baseURL string) config.GatewayConfig {
	return config.GatewayConfig{
		APIKey:    "test-api-key",
		SecretKey: "test-secret-key",
		BaseURL:   baseURL,
	}
}

func fixedNonce() string {
	return "00112233445566778899aabbccddeeff"
}

func TestClient_Charge_MissingCredentials(t *testing.T) {
	client := NewClient(config.GatewayConfig{BaseURL: "http://localhost"}, zerolog.Nop())

	_, err := client.Charge(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_Charge_Success(t *testing.T) {
	var gotAuth, gotNonce string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payment/auth", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotNonce = r.Header.Get("x-iyzi-rnd")
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"success","paymentId":"pay_1","conversationId":"conv_1"}`)
	}))
	defer server.Close()

	client := NewClient(testGatewayConfig(server.URL), zerolog.Nop(), WithNonce(fixedNonce))

	result, err := client.Charge(context.Background(), Request{
		Locale:         "tr",
		ConversationID: "conv_1",
		Price:          "300.00",
		PaidPrice:      "300.00",
		Currency:       "TRY",
	})
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "pay_1", result.PaymentID)
	assert.Equal(t, "conv_1", result.ConversationID)

	// Signature covers nonce + requestURI + body, HMAC-SHA256 with the
	// secret key, wrapped as base64("apiKey:...&randomKey:...&signature:...").
	assert.Equal(t, fixedNonce(), gotNonce)

	mac := hmac.New(sha256.New, []byte("test-secret-key"))
	mac.Write([]byte(fixedNonce()))
	mac.Write([]byte("/payment/auth"))
	mac.Write(gotBody)
	signature := hex.EncodeToString(mac.Sum(nil))
	expected := "IYZWSv2 " + base64.StdEncoding.EncodeToString(
		[]byte("apiKey:test-api-key&randomKey:"+fixedNonce()+"&signature:"+signature))
	assert.Equal(t, expected, gotAuth)
}

func TestClient_Charge_Decline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"failure","errorCode":"10051","errorMessage":"card declined","errorGroup":"NOT_SUFFICIENT_FUNDS"}`)
	}))
	defer server.Close()

	client := NewClient(testGatewayConfig(server.URL), zerolog.Nop())

	_, err := client.Charge(context.Background(), Request{})
	require.Error(t, err)

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "10051", gwErr.Code)
	assert.Equal(t, "card declined", gwErr.Message)
	assert.Equal(t, "NOT_SUFFICIENT_FUNDS", gwErr.Group)
}

func TestClient_Charge_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"status":"failure"}`)
	}))
	defer server.Close()

	client := NewClient(testGatewayConfig(server.URL), zerolog.Nop())

	_, err := client.Charge(context.Background(), Request{})
	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Contains(t, gwErr.Message, "502")
}

func TestClient_Cancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payment/cancel", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"paymentId":"pay_1"`)
		fmt.Fprint(w, `{"status":"success"}`)
	}))
	defer server.Close()

	client := NewClient(testGatewayConfig(server.URL), zerolog.Nop())

	err := client.Cancel(context.Background(), "pay_1", "conv_1")
	assert.NoError(t, err)
}

func TestBuildBuyer_Defaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	shipping := model.AddressRequest{
		FirstName:  "Ayşe",
		LastName:   "Yılmaz",
		Line:       "Çamlık Mah. 12",
		District:   "Kadıköy",
		City:       "İstanbul",
		PostalCode: "34710",
		Phone:      "+905551112233",
		Country:    "Türkiye",
	}

	buyer := BuildBuyer(nil, shipping, now)

	assert.Equal(t, "11111111111", buyer.IdentityNumber)
	assert.Equal(t, "127.0.0.1", buyer.IP)
	assert.Equal(t, "2026-03-01 10:30:00", buyer.RegistrationDate)
	assert.Equal(t, "2026-03-01 10:30:00", buyer.LastLoginDate)
	assert.Equal(t, "Ayşe", buyer.Name)
	assert.Equal(t, "Yılmaz", buyer.Surname)
	assert.Equal(t, "+905551112233", buyer.GSMNumber)
	assert.Equal(t, "İstanbul", buyer.City)
}

func TestBuildBuyer_FromAccount(t *testing.T) {
	acct := &model.Account{
		ID:        uuid.New(),
		Email:     "ayse@example.com",
		FirstName: "Ayşe",
		LastName:  "Yılmaz",
		Phone:     "+905551112233",
	}

	buyer := BuildBuyer(acct, model.AddressRequest{City: "İstanbul"}, time.Now())

	assert.Equal(t, acct.ID.String(), buyer.ID)
	assert.Equal(t, "ayse@example.com", buyer.Email)
	assert.Equal(t, "Ayşe", buyer.Name)
}

func TestBuildAddress_ContactNameFromBuyer(t *testing.T) {
	addr := BuildAddress(model.AddressRequest{
		FirstName:  "Someone",
		LastName:   "Else",
		Line:       "Çamlık Mah. 12",
		City:       "İstanbul",
		PostalCode: "34710",
		Country:    "Türkiye",
	}, "Ayşe Yılmaz")

	assert.Equal(t, "Ayşe Yılmaz", addr.ContactName)
	assert.Equal(t, "Çamlık Mah. 12", addr.Line)
	assert.Equal(t, "34710", addr.ZipCode)
}

func TestBuildBasketItems(t *testing.T) {
	items := []model.OrderItemRequest{
		{ProductID: "PRD-1", Quantity: 2, TotalPrice: decimal.NewFromFloat(300)},
		{ProductID: "PRD-unknown", Quantity: 1, TotalPrice: decimal.NewFromFloat(49.9)},
	}
	products := map[string]model.Product{
		"PRD-1": {ID: "PRD-1", Name: "Blackout Perde", Category: "Perde"},
	}

	basket := BuildBasketItems(items, products)

	require.Len(t, basket, 2)
	assert.Equal(t, "Blackout Perde", basket[0].Name)
	assert.Equal(t, "Perde", basket[0].Category1)
	assert.Equal(t, "PHYSICAL", basket[0].ItemType)
	assert.Equal(t, "300.00", basket[0].Price)

	// Unknown product falls back to the generic labels.
	assert.Equal(t, "Ürün", basket[1].Name)
	assert.Equal(t, "Genel", basket[1].Category1)
	assert.Equal(t, "49.90", basket[1].Price)
}
