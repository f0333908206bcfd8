package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"perde-store/internal/config"
	"perde-store/internal/model"

	"github.com/rs/zerolog"
)

const (
	authPath   = "/payment/auth"
	cancelPath = "/payment/cancel"

	authHeaderPrefix = "IYZWSv2 "
	nonceHeader      = "x-iyzi-rnd"

	statusSuccess = "success"

	// Placeholders applied when the buyer's identity is incomplete.
	defaultIdentityNumber = "11111111111"
	defaultBuyerIP        = "127.0.0.1"
	defaultItemName       = "Ürün"
	defaultItemCategory   = "Genel"

	gatewayTimeFormat = "2006-01-02 15:04:05"
)

// Client implements Gateway against the iyzico-style HTTP API.
type Client struct {
	cfg        config.GatewayConfig
	httpClient *http.Client
	nonce      func() string
	logger     zerolog.Logger
}

// Option customises a Client; used by tests to pin the nonce.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithNonce replaces the random nonce source.
func WithNonce(fn func() string) Option {
	return func(c *Client) { c.nonce = fn }
}

// NewClient creates a gateway client. Credentials are not checked here;
// a missing key or secret surfaces as ErrNotConfigured on the first call.
func NewClient(cfg config.GatewayConfig, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		nonce:  randomNonce,
		logger: logger.With().Str("component", "payment-gateway").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// randomNonce returns 16 random bytes hex-encoded.
func randomNonce() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("failed to read random nonce: %v", err))
	}
	return hex.EncodeToString(buf)
}

// BuildBuyer maps the account and shipping address into the gateway's buyer
// record, defaulting missing identity fields instead of rejecting them.
func BuildBuyer(acct *model.Account, shipping model.AddressRequest, at time.Time) Buyer {
	now := at.Format(gatewayTimeFormat)

	buyer := Buyer{
		IdentityNumber:      defaultIdentityNumber,
		LastLoginDate:       now,
		RegistrationDate:    now,
		IP:                  defaultBuyerIP,
		RegistrationAddress: shipping.Line,
		City:                shipping.City,
		Country:             shipping.Country,
		ZipCode:             shipping.PostalCode,
	}

	if acct != nil {
		buyer.ID = acct.ID.String()
		buyer.Name = acct.FirstName
		buyer.Surname = acct.LastName
		buyer.Email = acct.Email
		buyer.GSMNumber = acct.Phone
	}
	if buyer.Name == "" {
		buyer.Name = shipping.FirstName
	}
	if buyer.Surname == "" {
		buyer.Surname = shipping.LastName
	}
	if buyer.GSMNumber == "" {
		buyer.GSMNumber = shipping.Phone
	}

	return buyer
}

// BuildAddress maps an address snapshot to the gateway's flat shape. The
// contact name comes from the buyer, not the address's own recipient.
func BuildAddress(a model.AddressRequest, contactName string) Address {
	return Address{
		ContactName: contactName,
		City:        a.City,
		Country:     a.Country,
		Line:        a.Line,
		ZipCode:     a.PostalCode,
	}
}

// BuildBasketItems maps basket lines to the gateway shape. Product names
// and categories fall back to generic labels when the catalogue has no
// entry for the referenced product.
func BuildBasketItems(items []model.OrderItemRequest, products map[string]model.Product) []BasketItem {
	out := make([]BasketItem, len(items))
	for i, item := range items {
		name := defaultItemName
		category := defaultItemCategory
		if p, ok := products[item.ProductID]; ok {
			if p.Name != "" {
				name = p.Name
			}
			if p.Category != "" {
				category = p.Category
			}
		}
		out[i] = BasketItem{
			ID:        item.ProductID,
			Name:      name,
			Category1: category,
			ItemType:  "PHYSICAL",
			Price:     item.TotalPrice.StringFixed(2),
		}
	}
	return out
}

// sign computes the request authentication. The signature covers
// nonce + requestURI + serialized body, HMAC-SHA256 keyed with the secret;
// the Authorization value is the base64 of
// "apiKey:<key>&randomKey:<nonce>&signature:<hex sig>".
func (c *Client) sign(requestURI string, body []byte) (authorization, nonce string) {
	nonce = c.nonce()

	mac := hmac.New(sha256.New, []byte(c.cfg.SecretKey))
	mac.Write([]byte(nonce))
	mac.Write([]byte(requestURI))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	plain := fmt.Sprintf("apiKey:%s&randomKey:%s&signature:%s", c.cfg.APIKey, nonce, signature)
	authorization = authHeaderPrefix + base64.StdEncoding.EncodeToString([]byte(plain))
	return authorization, nonce
}

// Charge issues the authorization call.
func (c *Client) Charge(ctx context.Context, req Request) (*Result, error) {
	result, err := c.post(ctx, authPath, req)
	if err != nil {
		return nil, err
	}
	c.logger.Info().
		Str("conversation_id", result.ConversationID).
		Str("payment_id", result.PaymentID).
		Msg("payment authorized")
	return result, nil
}

// Cancel voids a completed authorization.
func (c *Client) Cancel(ctx context.Context, paymentID, conversationID string) error {
	body := map[string]string{
		"locale":         "tr",
		"conversationId": conversationID,
		"paymentId":      paymentID,
		"ip":             defaultBuyerIP,
	}
	if _, err := c.post(ctx, cancelPath, body); err != nil {
		return err
	}
	c.logger.Info().
		Str("payment_id", paymentID).
		Msg("payment voided")
	return nil
}

// post signs and executes a gateway call, translating non-success responses
// into *Error.
func (c *Client) post(ctx context.Context, path string, payload any) (*Result, error) {
	if c.cfg.APIKey == "" || c.cfg.SecretKey == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gateway request: %w", err)
	}

	authorization, nonce := c.sign(path, body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", authorization)
	httpReq.Header.Set(nonceHeader, nonce)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("gateway call failed")
		return nil, fmt.Errorf("gateway call failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	result.Raw = raw

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || result.Status != statusSuccess {
		c.logger.Warn().
			Int("http_status", resp.StatusCode).
			Str("error_code", result.ErrorCode).
			Str("error_group", result.ErrorGroup).
			Str("path", path).
			Msg("gateway returned non-success")
		message := result.ErrorMessage
		if message == "" {
			message = fmt.Sprintf("gateway returned HTTP %d", resp.StatusCode)
		}
		return nil, &Error{
			Code:    result.ErrorCode,
			Message: message,
			Group:   result.ErrorGroup,
		}
	}

	return &result, nil
}
