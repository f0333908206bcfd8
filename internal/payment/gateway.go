package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotConfigured indicates missing gateway credentials. It is an
// operational problem (HTTP 500), distinct from a payment decline.
var ErrNotConfigured = errors.New("payment gateway credentials are not configured")

// Error is a structured gateway decline or failure, carrying the gateway's
// own code/message/group. It maps to HTTP 400; no retry is attempted.
type Error struct {
	Code    string
	Message string
	Group   string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("payment failed (%s): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("payment failed: %s", e.Message)
}

// Card is the gateway's card record.
type Card struct {
	CardHolderName string `json:"cardHolderName"`
	CardNumber     string `json:"cardNumber"`
	ExpireMonth    string `json:"expireMonth"`
	ExpireYear     string `json:"expireYear"`
	CVC            string `json:"cvc"`
	RegisterCard   int    `json:"registerCard"`
}

// Buyer is the gateway's buyer record. Missing identity fields are filled
// with placeholders rather than rejected; completing a sandbox transaction
// is preferred over strict validation here.
type Buyer struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Surname             string `json:"surname"`
	GSMNumber           string `json:"gsmNumber"`
	Email               string `json:"email"`
	IdentityNumber      string `json:"identityNumber"`
	LastLoginDate       string `json:"lastLoginDate"`
	RegistrationDate    string `json:"registrationDate"`
	RegistrationAddress string `json:"registrationAddress"`
	IP                  string `json:"ip"`
	City                string `json:"city"`
	Country             string `json:"country"`
	ZipCode             string `json:"zipCode"`
}

// Address is the gateway's flat address shape. ContactName is synthesised
// from the buyer's name, not the address's own recipient.
type Address struct {
	ContactName string `json:"contactName"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Line        string `json:"address"`
	ZipCode     string `json:"zipCode"`
}

// BasketItem is one gateway basket line. Price is a fixed two-decimal
// string.
type BasketItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category1 string `json:"category1"`
	ItemType  string `json:"itemType"`
	Price     string `json:"price"`
}

// Request is the gateway authorization payload. The field set is the
// gateway's fixed contract and is not renegotiable.
type Request struct {
	Locale          string       `json:"locale"`
	ConversationID  string       `json:"conversationId"`
	Price           string       `json:"price"`
	PaidPrice       string       `json:"paidPrice"`
	Currency        string       `json:"currency"`
	BasketID        string       `json:"basketId"`
	PaymentChannel  string       `json:"paymentChannel"`
	PaymentCard     Card         `json:"paymentCard"`
	Buyer           Buyer        `json:"buyer"`
	ShippingAddress Address      `json:"shippingAddress"`
	BillingAddress  Address      `json:"billingAddress"`
	BasketItems     []BasketItem `json:"basketItems"`
}

// Result is the gateway's parsed response with the raw body preserved for
// pass-through.
type Result struct {
	Status         string          `json:"status"`
	PaymentID      string          `json:"paymentId,omitempty"`
	ConversationID string          `json:"conversationId,omitempty"`
	ErrorCode      string          `json:"errorCode,omitempty"`
	ErrorMessage   string          `json:"errorMessage,omitempty"`
	ErrorGroup     string          `json:"errorGroup,omitempty"`
	Raw            json.RawMessage `json:"-"`
}

// Gateway executes charges and voids against the external payment service.
type Gateway interface {
	// Charge authorizes the payment. A non-success gateway response is
	// returned as *Error; missing credentials as ErrNotConfigured.
	Charge(ctx context.Context, req Request) (*Result, error)

	// Cancel voids a previously authorized payment. Used as best-effort
	// compensation when persistence fails after a successful charge.
	Cancel(ctx context.Context, paymentID, conversationID string) error
}
