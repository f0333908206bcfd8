package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddressKind tags an address snapshot as shipping or billing.
type AddressKind string

const (
	AddressShipping AddressKind = "shipping"
	AddressBilling  AddressKind = "billing"
)

// Order is the aggregate root: the order header plus its line items and two
// address snapshots, written as one unit. Once created it is immutable
// except for Status.
type Order struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	AccountID      uuid.UUID       `json:"accountId" db:"account_id"`
	Status         OrderStatus     `json:"status" db:"status"`
	TotalPrice     decimal.Decimal `json:"totalPrice" db:"total_price"`
	PaidPrice      decimal.Decimal `json:"paidPrice" db:"paid_price"`
	Currency       string          `json:"currency" db:"currency"`
	PaymentMethod  string          `json:"paymentMethod" db:"payment_method"`
	TransactionID  *string         `json:"transactionId,omitempty" db:"transaction_id"`
	IdempotencyKey *string         `json:"-" db:"idempotency_key"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`

	Items     []OrderItem `json:"items,omitempty"`
	Addresses []Address   `json:"addresses,omitempty"`
	Account   *Account    `json:"account,omitempty"`
}

// OrderItem is an immutable snapshot of a cart line at order-creation time.
// Catalog price changes after the order do not affect it.
type OrderItem struct {
	ID         uuid.UUID       `json:"-" db:"id"`
	OrderID    uuid.UUID       `json:"-" db:"order_id"`
	ProductID  string          `json:"productId" db:"product_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice" db:"unit_price"`
	TotalPrice decimal.Decimal `json:"totalPrice" db:"total_price"`
	Note       *string         `json:"note,omitempty" db:"note"`

	// Curtain customisation, absent for non-dimensional goods.
	Profile        *string          `json:"profile,omitempty" db:"profile"`
	WidthCM        *decimal.Decimal `json:"width,omitempty" db:"width_cm"`
	HeightCM       *decimal.Decimal `json:"height,omitempty" db:"height_cm"`
	AreaM2         *decimal.Decimal `json:"area,omitempty" db:"area_m2"`
	MountingDevice *string          `json:"mountingDevice,omitempty" db:"mounting_device"`
}

// Address is an order-scoped snapshot; shipping and billing are stored as
// independent copies even when identical.
type Address struct {
	ID         uuid.UUID   `json:"-" db:"id"`
	OrderID    uuid.UUID   `json:"-" db:"order_id"`
	Kind       AddressKind `json:"kind" db:"kind"`
	FirstName  string      `json:"firstName" db:"first_name"`
	LastName   string      `json:"lastName" db:"last_name"`
	Line       string      `json:"address" db:"address"`
	District   string      `json:"district" db:"district"`
	City       string      `json:"city" db:"city"`
	PostalCode string      `json:"postalCode" db:"postal_code"`
	Phone      string      `json:"phone" db:"phone"`
	Country    string      `json:"country" db:"country"`
}

// PaymentCard carries card data through to the gateway. It is never
// persisted.
type PaymentCard struct {
	CardHolderName string `json:"cardHolderName"`
	CardNumber     string `json:"cardNumber"`
	ExpireMonth    string `json:"expireMonth"`
	ExpireYear     string `json:"expireYear"`
	CVC            string `json:"cvc"`
	RegisterCard   int    `json:"registerCard"`
}

// GuestInfo identifies a buyer without an existing account; an account is
// created on the fly keyed by email.
type GuestInfo struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// AddressRequest is the inbound address shape for order placement.
type AddressRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Line       string `json:"address"`
	District   string `json:"district"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
	Country    string `json:"country"`
}

// OrderItemRequest is one basket line of an order placement request.
type OrderItemRequest struct {
	ProductID  string           `json:"productId"`
	Quantity   int              `json:"quantity"`
	UnitPrice  decimal.Decimal  `json:"unitPrice"`
	TotalPrice decimal.Decimal  `json:"totalPrice"`
	Note       *string          `json:"note,omitempty"`
	Profile    *string          `json:"profile,omitempty"`
	WidthCM    *decimal.Decimal `json:"width,omitempty"`
	HeightCM   *decimal.Decimal `json:"height,omitempty"`
	Mounting   *string          `json:"mountingDevice,omitempty"`
}

// PlaceOrderRequest is the typed boundary schema for POST /api/order.
// Exactly one of AccountID or Guest must identify the buyer.
type PlaceOrderRequest struct {
	AccountID      *uuid.UUID         `json:"userId,omitempty"`
	Guest          *GuestInfo         `json:"guest,omitempty"`
	IdempotencyKey string             `json:"idempotencyKey,omitempty"`
	Items          []OrderItemRequest `json:"basketItems"`
	ShippingAddr   AddressRequest     `json:"shippingAddress"`
	BillingAddr    AddressRequest     `json:"billingAddress"`
	TotalPrice     decimal.Decimal    `json:"totalPrice"`
	PaidPrice      decimal.Decimal    `json:"paidPrice"`
	Currency       string             `json:"currency,omitempty"`
	PaymentCard    PaymentCard        `json:"paymentCard"`
}

// UpdateStatusRequest is the typed boundary schema for PATCH /api/order.
type UpdateStatusRequest struct {
	OrderID uuid.UUID   `json:"orderId"`
	Status  OrderStatus `json:"status"`
}
