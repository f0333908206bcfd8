package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is a prospective purchase line owned by an account. It is
// destroyed on successful order placement or explicit removal.
type CartItem struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	AccountID  uuid.UUID       `json:"accountId" db:"account_id"`
	ProductID  string          `json:"productId" db:"product_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice" db:"unit_price"`
	TotalPrice decimal.Decimal `json:"totalPrice" db:"total_price"`
	Note       *string         `json:"note,omitempty" db:"note"`

	Profile        *string          `json:"profile,omitempty" db:"profile"`
	WidthCM        *decimal.Decimal `json:"width,omitempty" db:"width_cm"`
	HeightCM       *decimal.Decimal `json:"height,omitempty" db:"height_cm"`
	MountingDevice *string          `json:"mountingDevice,omitempty" db:"mounting_device"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
}

// AddCartItemRequest is the inbound shape for adding a cart line.
type AddCartItemRequest struct {
	ProductID string           `json:"productId"`
	Quantity  int              `json:"quantity"`
	Note      *string          `json:"note,omitempty"`
	Profile   *string          `json:"profile,omitempty"`
	WidthCM   *decimal.Decimal `json:"width,omitempty"`
	HeightCM  *decimal.Decimal `json:"height,omitempty"`
	Mounting  *string          `json:"mountingDevice,omitempty"`
}
