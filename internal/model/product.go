package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalogue entry. For dimensional goods (curtains, blinds)
// Price is per square metre; otherwise it is the unit price.
type Product struct {
	ID        string          `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Category  string          `json:"category" db:"category"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}
