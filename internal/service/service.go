package service

import (
	"context"

	"perde-store/internal/model"
	"perde-store/internal/payment"

	"github.com/google/uuid"
)

// PlacedOrder is the result of a successful order placement. Replayed is
// true when an idempotency key matched a previously recorded order and no
// new charge was made.
type PlacedOrder struct {
	Order         *model.Order
	PaymentResult *payment.Result
	Replayed      bool
}

// DeleteResult reports the outcome of one entry of a bulk delete, so the
// caller can retry only the failed subset.
type DeleteResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// OrderNotifier receives order lifecycle events. Implementations are
// best-effort; they must never fail the calling flow.
type OrderNotifier interface {
	OrderCreated(ctx context.Context, order *model.Order, customerEmail string)
	StatusChanged(ctx context.Context, order *model.Order, customerEmail string)
}

// OrderService coordinates order placement, listing and status updates.
type OrderService interface {
	// PlaceOrder validates the request, charges the gateway and persists
	// the order aggregate as one unit.
	PlaceOrder(ctx context.Context, req *model.PlaceOrderRequest) (*PlacedOrder, error)

	// ListOrders returns all orders with nested items, addresses and
	// accounts, newest first.
	ListOrders(ctx context.Context) ([]model.Order, error)

	// UpdateStatus sets a new lifecycle status and fires notifications.
	// Any defined enum value is accepted regardless of the current state.
	UpdateStatus(ctx context.Context, req *model.UpdateStatusRequest) (*model.Order, error)
}

// PaymentService charges a card through the gateway without creating an
// order.
type PaymentService interface {
	Charge(ctx context.Context, req payment.Request) (*payment.Result, error)
}

// CartService manages the server-side cart of an account.
type CartService interface {
	// GetItems returns the account's cart lines.
	GetItems(ctx context.Context, accountID uuid.UUID) ([]model.CartItem, error)

	// AddItem prices and stores a new cart line.
	AddItem(ctx context.Context, accountID uuid.UUID, req *model.AddCartItemRequest) (*model.CartItem, error)

	// RemoveItem deletes one cart line.
	RemoveItem(ctx context.Context, accountID, itemID uuid.UUID) error
}

// ProductService defines operations for the catalogue.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// BulkDelete removes products one by one, reporting a per-item result.
	BulkDelete(ctx context.Context, ids []string) []DeleteResult
}
