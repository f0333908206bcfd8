package repository

import (
	"context"

	"perde-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs. Unknown IDs are
	// simply absent from the result.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Delete removes a single product. Returns model.ErrProductNotFound
	// when no row matches.
	Delete(ctx context.Context, id string) error
}

// OrderRepository defines the interface for order aggregate data access.
// The aggregate (header, items, two address snapshots) is written within
// one transaction owned by the caller.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts the order header within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the line item snapshots within the provided
	// transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// CreateAddresses inserts the address snapshots within the provided
	// transaction.
	CreateAddresses(ctx context.Context, tx pgx.Tx, addresses []model.Address) error

	// GetByID retrieves one full order aggregate, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByIdempotencyKey retrieves the order previously recorded for the
	// given client request identifier, or nil when absent.
	GetByIdempotencyKey(ctx context.Context, key string) (*model.Order, error)

	// List retrieves all orders with nested items, addresses and owning
	// account, newest first. No pagination at this layer.
	List(ctx context.Context) ([]model.Order, error)

	// UpdateStatus sets the order status and returns the updated order,
	// or nil when the order does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

// AccountRepository defines the interface for customer account data access.
type AccountRepository interface {
	// GetByID retrieves an account, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)

	// GetByEmail retrieves an account by email, or nil when absent.
	GetByEmail(ctx context.Context, email string) (*model.Account, error)

	// Create inserts a new account.
	Create(ctx context.Context, account *model.Account) error
}

// CartRepository defines the interface for account-scoped cart data access.
type CartRepository interface {
	// GetItems retrieves the cart lines for an account, oldest first.
	GetItems(ctx context.Context, accountID uuid.UUID) ([]model.CartItem, error)

	// AddItem inserts a cart line.
	AddItem(ctx context.Context, item *model.CartItem) error

	// RemoveItem deletes one cart line. Returns the number of rows removed.
	RemoveItem(ctx context.Context, accountID, itemID uuid.UUID) (int64, error)

	// Clear removes every cart line for the account within the provided
	// transaction; used when an order is placed.
	Clear(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) error
}
