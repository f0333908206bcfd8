package repository

import (
	"context"
	"errors"
	"fmt"

	"perde-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts the order header within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, account_id, status, total_price, paid_price, currency,
			payment_method, transaction_id, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.AccountID, order.Status, order.TotalPrice, order.PaidPrice,
		order.Currency, order.PaymentMethod, order.TransactionID, order.IdempotencyKey,
		order.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts the line item snapshots within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price,
			total_price, note, profile, width_cm, height_cm, area_m2, mounting_device)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice,
			item.TotalPrice, item.Note, item.Profile, item.WidthCM, item.HeightCM,
			item.AreaM2, item.MountingDevice)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// CreateAddresses inserts the address snapshots within the provided transaction.
func (r *orderRepository) CreateAddresses(ctx context.Context, tx pgx.Tx, addresses []model.Address) error {
	query := `
		INSERT INTO order_addresses (id, order_id, kind, first_name, last_name,
			address, district, city, postal_code, phone, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	batch := &pgx.Batch{}
	for _, a := range addresses {
		batch.Queue(query,
			a.ID, a.OrderID, a.Kind, a.FirstName, a.LastName,
			a.Line, a.District, a.City, a.PostalCode, a.Phone, a.Country)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(addresses); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", addresses[i].OrderID.String()).
				Str("kind", string(addresses[i].Kind)).
				Msg("failed to create order address")
			return fmt.Errorf("failed to create order address: %w", err)
		}
	}

	return nil
}

const orderColumns = `
	id, account_id, status, total_price, paid_price, currency,
	payment_method, transaction_id, idempotency_key, created_at
`

func scanOrder(row pgx.Row, order *model.Order) error {
	return row.Scan(
		&order.ID,
		&order.AccountID,
		&order.Status,
		&order.TotalPrice,
		&order.PaidPrice,
		&order.Currency,
		&order.PaymentMethod,
		&order.TransactionID,
		&order.IdempotencyKey,
		&order.CreatedAt,
	)
}

// GetByID retrieves one full order aggregate, or nil when absent.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var order model.Order
	err := scanOrder(r.pool.QueryRow(ctx, query, id), &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if err := r.loadNested(ctx, []*model.Order{&order}); err != nil {
		return nil, err
	}

	return &order, nil
}

// GetByIdempotencyKey retrieves the order recorded for a client request
// identifier, or nil when absent.
func (r *orderRepository) GetByIdempotencyKey(ctx context.Context, key string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE idempotency_key = $1`

	var order model.Order
	err := scanOrder(r.pool.QueryRow(ctx, query, key), &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query order by idempotency key")
		return nil, fmt.Errorf("failed to query order by idempotency key: %w", err)
	}

	if err := r.loadNested(ctx, []*model.Order{&order}); err != nil {
		return nil, err
	}

	return &order, nil
}

// List retrieves all orders with nested items, addresses and accounts,
// newest first.
func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var order model.Order
		if err := scanOrder(rows, &order); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	refs := make([]*model.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := r.loadNested(ctx, refs); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateStatus sets the order status and returns the updated order, or nil
// when the order does not exist.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	query := `
		UPDATE orders SET status = $2 WHERE id = $1
		RETURNING ` + orderColumns

	var order model.Order
	err := scanOrder(r.pool.QueryRow(ctx, query, id, status), &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found for status update")
			return nil, nil
		}
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("status", string(status)).
			Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err := r.loadNested(ctx, []*model.Order{&order}); err != nil {
		return nil, err
	}

	r.logger.Info().
		Str("order_id", id.String()).
		Str("status", string(status)).
		Msg("order status updated")

	return &order, nil
}

// loadNested attaches items, address snapshots and the owning account to
// each order in place.
func (r *orderRepository) loadNested(ctx context.Context, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	orderIDs := make([]uuid.UUID, len(orders))
	accountIDs := make([]uuid.UUID, 0, len(orders))
	seenAccounts := make(map[uuid.UUID]bool, len(orders))
	byID := make(map[uuid.UUID]*model.Order, len(orders))
	for i, o := range orders {
		orderIDs[i] = o.ID
		byID[o.ID] = o
		if !seenAccounts[o.AccountID] {
			seenAccounts[o.AccountID] = true
			accountIDs = append(accountIDs, o.AccountID)
		}
	}

	itemsQuery := `
		SELECT id, order_id, product_id, quantity, unit_price, total_price,
			note, profile, width_cm, height_cm, area_m2, mounting_device
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, orderIDs)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order items")
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.TotalPrice, &item.Note, &item.Profile,
			&item.WidthCM, &item.HeightCM, &item.AreaM2, &item.MountingDevice,
		); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}

	addrQuery := `
		SELECT id, order_id, kind, first_name, last_name, address, district,
			city, postal_code, phone, country
		FROM order_addresses
		WHERE order_id = ANY($1)
		ORDER BY kind DESC
	`

	addrRows, err := r.pool.Query(ctx, addrQuery, orderIDs)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order addresses")
		return fmt.Errorf("failed to query order addresses: %w", err)
	}
	defer addrRows.Close()

	for addrRows.Next() {
		var a model.Address
		if err := addrRows.Scan(
			&a.ID, &a.OrderID, &a.Kind, &a.FirstName, &a.LastName,
			&a.Line, &a.District, &a.City, &a.PostalCode, &a.Phone, &a.Country,
		); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order address row")
			return fmt.Errorf("failed to scan order address: %w", err)
		}
		if o, ok := byID[a.OrderID]; ok {
			o.Addresses = append(o.Addresses, a)
		}
	}
	if err := addrRows.Err(); err != nil {
		return fmt.Errorf("error iterating order addresses: %w", err)
	}

	accountQuery := `
		SELECT id, email, first_name, last_name, phone, created_at
		FROM accounts
		WHERE id = ANY($1)
	`

	acctRows, err := r.pool.Query(ctx, accountQuery, accountIDs)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query accounts")
		return fmt.Errorf("failed to query accounts: %w", err)
	}
	defer acctRows.Close()

	accounts := make(map[uuid.UUID]*model.Account, len(accountIDs))
	for acctRows.Next() {
		var acct model.Account
		if err := acctRows.Scan(
			&acct.ID, &acct.Email, &acct.FirstName, &acct.LastName,
			&acct.Phone, &acct.CreatedAt,
		); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan account row")
			return fmt.Errorf("failed to scan account: %w", err)
		}
		accounts[acct.ID] = &acct
	}
	if err := acctRows.Err(); err != nil {
		return fmt.Errorf("error iterating accounts: %w", err)
	}

	for _, o := range orders {
		o.Account = accounts[o.AccountID]
	}

	return nil
}
