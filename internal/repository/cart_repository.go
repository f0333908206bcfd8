package repository

import (
	"context"
	"fmt"

	"perde-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetItems retrieves the cart lines for an account, oldest first.
func (r *cartRepository) GetItems(ctx context.Context, accountID uuid.UUID) ([]model.CartItem, error) {
	query := `
		SELECT id, account_id, product_id, quantity, unit_price, total_price,
			note, profile, width_cm, height_cm, mounting_device, created_at
		FROM cart_items
		WHERE account_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(
			&item.ID, &item.AccountID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.TotalPrice, &item.Note, &item.Profile,
			&item.WidthCM, &item.HeightCM, &item.MountingDevice, &item.CreatedAt,
		); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// AddItem inserts a cart line.
func (r *cartRepository) AddItem(ctx context.Context, item *model.CartItem) error {
	query := `
		INSERT INTO cart_items (id, account_id, product_id, quantity, unit_price,
			total_price, note, profile, width_cm, height_cm, mounting_device, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID, item.AccountID, item.ProductID, item.Quantity, item.UnitPrice,
		item.TotalPrice, item.Note, item.Profile, item.WidthCM, item.HeightCM,
		item.MountingDevice, item.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("account_id", item.AccountID.String()).
			Str("product_id", item.ProductID).
			Msg("failed to add cart item")
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

// RemoveItem deletes one cart line.
func (r *cartRepository) RemoveItem(ctx context.Context, accountID, itemID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE account_id = $1 AND id = $2`, accountID, itemID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("account_id", accountID.String()).
			Str("item_id", itemID.String()).
			Msg("failed to remove cart item")
		return 0, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Clear removes every cart line for the account within the provided
// transaction.
func (r *cartRepository) Clear(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE account_id = $1`, accountID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("account_id", accountID.String()).
			Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
