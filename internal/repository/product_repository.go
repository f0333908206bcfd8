package repository

import (
	"context"
	"errors"
	"fmt"

	"perde-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT id, name, price, category, created_at
		FROM products
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetByID retrieves a single product by its ID, or nil when absent.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT id, name, price, category, created_at
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, price, category, created_at
		FROM products
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products by ids")
		return nil, fmt.Errorf("failed to query products by ids: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// Delete removes a single product.
func (r *productRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	r.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

func scanProducts(rows pgx.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}
