package service

import (
	"context"
	"errors"
	"fmt"

	"perde-store/internal/model"
	"perde-store/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	repo   repository.ProductRepository
	logger zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		repo:   repo,
		logger: logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.repo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// BulkDelete removes products one by one. Each entry of the result reports
// its own outcome so the caller can retry only what failed; there is no
// cross-entry rollback.
func (s *productService) BulkDelete(ctx context.Context, ids []string) []DeleteResult {
	results := make([]DeleteResult, len(ids))
	for i, id := range ids {
		results[i] = DeleteResult{ID: id, Status: "deleted"}
		if err := s.repo.Delete(ctx, id); err != nil {
			results[i].Status = "failed"
			if errors.Is(err, model.ErrProductNotFound) {
				results[i].Error = model.ErrProductNotFound.Message
			} else {
				results[i].Error = err.Error()
			}
		}
	}

	s.logger.Info().
		Int("requested", len(ids)).
		Msg("bulk product delete finished")

	return results
}
