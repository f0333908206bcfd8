package service

import (
	"context"
	"fmt"
	"time"

	"perde-store/internal/model"
	"perde-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	now         func() time.Time
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, logger zerolog.Logger) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		now:         time.Now,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetItems returns the account's cart lines.
func (s *cartService) GetItems(ctx context.Context, accountID uuid.UUID) ([]model.CartItem, error) {
	items, err := s.cartRepo.GetItems(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	return items, nil
}

// AddItem validates, prices and stores a cart line. For dimensional goods
// the unit price is the catalogue price per square metre times the
// requested area; otherwise it is the catalogue price as-is.
func (s *cartService) AddItem(ctx context.Context, accountID uuid.UUID, req *model.AddCartItemRequest) (*model.CartItem, error) {
	if req == nil || req.ProductID == "" {
		return nil, model.ErrProductNotFound
	}
	if req.Quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		s.logger.Warn().Str("product_id", req.ProductID).Msg("cart add rejected, unknown product")
		return nil, model.ErrProductNotFound
	}

	unitPrice := product.Price
	if area := areaFromDimensions(req.WidthCM, req.HeightCM); area != nil {
		unitPrice = product.Price.Mul(*area).Round(2)
	}
	totalPrice := unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))

	item := &model.CartItem{
		ID:             uuid.New(),
		AccountID:      accountID,
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		UnitPrice:      unitPrice,
		TotalPrice:     totalPrice,
		Note:           req.Note,
		Profile:        req.Profile,
		WidthCM:        req.WidthCM,
		HeightCM:       req.HeightCM,
		MountingDevice: req.Mounting,
		CreatedAt:      s.now(),
	}

	if err := s.cartRepo.AddItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	s.logger.Debug().
		Str("account_id", accountID.String()).
		Str("product_id", req.ProductID).
		Msg("cart item added")

	return item, nil
}

// RemoveItem deletes one cart line.
func (s *cartService) RemoveItem(ctx context.Context, accountID, itemID uuid.UUID) error {
	removed, err := s.cartRepo.RemoveItem(ctx, accountID, itemID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if removed == 0 {
		return model.ErrCartItemNotFound
	}
	return nil
}
