package service

import (
	"context"
	"fmt"
	"time"

	"perde-store/internal/model"
	"perde-store/internal/payment"
	"perde-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultCurrency = "TRY"
	defaultLocale   = "tr"
	paymentChannel  = "WEB"
	paymentMethod   = "credit_card"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	accountRepo repository.AccountRepository
	cartRepo    repository.CartRepository
	gateway     payment.Gateway
	notifier    OrderNotifier
	now         func() time.Time
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	accountRepo repository.AccountRepository,
	cartRepo repository.CartRepository,
	gateway payment.Gateway,
	notifier OrderNotifier,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		accountRepo: accountRepo,
		cartRepo:    cartRepo,
		gateway:     gateway,
		notifier:    notifier,
		now:         time.Now,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder runs the placement sequence: validate, resolve the buyer,
// check the idempotency key, charge the gateway, persist the aggregate in
// one transaction, then notify. The gateway is never called for an invalid
// request; a post-charge persistence failure triggers a best-effort void.
func (s *orderService) PlaceOrder(ctx context.Context, req *model.PlaceOrderRequest) (*PlacedOrder, error) {
	if err := validatePlaceOrder(req); err != nil {
		return nil, err
	}

	account, err := s.resolveAccount(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" {
		existing, err := s.orderRepo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
		if existing != nil {
			s.logger.Info().
				Str("order_id", existing.ID.String()).
				Str("idempotency_key", req.IdempotencyKey).
				Msg("duplicate submission, returning recorded order")
			return &PlacedOrder{Order: existing, Replayed: true}, nil
		}
	}

	// Product details only label the gateway basket; an unknown product
	// falls back to generic labels, so a lookup failure is not fatal.
	productIDs := make([]string, len(req.Items))
	for i, item := range req.Items {
		productIDs[i] = item.ProductID
	}
	products := make(map[string]model.Product, len(productIDs))
	if list, err := s.productRepo.GetByIDs(ctx, productIDs); err != nil {
		s.logger.Warn().Err(err).Msg("product lookup failed, using generic basket labels")
	} else {
		for _, p := range list {
			products[p.ID] = p
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	conversationID := uuid.NewString()
	buyer := payment.BuildBuyer(account, req.ShippingAddr, s.now())
	contactName := buyer.Name + " " + buyer.Surname

	gatewayReq := payment.Request{
		Locale:          defaultLocale,
		ConversationID:  conversationID,
		Price:           req.TotalPrice.StringFixed(2),
		PaidPrice:       req.PaidPrice.StringFixed(2),
		Currency:        currency,
		BasketID:        uuid.NewString(),
		PaymentChannel:  paymentChannel,
		PaymentCard:     payment.Card(req.PaymentCard),
		Buyer:           buyer,
		ShippingAddress: payment.BuildAddress(req.ShippingAddr, contactName),
		BillingAddress:  payment.BuildAddress(req.BillingAddr, contactName),
		BasketItems:     payment.BuildBasketItems(req.Items, products),
	}

	result, err := s.gateway.Charge(ctx, gatewayReq)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("conversation_id", conversationID).
			Msg("charge failed, no order created")
		return nil, err
	}

	order, err := s.persistAggregate(ctx, req, account, result, currency)
	if err != nil {
		// The charge already happened; void it so the customer is not
		// billed for an order that was never recorded.
		if cancelErr := s.gateway.Cancel(ctx, result.PaymentID, conversationID); cancelErr != nil {
			s.logger.Error().
				Err(cancelErr).
				Str("payment_id", result.PaymentID).
				Msg("failed to void charge after persistence failure")
		}
		return nil, err
	}

	s.notifier.OrderCreated(ctx, order, account.Email)

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("payment_id", result.PaymentID).
		Int("item_count", len(order.Items)).
		Msg("order placed")

	return &PlacedOrder{Order: order, PaymentResult: result}, nil
}

// persistAggregate writes the order header, line items, both address
// snapshots and the cart cleanup as one transaction.
func (s *orderService) persistAggregate(
	ctx context.Context,
	req *model.PlaceOrderRequest,
	account *model.Account,
	result *payment.Result,
	currency string,
) (order *model.Order, err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, persistenceError(err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	transactionID := result.PaymentID
	var idempotencyKey *string
	if req.IdempotencyKey != "" {
		idempotencyKey = &req.IdempotencyKey
	}

	order = &model.Order{
		ID:             uuid.New(),
		AccountID:      account.ID,
		Status:         model.StatusPaid,
		TotalPrice:     req.TotalPrice,
		PaidPrice:      req.PaidPrice,
		Currency:       currency,
		PaymentMethod:  paymentMethod,
		TransactionID:  &transactionID,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      s.now(),
		Account:        account,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, persistenceError(err)
	}

	items := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = model.OrderItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			TotalPrice:     item.TotalPrice,
			Note:           item.Note,
			Profile:        item.Profile,
			WidthCM:        item.WidthCM,
			HeightCM:       item.HeightCM,
			AreaM2:         areaFromDimensions(item.WidthCM, item.HeightCM),
			MountingDevice: item.Mounting,
		}
	}
	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, persistenceError(err)
	}

	addresses := []model.Address{
		addressSnapshot(order.ID, model.AddressShipping, req.ShippingAddr),
		addressSnapshot(order.ID, model.AddressBilling, req.BillingAddr),
	}
	if err = s.orderRepo.CreateAddresses(ctx, tx, addresses); err != nil {
		return nil, persistenceError(err)
	}

	if err = s.cartRepo.Clear(ctx, tx, account.ID); err != nil {
		return nil, persistenceError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit order")
		return nil, persistenceError(err)
	}

	order.Items = items
	order.Addresses = addresses
	return order, nil
}

// ListOrders returns all orders, newest first.
func (s *orderService) ListOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets a new status and fires the two status notifications.
// The status must be a defined enum value; the transition itself is not
// gated, which keeps the admin override capability.
func (s *orderService) UpdateStatus(ctx context.Context, req *model.UpdateStatusRequest) (*model.Order, error) {
	if req == nil || req.OrderID == uuid.Nil {
		return nil, model.ErrOrderNotFound
	}
	if !req.Status.Valid() {
		s.logger.Warn().
			Str("status", string(req.Status)).
			Msg("rejected unknown order status")
		return nil, model.ErrInvalidStatus
	}

	order, err := s.orderRepo.UpdateStatus(ctx, req.OrderID, req.Status)
	if err != nil {
		return nil, persistenceError(err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	var email string
	if order.Account != nil {
		email = order.Account.Email
	}
	s.notifier.StatusChanged(ctx, order, email)

	return order, nil
}

// resolveAccount loads the referenced account or creates one on the fly
// for a guest checkout.
func (s *orderService) resolveAccount(ctx context.Context, req *model.PlaceOrderRequest) (*model.Account, error) {
	if req.AccountID != nil {
		account, err := s.accountRepo.GetByID(ctx, *req.AccountID)
		if err != nil {
			return nil, persistenceError(err)
		}
		if account == nil {
			return nil, model.ErrNoUserOrItems
		}
		return account, nil
	}

	account, err := s.accountRepo.GetByEmail(ctx, req.Guest.Email)
	if err != nil {
		return nil, persistenceError(err)
	}
	if account != nil {
		return account, nil
	}

	account = &model.Account{
		ID:        uuid.New(),
		Email:     req.Guest.Email,
		FirstName: req.Guest.FirstName,
		LastName:  req.Guest.LastName,
		Phone:     req.Guest.Phone,
		CreatedAt: s.now(),
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, persistenceError(err)
	}

	s.logger.Info().
		Str("account_id", account.ID.String()).
		Msg("guest account created for checkout")

	return account, nil
}

// validatePlaceOrder enforces the boundary schema: a buyer identity and a
// non-empty basket. Prices are taken as declared; there is no stock check
// and no recomputation against the live catalogue.
func validatePlaceOrder(req *model.PlaceOrderRequest) error {
	if req == nil {
		return model.ErrNoUserOrItems
	}
	if req.AccountID == nil && (req.Guest == nil || req.Guest.Email == "") {
		return model.ErrNoUserOrItems
	}
	if len(req.Items) == 0 {
		return model.ErrNoUserOrItems
	}
	for _, item := range req.Items {
		if item.ProductID == "" {
			return model.ErrNoUserOrItems
		}
		if item.Quantity < 1 {
			return model.ErrInvalidQuantity
		}
	}
	return nil
}

func addressSnapshot(orderID uuid.UUID, kind model.AddressKind, a model.AddressRequest) model.Address {
	return model.Address{
		ID:         uuid.New(),
		OrderID:    orderID,
		Kind:       kind,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Line:       a.Line,
		District:   a.District,
		City:       a.City,
		PostalCode: a.PostalCode,
		Phone:      a.Phone,
		Country:    a.Country,
	}
}

// areaFromDimensions converts width x height in centimetres to square
// metres, nil when either dimension is absent.
func areaFromDimensions(width, height *decimal.Decimal) *decimal.Decimal {
	if width == nil || height == nil {
		return nil
	}
	area := width.Mul(*height).Div(decimal.NewFromInt(10000)).Round(4)
	return &area
}

func persistenceError(err error) error {
	return model.NewDomainError(model.ErrCodePersistence, err.Error())
}
