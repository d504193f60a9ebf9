package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/zhaxal/ringi-task/config"
	"github.com/zhaxal/ringi-task/internal/broker"
	"github.com/zhaxal/ringi-task/internal/models"
	"github.com/zhaxal/ringi-task/internal/store"
	"github.com/zhaxal/ringi-task/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{8,}$`)
)

// OrderService sequences the order placement transaction: validation,
// stock reservation, order and item inserts, commit. Notification fan-out is
// decoupled behind the event publisher and never touches the outcome.
type OrderService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	business       config.BusinessConfig
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(st *store.Store, eventPublisher *broker.EventPublisher, business config.BusinessConfig) *OrderService {
	return &OrderService{
		store:          st,
		eventPublisher: eventPublisher,
		business:       business,
		logger:         util.GetLogger(),
	}
}

// PlaceOrderRequest represents a customer cart submission
type PlaceOrderRequest struct {
	CustomerName  string            `json:"customerName"`
	CustomerEmail string            `json:"customerEmail"`
	CustomerPhone string            `json:"customerPhone"`
	Products      []ProductQuantity `json:"products"`
}

// ProductQuantity is one requested line item
type ProductQuantity struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// PlaceOrderResult is returned to the caller once the transaction commits
type PlaceOrderResult struct {
	OrderID    int64              `json:"id"`
	TotalPrice decimal.Decimal    `json:"total_price"`
	Items      []models.OrderItem `json:"items"`
}

// PlaceOrder runs the full order placement transaction. Resubmitting the same
// payload places a second order; deduplication is left to the caller.
func (s *OrderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResult, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if err := validatePlaceOrder(req); err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_request").Inc()
		return nil, err
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Bounded lock waits: a transaction stuck on a row lock aborts instead of
	// queueing indefinitely, and surfaces as a retryable conflict.
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.business.LockTimeout.Milliseconds())); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to set lock timeout: %w", err)
	}

	items := make([]store.ReservationItem, len(req.Products))
	for i, p := range req.Products {
		items[i] = store.ReservationItem{ProductID: p.ID, Quantity: p.Quantity}
	}

	total, err := s.store.ReserveStock(ctx, tx, items, s.business.LowStockThreshold)
	if err != nil {
		return nil, s.classifyReservationError(err)
	}

	order := &models.Order{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Status:        models.OrderStatusPending,
		TotalPrice:    total,
	}

	if err := s.store.InsertOrderTx(ctx, tx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("insert_failed").Inc()
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	orderItems := make([]models.OrderItem, 0, len(req.Products))
	for _, p := range req.Products {
		item := models.OrderItem{
			OrderID:   order.ID,
			ProductID: p.ID,
			Quantity:  p.Quantity,
		}
		if err := s.store.InsertOrderItemTx(ctx, tx, &item); err != nil {
			util.OrdersFailedTotal.WithLabelValues("insert_failed").Inc()
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
		orderItems = append(orderItems, item)
	}

	if err := tx.Commit(); err != nil {
		if store.IsLockConflict(err) {
			util.StockConflictsTotal.Inc()
			util.OrdersFailedTotal.WithLabelValues("conflict").Inc()
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		util.OrdersFailedTotal.WithLabelValues("commit_failed").Inc()
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.String("total_price", total.String()))

	s.publishOrderPlaced(order, orderItems)

	return &PlaceOrderResult{
		OrderID:    order.ID,
		TotalPrice: total,
		Items:      orderItems,
	}, nil
}

// publishOrderPlaced hands the committed order to the notification fan-out.
// Publish failures are logged and swallowed: the order already committed and
// its outcome must not change.
func (s *OrderService) publishOrderPlaced(order *models.Order, items []models.OrderItem) {
	eventItems := make([]models.OrderItemEvent, len(items))
	for i, item := range items {
		eventItems[i] = models.OrderItemEvent{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:    order.ID,
		TotalPrice: order.TotalPrice,
		Items:      eventItems,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.eventPublisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
	}
}

func (s *OrderService) classifyReservationError(err error) error {
	var notFound *store.ProductNotFoundError
	var insufficient *store.InsufficientStockError

	switch {
	case errors.As(err, &notFound):
		util.OrdersFailedTotal.WithLabelValues("product_not_found").Inc()
		return err
	case errors.As(err, &insufficient):
		util.OrdersFailedTotal.WithLabelValues("insufficient_stock").Inc()
		return err
	case store.IsLockConflict(err):
		util.StockConflictsTotal.Inc()
		util.OrdersFailedTotal.WithLabelValues("conflict").Inc()
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return fmt.Errorf("failed to reserve stock: %w", err)
	}
}

// validatePlaceOrder rejects malformed submissions before any database work
func validatePlaceOrder(req *PlaceOrderRequest) error {
	if len(req.CustomerName) < 3 {
		return &ValidationError{Message: "Name must be a string with at least 3 characters"}
	}
	if !emailPattern.MatchString(req.CustomerEmail) {
		return &ValidationError{Message: "Please provide a valid email address"}
	}
	if !phonePattern.MatchString(req.CustomerPhone) {
		return &ValidationError{Message: "Please provide a valid phone number (minimum 8 digits)"}
	}
	if len(req.Products) == 0 {
		return &ValidationError{Message: "No products provided"}
	}

	seen := make(map[int64]bool, len(req.Products))
	for _, p := range req.Products {
		if p.ID <= 0 {
			return &ValidationError{Message: "Product id must be greater than 0"}
		}
		if p.Quantity < 1 {
			return &ValidationError{Message: fmt.Sprintf("Quantity for product %d must be at least 1", p.ID)}
		}
		if seen[p.ID] {
			return &ValidationError{Message: fmt.Sprintf("Product %d appears more than once", p.ID)}
		}
		seen[p.ID] = true
	}

	return nil
}

// ConfirmOrder transitions an order from pending to completed. Re-applying
// the transition succeeds and leaves the status completed.
func (s *OrderService) ConfirmOrder(ctx context.Context, orderID int64) error {
	ctx, span := util.StartSpan(ctx, "OrderService.ConfirmOrder")
	defer span.End()

	if err := s.store.UpdateOrderStatus(ctx, orderID, models.OrderStatusCompleted); err != nil {
		return err
	}

	util.OrdersConfirmedTotal.Inc()
	s.logger.Info("Order confirmed", zap.Int64("order_id", orderID))
	return nil
}

// GetOrder retrieves an order and its line items
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderItem, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

// ListOrders retrieves one page of orders plus the total count
func (s *OrderService) ListOrders(ctx context.Context, page, limit int) ([]models.Order, int, error) {
	offset := (page - 1) * limit

	orders, err := s.store.GetOrders(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.store.CountOrders(ctx)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}
