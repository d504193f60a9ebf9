package store

import (
	"context"
	"database/sql"

	"github.com/zhaxal/ringi-task/internal/models"

	"github.com/jmoiron/sqlx"
)

// InsertOrderTx inserts the order row inside the caller's transaction and
// fills in the generated id and timestamps
func (s *Store) InsertOrderTx(ctx context.Context, tx *sqlx.Tx, order *models.Order) error {
	query := `
		INSERT INTO orders (customer_name, customer_email, customer_phone, status, total_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return tx.GetContext(ctx, order, query,
		order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.Status, order.TotalPrice)
}

// InsertOrderItemTx inserts one line item inside the caller's transaction
func (s *Store) InsertOrderItemTx(ctx context.Context, tx *sqlx.Tx, item *models.OrderItem) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO order_items (order_id, product_id, quantity) VALUES ($1, $2, $3)",
		item.OrderID, item.ProductID, item.Quantity)
	return err
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderItemsByOrderID retrieves all items for an order
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY product_id", orderID)
	return items, err
}

// GetOrders retrieves one page of orders ordered by id
func (s *Store) GetOrders(ctx context.Context, limit, offset int) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders ORDER BY id LIMIT $1 OFFSET $2", limit, offset)
	return orders, err
}

// CountOrders returns the total number of orders
func (s *Store) CountOrders(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM orders")
	return count, err
}

// UpdateOrderStatus sets an order's status. Re-applying the same status is a
// no-op at the row level, so confirming twice succeeds both times.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2",
		status, orderID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// IsEventProcessed checks if a broker event has already been handled
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed records a handled broker event
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
