package store

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/zhaxal/ringi-task/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReservationItem is one (product, quantity) pair of a cart
type ReservationItem struct {
	ProductID int64
	Quantity  int
}

// ReserveStock locks every requested product row, validates availability and
// decrements stock in place, accumulating the order total. It runs entirely
// inside the caller's transaction: the first failure returns immediately and
// the enclosing rollback undoes any decrement already applied.
//
// Rows are locked in ascending product id order regardless of cart order, so
// two concurrent multi-item orders can never hold each other's locks in
// opposite order.
func (s *Store) ReserveStock(ctx context.Context, tx *sqlx.Tx, items []ReservationItem, lowStockThreshold int) (decimal.Decimal, error) {
	start := time.Now()
	defer func() {
		util.ReservationLatency.Observe(time.Since(start).Seconds())
	}()

	sorted := make([]ReservationItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProductID < sorted[j].ProductID
	})

	total := decimal.Zero

	for _, item := range sorted {
		var row struct {
			Price decimal.Decimal `db:"price"`
			Stock int             `db:"stock"`
		}

		err := tx.GetContext(ctx, &row,
			"SELECT price, stock FROM products WHERE id = $1 FOR UPDATE", item.ProductID)
		if err == sql.ErrNoRows {
			return decimal.Zero, &ProductNotFoundError{ProductID: item.ProductID}
		}
		if err != nil {
			return decimal.Zero, err
		}

		if row.Stock < item.Quantity {
			return decimal.Zero, &InsufficientStockError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: row.Stock,
			}
		}

		newStock := row.Stock - item.Quantity
		if _, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = $1, updated_at = NOW() WHERE id = $2",
			newStock, item.ProductID); err != nil {
			return decimal.Zero, err
		}

		total = total.Add(row.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))

		if newStock < lowStockThreshold {
			util.StockLowTotal.Inc()
			util.GetLogger().Warn("Product is running low on stock",
				zap.Int64("product_id", item.ProductID),
				zap.Int("stock", newStock))
		}
	}

	return total, nil
}
