package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderPlaced = "ORDER_PLACED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent is published after an order transaction commits. It feeds
// the seller push notification fan-out and carries no state the dispatcher
// would need to read back from the order transaction.
type OrderPlacedEvent struct {
	BaseEvent
	OrderID    int64            `json:"order_id"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	Items      []OrderItemEvent `json:"items"`
}

// OrderItemEvent represents item data in events
type OrderItemEvent struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
