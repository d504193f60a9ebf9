package store

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrOrderNotFound is returned when an order id does not exist
	ErrOrderNotFound = errors.New("order not found")

	// ErrProductReferenced blocks deletion of a product that appears in order items
	ErrProductReferenced = errors.New("product is referenced by existing orders")

	// ErrUserNotFound is returned when a user lookup matches no row
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionNotFound is returned when a token matches no session row
	ErrSessionNotFound = errors.New("session not found")

	// ErrDuplicateLogin is returned when registering an already taken login
	ErrDuplicateLogin = errors.New("login already exists")
)

// ProductNotFoundError identifies which product in a request does not exist
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Product %d not found", e.ProductID)
}

// InsufficientStockError carries the requested and available quantities of
// the product that could not be reserved
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Postgres error codes for aborted lock acquisition
const (
	pqLockNotAvailable = "55P03"
	pqDeadlockDetected = "40P01"
	pqUniqueViolation  = "23505"
)

// IsLockConflict reports whether err is a lock-wait timeout or a deadlock,
// both of which abort the transaction and are safe for the caller to retry.
func IsLockConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqLockNotAvailable || pqErr.Code == pqDeadlockDetected
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}
