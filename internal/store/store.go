package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zhaxal/ringi-task/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store is the process-wide handle to the inventory database. It owns the
// connection pool; business logic receives it injected, never constructs it.
type Store struct {
	db *sqlx.DB
}

// NewStore connects to the database and configures the shared pool
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close drains the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginTx opens a transaction for the order commit sequence
func (s *Store) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return s.db.BeginTxx(ctx, nil)
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, &ProductNotFoundError{ProductID: id}
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts retrieves one page of products ordered by id
func (s *Store) GetProducts(ctx context.Context, limit, offset int) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products ORDER BY id LIMIT $1 OFFSET $2", limit, offset)
	return products, err
}

// CountProducts returns the total number of products
func (s *Store) CountProducts(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM products")
	return count, err
}

// CreateProduct inserts a new product
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, price, description, stock)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, product, query,
		product.Name, product.Price, product.Description, product.Stock)
}

// UpdateProduct replaces a product's catalog fields
func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET name = $1, price = $2, description = $3, stock = $4, updated_at = NOW() WHERE id = $5",
		product.Name, product.Price, product.Description, product.Stock, product.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &ProductNotFoundError{ProductID: product.ID}
	}
	return nil
}

// DeleteProduct removes a product unless any order item still references it.
// Product deletion is blocked, not cascaded.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	var referenced bool
	err := s.db.GetContext(ctx, &referenced,
		"SELECT EXISTS(SELECT 1 FROM order_items WHERE product_id = $1)", id)
	if err != nil {
		return err
	}
	if referenced {
		return ErrProductReferenced
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &ProductNotFoundError{ProductID: id}
	}
	return nil
}
