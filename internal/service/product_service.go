package service

import (
	"context"

	"github.com/zhaxal/ringi-task/internal/models"
	"github.com/zhaxal/ringi-task/internal/store"
	"github.com/zhaxal/ringi-task/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles catalog management
type ProductService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(st *store.Store) *ProductService {
	return &ProductService{
		store:  st,
		logger: util.GetLogger(),
	}
}

// ProductRequest carries the catalog fields of a create or update
type ProductRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
}

func validateProduct(req *ProductRequest) error {
	if len(req.Name) < 3 {
		return &ValidationError{Message: "Name must be a string with at least 3 characters"}
	}
	if !req.Price.IsPositive() {
		return &ValidationError{Message: "Price must be a number greater than 0"}
	}
	if req.Stock < 0 {
		return &ValidationError{Message: "Stock must be a number greater or equal to 0"}
	}
	return nil
}

// CreateProduct validates and inserts a new product
func (s *ProductService) CreateProduct(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Stock:       req.Stock,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created", zap.Int64("product_id", product.ID))
	return product, nil
}

// UpdateProduct validates and replaces a product's catalog fields
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req *ProductRequest) error {
	if err := validateProduct(req); err != nil {
		return err
	}

	product := &models.Product{
		ID:          id,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Stock:       req.Stock,
	}

	return s.store.UpdateProduct(ctx, product)
}

// DeleteProduct removes a product; deletion is rejected while the product is
// referenced by any order item
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	return s.store.DeleteProduct(ctx, id)
}

// GetProduct retrieves a product by id
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.store.GetProductByID(ctx, id)
}

// ListProducts retrieves one page of products plus the total count
func (s *ProductService) ListProducts(ctx context.Context, page, limit int) ([]models.Product, int, error) {
	offset := (page - 1) * limit

	products, err := s.store.GetProducts(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.store.CountProducts(ctx)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}
