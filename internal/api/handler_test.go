package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zhaxal/ringi-task/internal/service"
	"github.com/zhaxal/ringi-task/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation error",
			err:        &service.ValidationError{Message: "No products provided"},
			wantStatus: http.StatusBadRequest,
			wantBody:   "No products provided",
		},
		{
			name:       "product not found",
			err:        &store.ProductNotFoundError{ProductID: 7},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Product 7 not found",
		},
		{
			name:       "insufficient stock",
			err:        &store.InsufficientStockError{ProductID: 1, Requested: 1, Available: 0},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Insufficient stock for product 1: requested 1, available 0",
		},
		{
			name:       "order not found",
			err:        store.ErrOrderNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   "Order not found",
		},
		{
			name:       "referenced product delete",
			err:        store.ErrProductReferenced,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Cannot delete product that is used in orders",
		},
		{
			name:       "lock conflict",
			err:        fmt.Errorf("%w: lock timeout", service.ErrConflict),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "Temporary conflict, please retry",
		},
		{
			name:       "unexpected error",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			respondError(c, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestPaginationDefaults(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)

	page, limit := pagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/products?page=0&limit=1000", nil)
	page, limit = pagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/products?page=3&limit=25", nil)
	page, limit = pagination(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, limit)
}

func TestPaginationMeta(t *testing.T) {
	meta := paginationMeta(2, 10, 35)
	assert.Equal(t, 4, meta["totalPages"])
	assert.Equal(t, true, meta["hasMore"])

	meta = paginationMeta(4, 10, 35)
	assert.Equal(t, false, meta["hasMore"])

	meta = paginationMeta(1, 10, 0)
	assert.Equal(t, 0, meta["totalPages"])
	assert.Equal(t, false, meta["hasMore"])
}
