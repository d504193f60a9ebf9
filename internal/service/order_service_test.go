package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		CustomerName:  "John Doe",
		CustomerEmail: "john@example.com",
		CustomerPhone: "+7 (777) 123-45-67",
		Products: []ProductQuantity{
			{ID: 1, Quantity: 2},
		},
	}
}

func TestValidatePlaceOrder(t *testing.T) {
	require.NoError(t, validatePlaceOrder(validRequest()))

	tests := []struct {
		name    string
		mutate  func(*PlaceOrderRequest)
		message string
	}{
		{
			name:    "short name",
			mutate:  func(r *PlaceOrderRequest) { r.CustomerName = "Jo" },
			message: "Name must be a string with at least 3 characters",
		},
		{
			name:    "invalid email",
			mutate:  func(r *PlaceOrderRequest) { r.CustomerEmail = "not-an-email" },
			message: "Please provide a valid email address",
		},
		{
			name:    "email with spaces",
			mutate:  func(r *PlaceOrderRequest) { r.CustomerEmail = "john doe@example.com" },
			message: "Please provide a valid email address",
		},
		{
			name:    "short phone",
			mutate:  func(r *PlaceOrderRequest) { r.CustomerPhone = "1234567" },
			message: "Please provide a valid phone number (minimum 8 digits)",
		},
		{
			name:    "phone with letters",
			mutate:  func(r *PlaceOrderRequest) { r.CustomerPhone = "phone12345" },
			message: "Please provide a valid phone number (minimum 8 digits)",
		},
		{
			name:    "empty cart",
			mutate:  func(r *PlaceOrderRequest) { r.Products = nil },
			message: "No products provided",
		},
		{
			name: "zero quantity",
			mutate: func(r *PlaceOrderRequest) {
				r.Products = []ProductQuantity{{ID: 1, Quantity: 0}}
			},
			message: "Quantity for product 1 must be at least 1",
		},
		{
			name: "non-positive product id",
			mutate: func(r *PlaceOrderRequest) {
				r.Products = []ProductQuantity{{ID: 0, Quantity: 1}}
			},
			message: "Product id must be greater than 0",
		},
		{
			name: "duplicate product",
			mutate: func(r *PlaceOrderRequest) {
				r.Products = []ProductQuantity{
					{ID: 1, Quantity: 1},
					{ID: 1, Quantity: 2},
				}
			},
			message: "Product 1 appears more than once",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := validatePlaceOrder(req)
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.message, validationErr.Message)
		})
	}
}

func TestValidatePlaceOrderAcceptsInternationalPhones(t *testing.T) {
	for _, phone := range []string{
		"+77771234567",
		"87771234567",
		"+1 (555) 123-4567",
		"555 123 4567",
	} {
		req := validRequest()
		req.CustomerPhone = phone
		assert.NoError(t, validatePlaceOrder(req), "phone %q should be accepted", phone)
	}
}
