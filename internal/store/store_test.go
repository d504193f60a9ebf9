package store

import (
	"context"
	"testing"

	"github.com/zhaxal/ringi-task/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertOrderWithItems(t *testing.T) {
	t.Skip("Integration test - requires database")

	st, err := NewStore(testDatabaseURL)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()

	product := &models.Product{Name: "Lamp", Price: decimal.RequireFromString("25.00"), Stock: 8}
	require.NoError(t, st.CreateProduct(ctx, product))

	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	order := &models.Order{
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "+77012345678",
		Status:        models.OrderStatusPending,
		TotalPrice:    decimal.RequireFromString("50.00"),
	}
	require.NoError(t, st.InsertOrderTx(ctx, tx, order))
	assert.NotZero(t, order.ID)

	require.NoError(t, st.InsertOrderItemTx(ctx, tx, &models.OrderItem{
		OrderID:   order.ID,
		ProductID: product.ID,
		Quantity:  2,
	}))
	require.NoError(t, tx.Commit())

	got, err := st.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.True(t, got.TotalPrice.Equal(order.TotalPrice))

	items, err := st.GetOrderItemsByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, product.ID, items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestConfirmOrderIsIdempotent(t *testing.T) {
	t.Skip("Integration test - requires database")

	st, err := NewStore(testDatabaseURL)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()

	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	order := &models.Order{
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "+77012345678",
		Status:        models.OrderStatusPending,
		TotalPrice:    decimal.RequireFromString("10.00"),
	}
	require.NoError(t, st.InsertOrderTx(ctx, tx, order))
	require.NoError(t, tx.Commit())

	// Confirming twice succeeds both times and leaves the status completed
	require.NoError(t, st.UpdateOrderStatus(ctx, order.ID, models.OrderStatusCompleted))
	require.NoError(t, st.UpdateOrderStatus(ctx, order.ID, models.OrderStatusCompleted))

	got, err := st.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, got.Status)
}

func TestUpdateOrderStatusMissingOrder(t *testing.T) {
	t.Skip("Integration test - requires database")

	st, err := NewStore(testDatabaseURL)
	require.NoError(t, err)
	defer st.Close()

	err = st.UpdateOrderStatus(context.Background(), 999999, models.OrderStatusCompleted)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSingleSessionPerUser(t *testing.T) {
	t.Skip("Integration test - requires database")

	st, err := NewStore(testDatabaseURL)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()

	user := &models.User{Login: "seller1", Password: "hash"}
	require.NoError(t, st.CreateUser(ctx, user, models.RoleSeller))

	require.NoError(t, st.CreateSession(ctx, user.ID, "token-a"))
	require.NoError(t, st.CreateSession(ctx, user.ID, "token-b"))

	// The first token must be gone once the second session exists
	_, err = st.GetSessionByToken(ctx, "token-a")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	session, err := st.GetSessionByToken(ctx, "token-b")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
}

func TestSellerPushTokensAreDistinct(t *testing.T) {
	t.Skip("Integration test - requires database")

	st, err := NewStore(testDatabaseURL)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()

	user := &models.User{Login: "seller2", Password: "hash"}
	require.NoError(t, st.CreateUser(ctx, user, models.RoleSeller))

	require.NoError(t, st.RegisterPushToken(ctx, user.ID, "device-1"))
	require.NoError(t, st.RegisterPushToken(ctx, user.ID, "device-1"))
	require.NoError(t, st.RegisterPushToken(ctx, user.ID, "device-2"))

	tokens, err := st.GetSellerPushTokens(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"device-1", "device-2"}, tokens)
}
