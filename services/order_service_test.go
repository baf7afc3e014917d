package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/foodiehub/models"
)

func TestOrderServiceCreate(t *testing.T) {
	db := setupTestDB(t)
	_, items := seedMenu(t, db)
	svc := NewOrderService(db)
	ctx := context.Background()

	order, err := svc.Create(ctx, OrderRequest{
		MenuItem:      MenuItemRef{ID: items[0].ID},
		UserName:      "alice",
		UserEmail:     "alice@example.com",
		Price:         400,
		PaymentMethod: "cod",
		DeliveryNotes: "2 x Chicken Biryani",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "Chicken Biryani", order.MenuItem.Name)

	_, err = svc.Create(ctx, OrderRequest{MenuItem: MenuItemRef{ID: 999}, UserName: "alice"})
	assert.ErrorIs(t, err, ErrMenuItemNotFound)

	_, err = svc.Create(ctx, OrderRequest{MenuItem: MenuItemRef{ID: items[0].ID}})
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestOrderServiceQueries(t *testing.T) {
	db := setupTestDB(t)
	_, items := seedMenu(t, db)
	svc := NewOrderService(db)
	ctx := context.Background()

	for _, r := range []OrderRequest{
		{MenuItem: MenuItemRef{ID: items[0].ID}, UserName: "alice", UserEmail: "alice@example.com", Price: 200},
		{MenuItem: MenuItemRef{ID: items[1].ID}, UserName: "alice", UserEmail: "alice@example.com", Price: 180},
		{MenuItem: MenuItemRef{ID: items[1].ID}, UserName: "bob", UserEmail: "bob@example.com", Price: 360},
	} {
		_, err := svc.Create(ctx, r)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byUser, err := svc.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	byEmail, err := svc.ListByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Len(t, byEmail, 1)

	byItem, err := svc.ListByMenuItem(ctx, items[1].ID)
	require.NoError(t, err)
	assert.Len(t, byItem, 2)

	n, err := svc.CountOrders(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	n, _ = svc.CountOrders(ctx, "alice")
	assert.Equal(t, 2, n)

	none, err := svc.ListByUser(ctx, "carol")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestOrderServiceStatusAndDelete(t *testing.T) {
	db := setupTestDB(t)
	_, items := seedMenu(t, db)
	svc := NewOrderService(db)
	ctx := context.Background()

	order, err := svc.Create(ctx, OrderRequest{MenuItem: MenuItemRef{ID: items[0].ID}, UserName: "alice", Price: 200, PaymentMethod: "cod"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, "teleported")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	updated, err := svc.UpdateStatus(ctx, order.ID, "delivered")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)

	delivered, err := svc.ListByStatus(ctx, "DELIVERED")
	require.NoError(t, err)
	assert.Len(t, delivered, 1)

	updated, err = svc.Update(ctx, order.ID, OrderRequest{Address: "12 MG Road", PhoneNumber: "9876543210", PaymentMethod: "upi", DeliveryNotes: "ring twice"})
	require.NoError(t, err)
	assert.Equal(t, "12 MG Road", updated.Address)

	require.NoError(t, svc.Delete(ctx, order.ID))
	assert.ErrorIs(t, svc.Delete(ctx, order.ID), ErrOrderNotFound)

	_, err = svc.Get(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
