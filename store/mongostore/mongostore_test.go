package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"foodies-api/apperr"
	"foodies-api/models"
	"foodies-api/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDecimal128RoundTrip(t *testing.T) {
	for _, in := range []string{"0", "250", "4.25", "1999.99", "0.01", "123456789.12"} {
		assert.True(t, fromDecimal128(toDecimal128(d(in))).Equal(d(in)), in)
	}
}

func TestOrderDocRoundTrip(t *testing.T) {
	delivered := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	o := &models.Order{
		Base:            models.Base{ID: "o1"},
		OwnerID:         "u1",
		TrackingRef:     "FD-ABC12345",
		ShippingAddress: models.Address{Street: "1 Main", City: "Lahore", Phone: "555"},
		PaymentMethod:   models.DefaultPaymentMethod,
		Lines: []models.OrderLine{
			{FoodID: "F1", Name: "Karahi", UnitPrice: d("1200.50"), Quantity: 2},
			{FoodID: "F2", Name: "Naan", UnitPrice: d("40"), Quantity: 4},
		},
		Subtotal:      d("2561"),
		ShippingFee:   d("0"),
		TotalPrice:    d("2561"),
		Status:        models.StatusDelivered,
		DeliveredAt:   &delivered,
		StatusHistory: []models.OrderStatusHistory{{FromStatus: "", ToStatus: models.StatusPending, ChangedBy: "u1"}},
	}

	got := newOrderDoc(o).model()
	assert.Equal(t, o.TrackingRef, got.TrackingRef)
	assert.Equal(t, o.ShippingAddress, got.ShippingAddress)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, 1, got.Lines[1].Position)
	assert.True(t, got.Lines[0].UnitPrice.Equal(d("1200.50")))
	assert.True(t, got.TotalPrice.Equal(d("2561")))
	require.Len(t, got.StatusHistory, 1)
	assert.Equal(t, models.StatusPending, got.StatusHistory[0].ToStatus)
	assert.Equal(t, &delivered, got.DeliveredAt)
}

// newLiveStore talks to a real server named by FOODIES_TEST_MONGO_URI, using a
// throwaway database dropped on cleanup.
func newLiveStore(t *testing.T) *Store {
	uri := os.Getenv("FOODIES_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("FOODIES_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	name := "foodies_test_" + uuid.NewString()[:8]
	client, s, err := Connect(ctx, uri, name)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Database(name).Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	require.NoError(t, s.EnsureIndexes(ctx))
	return s
}

func TestLiveCart(t *testing.T) {
	s := newLiveStore(t)
	ctx := context.Background()

	_, err := s.GetCart(ctx, "u1")
	assert.True(t, apperr.Is(err, apperr.NotFound))

	c, err := s.SaveCart(ctx, &models.Cart{OwnerID: "u1", Lines: []models.CartLine{
		{FoodID: "F2", UnitPrice: d("4.25"), Quantity: 1},
		{FoodID: "F1", UnitPrice: d("10"), Quantity: 2},
	}})
	require.NoError(t, err)
	require.Len(t, c.Lines, 2)
	assert.Equal(t, "F2", c.Lines[0].FoodID)

	c, err = s.AdjustQuantity(ctx, "u1", "F1", 3)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Lines[1].Quantity)

	c, err = s.AdjustQuantity(ctx, "u1", "F2", -1)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)

	_, err = s.AdjustQuantity(ctx, "u1", "F2", 1)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestLiveOrderLifecycle(t *testing.T) {
	s := newLiveStore(t)
	ctx := context.Background()

	o := &models.Order{
		OwnerID:     "u1",
		TrackingRef: "FD-" + uuid.NewString()[:8],
		Lines:       []models.OrderLine{{FoodID: "F1", UnitPrice: d("600"), Quantity: 3}},
		Subtotal:    d("1800"), ShippingFee: d("250"), TotalPrice: d("2050"),
		Status: models.StatusPending,
	}
	require.NoError(t, s.CreateOrder(ctx, o))

	got, err := s.UpdateOrderStatus(ctx, o.ID, store.StatusChange{To: models.StatusCooking, ChangedBy: "admin"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCooking, got.Status)
	require.Len(t, got.StatusHistory, 1)
	assert.Equal(t, models.StatusPending, got.StatusHistory[0].FromStatus)
	assert.True(t, got.TotalPrice.Equal(d("2050")))

	list, err := s.ListOrders(ctx, store.OrderFilter{OwnerID: "u1"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	p, err := s.GetShippingPolicy(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
	p, err = s.UpsertShippingPolicy(ctx, &models.ShippingPolicy{Mode: models.ShippingFree, FlatRate: d("0"), CustomRate: d("0"), FreeThresholdAmount: d("0")})
	require.NoError(t, err)
	assert.Equal(t, models.ShippingFree, p.Mode)
}
