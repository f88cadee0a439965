// Package store declares the persistence contract for carts, orders and the shipping policy.
// Implementations live in sqlstore (gorm) and mongostore.
package store

import (
	"context"
	"time"

	"foodies-api/models"
)

type CartStore interface {
	// GetCart returns the owner's cart or an apperr.NotFound error.
	GetCart(ctx context.Context, ownerID string) (*models.Cart, error)
	// SaveCart replaces the owner's cart as a whole, creating it when absent.
	SaveCart(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	// AdjustQuantity atomically adds delta to one line and drops lines at or below zero.
	AdjustQuantity(ctx context.Context, ownerID, foodID string, delta int) (*models.Cart, error)
}

type OrderFilter struct {
	OwnerID string
	Status  models.OrderStatus
	Limit   int
}

// StatusChange is the only mutation an order accepts after creation.
// The store records the order's current status as the history entry's origin.
type StatusChange struct {
	To          models.OrderStatus
	DeliveredAt *time.Time
	ChangedBy   string
	Note        string
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetOrderByTrackingRef(ctx context.Context, ref string) (*models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, change StatusChange) (*models.Order, error)
}

type ShippingStore interface {
	// GetShippingPolicy returns nil, nil when no policy was ever saved.
	GetShippingPolicy(ctx context.Context) (*models.ShippingPolicy, error)
	UpsertShippingPolicy(ctx context.Context, policy *models.ShippingPolicy) (*models.ShippingPolicy, error)
}

// Core bundles the three document stores the checkout path depends on.
type Core interface {
	CartStore
	OrderStore
	ShippingStore
}
