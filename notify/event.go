// Package notify delivers order confirmations off the request path. Services publish
// events to a Queue; a Worker drains it and hands rendered messages to a Mailer.
package notify

import (
	"context"
	"time"

	"foodies-api/models"

	"github.com/shopspring/decimal"
)

// DefaultQueueKey is the Redis list the order events travel through.
const DefaultQueueKey = "foodies:order-events"

type Item struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// OrderPlaced is published once per successfully persisted order.
type OrderPlaced struct {
	OrderID       string          `json:"orderId"`
	TrackingRef   string          `json:"trackingRef"`
	OwnerID       string          `json:"ownerId"`
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	Items         []Item          `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ShippingFee   decimal.Decimal `json:"shippingFee"`
	Total         decimal.Decimal `json:"total"`
	Address       models.Address  `json:"address"`
	PaymentMethod string          `json:"paymentMethod"`
	PlacedAt      time.Time       `json:"placedAt"`
}

// NewOrderPlaced builds the event from a stored order and the recipient's contact details.
func NewOrderPlaced(o *models.Order, email, name string) OrderPlaced {
	ev := OrderPlaced{
		OrderID:       o.ID,
		TrackingRef:   o.TrackingRef,
		OwnerID:       o.OwnerID,
		Email:         email,
		Name:          name,
		Subtotal:      o.Subtotal,
		ShippingFee:   o.ShippingFee,
		Total:         o.TotalPrice,
		Address:       o.ShippingAddress,
		PaymentMethod: o.PaymentMethod,
		PlacedAt:      o.CreatedAt,
		Items:         make([]Item, 0, len(o.Lines)),
	}
	for _, l := range o.Lines {
		ev.Items = append(ev.Items, Item{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal(),
		})
	}
	return ev
}

//go:generate mockgen -destination=mocks/mock_notify.go -package=mocks foodies-api/notify Publisher,Queue,Mailer

// Publisher is the side the order service sees.
type Publisher interface {
	Publish(ctx context.Context, ev OrderPlaced) error
}

// Queue carries events from publishers to the worker. Consume blocks for at most
// timeout and returns nil, nil when nothing arrived.
type Queue interface {
	Publisher
	Consume(ctx context.Context, timeout time.Duration) (*OrderPlaced, error)
}
