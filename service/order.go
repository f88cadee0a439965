package service

import (
	"context"
	"strings"
	"time"

	"foodies-api/apperr"
	"foodies-api/checkout"
	"foodies-api/models"
	"foodies-api/notify"
	"foodies-api/statemachine"
	"foodies-api/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const recentOrdersLimit = 6

type OrderService struct {
	orders    store.OrderStore
	shipping  *ShippingService
	publisher notify.Publisher
	policy    statemachine.Policy
	logger    *zap.Logger
}

func NewOrderService(orders store.OrderStore, shipping *ShippingService, publisher notify.Publisher, policy statemachine.Policy, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:    orders,
		shipping:  shipping,
		publisher: publisher,
		policy:    policy,
		logger:    logger.Named("orders"),
	}
}

// Strict reports whether admins are held to the forward lifecycle.
func (s *OrderService) Strict() bool { return s.policy.Strict }

type PlaceOrderInput struct {
	Lines           []models.CartLine `json:"lines"`
	ShippingAddress models.Address    `json:"shippingAddress"`
	PaymentMethod   string            `json:"paymentMethod"`
}

// TrackingRef derives the customer-facing reference from an order id.
func TrackingRef(orderID string) string {
	compact := strings.ToUpper(strings.ReplaceAll(orderID, "-", ""))
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return "FD-" + compact
}

// Place prices the lines under the current policy, stores the order and queues the
// confirmation. A queue failure is logged; the order stands.
func (s *OrderService) Place(ctx context.Context, cust Customer, in PlaceOrderInput) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.Place")
	defer span.End()

	policy, err := s.shipping.Policy(ctx)
	if err != nil {
		return nil, err
	}
	order, err := checkout.Assemble(cust.ID, checkout.Input{
		Lines:           in.Lines,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
	}, policy)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	order.ID = uuid.NewString()
	order.TrackingRef = TrackingRef(order.ID)
	order.StatusHistory = []models.OrderStatusHistory{{
		ToStatus:  models.StatusPending,
		ChangedBy: cust.ID,
		Note:      "Order placed by customer",
	}}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("order.total", order.TotalPrice.String()),
		attribute.Int("order.lines", len(order.Lines)),
	)

	s.publish(ctx, order, cust)
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, order *models.Order, cust Customer) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := s.publisher.Publish(ctx, notify.NewOrderPlaced(order, cust.Email, cust.Name)); err != nil {
		s.logger.Warn("order confirmation not queued",
			zap.String("order_id", order.ID),
			zap.String("tracking_ref", order.TrackingRef),
			zap.Error(err),
		)
	}
}

// Get returns the order if cust owns it or is an admin.
func (s *OrderService) Get(ctx context.Context, cust Customer, id string) (*models.Order, error) {
	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cust.Admin && o.OwnerID != cust.ID {
		return nil, apperr.New(apperr.Forbidden, "not authorized to view this order")
	}
	return o, nil
}

func (s *OrderService) ListMine(ctx context.Context, ownerID string) ([]models.Order, error) {
	return s.orders.ListOrders(ctx, store.OrderFilter{OwnerID: ownerID})
}

func (s *OrderService) ListAll(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	if status != "" && !status.Valid() {
		return nil, apperr.New(apperr.Validation, "unknown status %q", status)
	}
	return s.orders.ListOrders(ctx, store.OrderFilter{Status: status})
}

// Track looks an order up by its public reference.
func (s *OrderService) Track(ctx context.Context, ref string) (*models.Order, error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	if ref == "" {
		return nil, apperr.New(apperr.Validation, "tracking reference is required")
	}
	return s.orders.GetOrderByTrackingRef(ctx, ref)
}

// UpdateStatus is the admin path. Setting the current status again is a no-op.
// deliveredAt is stamped on the first move into Delivered and kept afterwards.
func (s *OrderService) UpdateStatus(ctx context.Context, adminID, id string, to models.OrderStatus, note string) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.UpdateStatus")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", id), attribute.String("order.status", string(to)))

	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == to {
		return o, nil
	}
	if err := s.policy.CanTransition(o.Status, to, statemachine.ActorAdmin); err != nil {
		return nil, err
	}

	change := store.StatusChange{To: to, ChangedBy: adminID, Note: note}
	if to == models.StatusDelivered && o.DeliveredAt == nil {
		now := time.Now().UTC()
		change.DeliveredAt = &now
	}
	updated, err := s.orders.UpdateOrderStatus(ctx, id, change)
	if err != nil {
		return nil, err
	}
	s.logger.Info("order status changed",
		zap.String("order_id", id),
		zap.String("from", string(o.Status)),
		zap.String("to", string(to)),
		zap.String("by", adminID),
	)
	return updated, nil
}

// Cancel lets a customer withdraw their own order while it is still Pending.
func (s *OrderService) Cancel(ctx context.Context, cust Customer, id string) (*models.Order, error) {
	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.OwnerID != cust.ID {
		return nil, apperr.New(apperr.Forbidden, "not authorized to cancel this order")
	}
	if err := s.policy.CanTransition(o.Status, models.StatusCancelled, statemachine.ActorCustomer); err != nil {
		return nil, err
	}
	return s.orders.UpdateOrderStatus(ctx, id, store.StatusChange{
		To:        models.StatusCancelled,
		ChangedBy: cust.ID,
		Note:      "Cancelled by customer",
	})
}

type OrderStats struct {
	TotalOrders   int                        `json:"totalOrders"`
	TotalRevenue  decimal.Decimal            `json:"totalRevenue"`
	StatusSummary map[models.OrderStatus]int `json:"statusSummary"`
	RecentOrders  []models.Order             `json:"recentOrders"`
}

// Stats feeds the admin dashboard. Revenue counts Delivered orders only.
func (s *OrderService) Stats(ctx context.Context) (*OrderStats, error) {
	all, err := s.orders.ListOrders(ctx, store.OrderFilter{})
	if err != nil {
		return nil, err
	}

	stats := &OrderStats{
		TotalOrders:   len(all),
		TotalRevenue:  decimal.Zero,
		StatusSummary: make(map[models.OrderStatus]int, len(models.AllStatuses)),
	}
	for _, st := range models.AllStatuses {
		stats.StatusSummary[st] = 0
	}
	for _, o := range all {
		stats.StatusSummary[o.Status]++
		if o.Status == models.StatusDelivered {
			stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalPrice)
		}
	}
	// newest first already
	n := min(recentOrdersLimit, len(all))
	stats.RecentOrders = all[:n]
	return stats, nil
}
