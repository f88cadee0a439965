package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodies-api/apperr"
	"foodies-api/models"
	"foodies-api/store"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderDoc struct {
	ID              string               `bson:"_id"`
	OwnerID         string               `bson:"owner_id"`
	TrackingRef     string               `bson:"tracking_ref"`
	Lines           []orderLineDoc       `bson:"line_items"`
	ShippingAddress models.Address       `bson:"shipping_address"`
	PaymentMethod   string               `bson:"payment_method"`
	Subtotal        primitive.Decimal128 `bson:"subtotal"`
	ShippingFee     primitive.Decimal128 `bson:"shipping_fee"`
	TotalPrice      primitive.Decimal128 `bson:"total_price"`
	Status          models.OrderStatus   `bson:"status"`
	DeliveredAt     *time.Time           `bson:"delivered_at,omitempty"`
	History         []historyDoc         `bson:"status_history"`
	CreatedAt       time.Time            `bson:"created_at"`
	UpdatedAt       time.Time            `bson:"updated_at"`
}

type orderLineDoc struct {
	FoodID    string               `bson:"food_id"`
	Name      string               `bson:"name"`
	Image     string               `bson:"image"`
	UnitPrice primitive.Decimal128 `bson:"unit_price"`
	Quantity  int                  `bson:"quantity"`
}

type historyDoc struct {
	From      models.OrderStatus `bson:"from"`
	To        models.OrderStatus `bson:"to"`
	ChangedBy string             `bson:"changed_by"`
	Note      string             `bson:"note"`
	CreatedAt time.Time          `bson:"created_at"`
}

func newOrderDoc(o *models.Order) orderDoc {
	doc := orderDoc{
		ID:              o.ID,
		OwnerID:         o.OwnerID,
		TrackingRef:     o.TrackingRef,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Subtotal:        toDecimal128(o.Subtotal),
		ShippingFee:     toDecimal128(o.ShippingFee),
		TotalPrice:      toDecimal128(o.TotalPrice),
		Status:          o.Status,
		DeliveredAt:     o.DeliveredAt,
		Lines:           make([]orderLineDoc, 0, len(o.Lines)),
		History:         make([]historyDoc, 0, len(o.StatusHistory)),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, l := range o.Lines {
		doc.Lines = append(doc.Lines, orderLineDoc{
			FoodID:    l.FoodID,
			Name:      l.Name,
			Image:     l.Image,
			UnitPrice: toDecimal128(l.UnitPrice),
			Quantity:  l.Quantity,
		})
	}
	for _, h := range o.StatusHistory {
		doc.History = append(doc.History, historyDoc{
			From: h.FromStatus, To: h.ToStatus, ChangedBy: h.ChangedBy, Note: h.Note, CreatedAt: h.CreatedAt,
		})
	}
	return doc
}

func (d orderDoc) model() *models.Order {
	o := &models.Order{
		Base:            models.Base{ID: d.ID, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		OwnerID:         d.OwnerID,
		TrackingRef:     d.TrackingRef,
		ShippingAddress: d.ShippingAddress,
		PaymentMethod:   d.PaymentMethod,
		Subtotal:        fromDecimal128(d.Subtotal),
		ShippingFee:     fromDecimal128(d.ShippingFee),
		TotalPrice:      fromDecimal128(d.TotalPrice),
		Status:          d.Status,
		DeliveredAt:     d.DeliveredAt,
		Lines:           make([]models.OrderLine, 0, len(d.Lines)),
	}
	for i, l := range d.Lines {
		o.Lines = append(o.Lines, models.OrderLine{
			OrderID:   d.ID,
			FoodID:    l.FoodID,
			Name:      l.Name,
			Image:     l.Image,
			UnitPrice: fromDecimal128(l.UnitPrice),
			Quantity:  l.Quantity,
			Position:  i,
		})
	}
	for i, h := range d.History {
		o.StatusHistory = append(o.StatusHistory, models.OrderStatusHistory{
			ID:         uint(i + 1),
			OrderID:    d.ID,
			FromStatus: h.From,
			ToStatus:   h.To,
			ChangedBy:  h.ChangedBy,
			Note:       h.Note,
			CreatedAt:  h.CreatedAt,
		})
	}
	return o
}

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	for i := range order.StatusHistory {
		if order.StatusHistory[i].CreatedAt.IsZero() {
			order.StatusHistory[i].CreatedAt = now
		}
	}

	if _, err := s.orders.InsertOne(ctx, newOrderDoc(order)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Wrap(apperr.Conflict, err, "order %s already exists", order.ID)
		}
		return fmt.Errorf("creating order: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.findOrder(ctx, bson.M{"_id": id})
}

func (s *Store) GetOrderByTrackingRef(ctx context.Context, ref string) (*models.Order, error) {
	return s.findOrder(ctx, bson.M{"tracking_ref": ref})
}

func (s *Store) findOrder(ctx context.Context, filter bson.M) (*models.Order, error) {
	var doc orderDoc
	err := s.orders.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.NotFound, "order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("loading order: %w", err)
	}
	return doc.model(), nil
}

func (s *Store) ListOrders(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	query := bson.M{}
	if filter.OwnerID != "" {
		query["owner_id"] = filter.OwnerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := s.orders.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding orders: %w", err)
	}
	orders := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, *d.model())
	}
	return orders, nil
}

// UpdateOrderStatus is a compare-and-set on the current status. A concurrent change
// between the read and the write surfaces as a conflict rather than a lost history row.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, change store.StatusChange) (*models.Order, error) {
	current, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	set := bson.M{"status": change.To, "updated_at": now}
	if change.DeliveredAt != nil {
		set["delivered_at"] = *change.DeliveredAt
	}
	entry := historyDoc{From: current.Status, To: change.To, ChangedBy: change.ChangedBy, Note: change.Note, CreatedAt: now}

	res, err := s.orders.UpdateOne(ctx,
		bson.M{"_id": id, "status": current.Status},
		bson.M{"$set": set, "$push": bson.M{"status_history": entry}},
	)
	if err != nil {
		return nil, fmt.Errorf("updating order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, apperr.New(apperr.Conflict, "order %s changed while updating, retry", id)
	}
	return s.GetOrder(ctx, id)
}
