// Package mongostore implements the cart, order and shipping stores on MongoDB.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"foodies-api/store"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	cartsCollection    = "carts"
	ordersCollection   = "orders"
	shippingCollection = "shipping_settings"
)

var _ store.Core = (*Store)(nil)

type Store struct {
	carts    *mongo.Collection
	orders   *mongo.Collection
	shipping *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		carts:    db.Collection(cartsCollection),
		orders:   db.Collection(ordersCollection),
		shipping: db.Collection(shippingCollection),
	}
}

// Connect dials uri, pings the server and returns a store bound to database.
// The caller owns the client and must Disconnect it.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return client, New(client.Database(database)), nil
}

// EnsureIndexes creates the uniqueness guarantees the stores rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.carts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("indexing carts: %w", err)
	}
	if _, err := s.orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tracking_ref", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("indexing orders: %w", err)
	}
	return nil
}

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		// decimal.String never produces a form ParseDecimal128 rejects within 34 digits.
		panic(fmt.Sprintf("mongostore: encoding %s: %v", d, err))
	}
	return v
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
