package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodies-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type shippingDoc struct {
	ID                   string               `bson:"_id"`
	Mode                 models.ShippingMode  `bson:"mode"`
	FlatRate             primitive.Decimal128 `bson:"flat_rate"`
	CustomRate           primitive.Decimal128 `bson:"custom_rate"`
	FreeThresholdEnabled bool                 `bson:"free_threshold_enabled"`
	FreeThresholdAmount  primitive.Decimal128 `bson:"free_threshold_amount"`
	CreatedAt            time.Time            `bson:"created_at"`
	UpdatedAt            time.Time            `bson:"updated_at"`
}

func (s *Store) GetShippingPolicy(ctx context.Context) (*models.ShippingPolicy, error) {
	var doc shippingDoc
	err := s.shipping.FindOne(ctx, bson.M{"_id": models.ShippingPolicyID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading shipping policy: %w", err)
	}
	return &models.ShippingPolicy{
		Base:                 models.Base{ID: doc.ID, CreatedAt: doc.CreatedAt, UpdatedAt: doc.UpdatedAt},
		Mode:                 doc.Mode,
		FlatRate:             fromDecimal128(doc.FlatRate),
		CustomRate:           fromDecimal128(doc.CustomRate),
		FreeThresholdEnabled: doc.FreeThresholdEnabled,
		FreeThresholdAmount:  fromDecimal128(doc.FreeThresholdAmount),
	}, nil
}

func (s *Store) UpsertShippingPolicy(ctx context.Context, policy *models.ShippingPolicy) (*models.ShippingPolicy, error) {
	now := time.Now().UTC()
	_, err := s.shipping.UpdateOne(ctx,
		bson.M{"_id": models.ShippingPolicyID},
		bson.M{
			"$set": bson.M{
				"mode":                   policy.Mode,
				"flat_rate":              toDecimal128(policy.FlatRate),
				"custom_rate":            toDecimal128(policy.CustomRate),
				"free_threshold_enabled": policy.FreeThresholdEnabled,
				"free_threshold_amount":  toDecimal128(policy.FreeThresholdAmount),
				"updated_at":             now,
			},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("saving shipping policy: %w", err)
	}
	return s.GetShippingPolicy(ctx)
}
