package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodies-api/apperr"
	"foodies-api/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cartDoc struct {
	ID        string        `bson:"_id"`
	OwnerID   string        `bson:"owner_id"`
	Lines     []cartLineDoc `bson:"lines"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

type cartLineDoc struct {
	FoodID    string               `bson:"food_id"`
	Name      string               `bson:"name"`
	Image     string               `bson:"image"`
	UnitPrice primitive.Decimal128 `bson:"unit_price"`
	Quantity  int                  `bson:"quantity"`
}

func (d cartDoc) model() *models.Cart {
	c := &models.Cart{
		Base:    models.Base{ID: d.ID, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		OwnerID: d.OwnerID,
		Lines:   make([]models.CartLine, 0, len(d.Lines)),
	}
	for i, l := range d.Lines {
		c.Lines = append(c.Lines, models.CartLine{
			CartID:    d.ID,
			FoodID:    l.FoodID,
			Name:      l.Name,
			Image:     l.Image,
			UnitPrice: fromDecimal128(l.UnitPrice),
			Quantity:  l.Quantity,
			Position:  i,
		})
	}
	return c
}

func cartLineDocs(lines []models.CartLine) []cartLineDoc {
	docs := make([]cartLineDoc, 0, len(lines))
	for _, l := range lines {
		docs = append(docs, cartLineDoc{
			FoodID:    l.FoodID,
			Name:      l.Name,
			Image:     l.Image,
			UnitPrice: toDecimal128(l.UnitPrice),
			Quantity:  l.Quantity,
		})
	}
	return docs
}

func (s *Store) GetCart(ctx context.Context, ownerID string) (*models.Cart, error) {
	var doc cartDoc
	err := s.carts.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.NotFound, "cart not found")
	}
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	return doc.model(), nil
}

// SaveCart replaces the line array in a single document update, so readers see either
// the old or the new line set.
func (s *Store) SaveCart(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	now := time.Now().UTC()
	_, err := s.carts.UpdateOne(ctx,
		bson.M{"owner_id": cart.OwnerID},
		bson.M{
			"$set":         bson.M{"lines": cartLineDocs(cart.Lines), "updated_at": now},
			"$setOnInsert": bson.M{"_id": uuid.NewString(), "created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("saving cart: %w", err)
	}
	return s.GetCart(ctx, cart.OwnerID)
}

func (s *Store) AdjustQuantity(ctx context.Context, ownerID, foodID string, delta int) (*models.Cart, error) {
	now := time.Now().UTC()
	res, err := s.carts.UpdateOne(ctx,
		bson.M{"owner_id": ownerID, "lines.food_id": foodID},
		bson.M{
			"$inc": bson.M{"lines.$.quantity": delta},
			"$set": bson.M{"updated_at": now},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("adjusting cart: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := s.carts.CountDocuments(ctx, bson.M{"owner_id": ownerID})
		if err != nil {
			return nil, fmt.Errorf("adjusting cart: %w", err)
		}
		if n == 0 {
			return nil, apperr.New(apperr.NotFound, "cart not found")
		}
		return nil, apperr.New(apperr.NotFound, "item not found in cart")
	}

	if _, err := s.carts.UpdateOne(ctx,
		bson.M{"owner_id": ownerID},
		bson.M{"$pull": bson.M{"lines": bson.M{"quantity": bson.M{"$lte": 0}}}},
	); err != nil {
		return nil, fmt.Errorf("purging cart lines: %w", err)
	}
	return s.GetCart(ctx, ownerID)
}
