package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodies-api/apperr"
	"foodies-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) GetCart(ctx context.Context, ownerID string) (*models.Cart, error) {
	var c models.Cart
	err := s.db.WithContext(ctx).
		Preload("Lines", byPosition).
		Where("owner_id = ?", ownerID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "cart not found")
	}
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	return &c, nil
}

// SaveCart rewrites the line set inside one transaction so a failed save leaves the
// previously persisted cart untouched.
func (s *Store) SaveCart(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		head, err := lockCart(tx, cart.OwnerID)
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", head.ID).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		if len(cart.Lines) == 0 {
			return nil
		}
		lines := make([]models.CartLine, len(cart.Lines))
		for i, l := range cart.Lines {
			l.ID = 0
			l.CartID = head.ID
			l.Position = i
			lines[i] = l
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, fmt.Errorf("saving cart: %w", err)
	}
	return s.GetCart(ctx, cart.OwnerID)
}

func (s *Store) AdjustQuantity(ctx context.Context, ownerID, foodID string, delta int) (*models.Cart, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var head models.Cart
		err := tx.Where("owner_id = ?", ownerID).First(&head).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "cart not found")
		}
		if err != nil {
			return err
		}

		res := tx.Model(&models.CartLine{}).
			Where("cart_id = ? AND food_id = ?", head.ID, foodID).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.NotFound, "item not found in cart")
		}
		if err := tx.Where("cart_id = ? AND quantity <= 0", head.ID).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		return tx.Model(&head).UpdateColumn("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, fmt.Errorf("adjusting cart: %w", err)
	}
	return s.GetCart(ctx, ownerID)
}

// lockCart returns the owner's cart row, creating it on first use. Concurrent first
// writes collapse onto the same row through the owner_id unique index.
func lockCart(tx *gorm.DB, ownerID string) (*models.Cart, error) {
	head := models.Cart{OwnerID: ownerID}
	if err := tx.Omit("Lines").
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "owner_id"}}, DoNothing: true}).
		Create(&head).Error; err != nil {
		return nil, err
	}
	var existing models.Cart
	if err := tx.Where("owner_id = ?", ownerID).First(&existing).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&existing).UpdateColumn("updated_at", time.Now()).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}
