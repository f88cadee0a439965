package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"foodies-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) GetShippingPolicy(ctx context.Context) (*models.ShippingPolicy, error) {
	var p models.ShippingPolicy
	err := s.db.WithContext(ctx).First(&p, "id = ?", models.ShippingPolicyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading shipping policy: %w", err)
	}
	return &p, nil
}

// UpsertShippingPolicy writes the singleton row. Concurrent admins race; last write wins.
func (s *Store) UpsertShippingPolicy(ctx context.Context, policy *models.ShippingPolicy) (*models.ShippingPolicy, error) {
	row := *policy
	row.ID = models.ShippingPolicyID
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("saving shipping policy: %w", err)
	}
	return s.GetShippingPolicy(ctx)
}
