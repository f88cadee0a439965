package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"foodies-api/apperr"
	"foodies-api/models"
	"foodies-api/store"

	"gorm.io/gorm"
)

// CreateOrder inserts the order with its lines and history in one statement group;
// gorm wraps association saves in a transaction so either all rows land or none.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("creating order: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.findOrder(ctx, "id = ?", id)
}

func (s *Store) GetOrderByTrackingRef(ctx context.Context, ref string) (*models.Order, error) {
	return s.findOrder(ctx, "tracking_ref = ?", ref)
}

func (s *Store) findOrder(ctx context.Context, query string, arg any) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).
		Preload("Lines", byPosition).
		Preload("StatusHistory", byID).
		Where(query, arg).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("loading order: %w", err)
	}
	return &o, nil
}

func (s *Store) ListOrders(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Preload("Lines", byPosition)
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	orders := []models.Order{}
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus touches status, delivered_at and updated_at only. Line items,
// shipping fee and total are never part of the update set.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, change store.StatusChange) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		err := tx.First(&o, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "order not found")
		}
		if err != nil {
			return err
		}

		from := o.Status
		updates := map[string]any{"status": change.To}
		if change.DeliveredAt != nil {
			updates["delivered_at"] = *change.DeliveredAt
		}
		if err := tx.Model(&o).Updates(updates).Error; err != nil {
			return err
		}

		history := models.OrderStatusHistory{
			OrderID:    o.ID,
			FromStatus: from,
			ToStatus:   change.To,
			ChangedBy:  change.ChangedBy,
			Note:       change.Note,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, fmt.Errorf("updating order status: %w", err)
	}
	return s.GetOrder(ctx, id)
}
