// Package sqlstore implements the store interfaces on gorm.
package sqlstore

import (
	"foodies-api/models"
	"foodies-api/store"

	"gorm.io/gorm"
)

var _ store.Core = (*Store)(nil)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB { return s.db }

// Models lists every table this service owns, in migration order.
func Models() []any {
	return []any{
		&models.User{},
		&models.Category{},
		&models.Food{},
		&models.Deal{},
		&models.Banner{},
		&models.Blog{},
		&models.Review{},
		&models.Cart{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderLine{},
		&models.OrderStatusHistory{},
		&models.ShippingPolicy{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

func byID(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}
