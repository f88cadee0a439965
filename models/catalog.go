package models

import "github.com/shopspring/decimal"

type FoodStatus string

const (
	FoodAvailable  FoodStatus = "Available"
	FoodOutOfStock FoodStatus = "Out of Stock"
)

// Food is a menu entry. Carts copy name, image and price from it at add time
// and never look back.
type Food struct {
	Base
	Name        string          `json:"name" gorm:"not null" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Image       string          `json:"image" binding:"required"`
	Category    string          `json:"category" gorm:"index" binding:"required"`
	Status      FoodStatus      `json:"status" gorm:"default:'Available'"`
	Rating      float64         `json:"rating" gorm:"default:4.5"`
	NumReviews  int             `json:"numReviews" gorm:"default:0"`
}

type Category struct {
	Base
	Name  string `json:"name" gorm:"uniqueIndex;not null" binding:"required"`
	Image string `json:"image" binding:"required"`
}
