package models

import "github.com/shopspring/decimal"

// Deal is a combo offer shown on the deals page.
type Deal struct {
	Base
	Name          string          `json:"name" gorm:"not null" binding:"required"`
	Items         string          `json:"items" binding:"required"`
	OriginalPrice decimal.Decimal `json:"originalPrice" gorm:"type:numeric(12,2)"`
	DealPrice     decimal.Decimal `json:"dealPrice" gorm:"type:numeric(12,2);not null"`
	Image         string          `json:"image" binding:"required"`
	Active        bool            `json:"active" gorm:"default:true"`
}

type Banner struct {
	Base
	Title       string `json:"title" gorm:"not null" binding:"required"`
	Subtitle    string `json:"subtitle"`
	Image       string `json:"image" binding:"required"`
	DiscountTag string `json:"discountTag"`
	Active      bool   `json:"active" gorm:"default:true"`
}

type Blog struct {
	Base
	Title    string `json:"title" gorm:"not null" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Author   string `json:"author" gorm:"default:'Admin'"`
	Image    string `json:"image" binding:"required"`
	Category string `json:"category" gorm:"default:'Food Trends'"`
}

type Review struct {
	Base
	UserID   string `json:"userId" gorm:"index;not null"`
	UserName string `json:"userName" gorm:"not null"`
	FoodID   string `json:"foodId" gorm:"index;not null" binding:"required"`
	FoodName string `json:"foodName" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment" binding:"required"`
}
