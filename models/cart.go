package models

import "github.com/shopspring/decimal"

// Cart is the per-user basket. One per owner, created lazily, emptied but never deleted.
type Cart struct {
	Base
	OwnerID string     `json:"ownerId" gorm:"uniqueIndex;size:64;not null"`
	Lines   []CartLine `json:"lines" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// CartLine is unique per (cart, food) and always has a positive quantity once stored.
type CartLine struct {
	ID        uint            `json:"-" gorm:"primaryKey"`
	CartID    string          `json:"-" gorm:"uniqueIndex:idx_cart_food;size:36;not null"`
	FoodID    string          `json:"foodId" gorm:"uniqueIndex:idx_cart_food;size:64;not null"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unitPrice" gorm:"type:numeric(12,2);not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Position  int             `json:"-" gorm:"not null;default:0"`
}

// LineTotal is unitPrice × quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// TotalQuantity sums quantities across lines.
func (c *Cart) TotalQuantity() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}
