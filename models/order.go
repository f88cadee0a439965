package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of a food order
type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusCooking        OrderStatus = "Cooking"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

// AllStatuses lists the statuses in lifecycle order.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusCooking,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is one of the enumerated statuses.
func (s OrderStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

const DefaultPaymentMethod = "Cash on Delivery"

// Order is a frozen financial record. ShippingFee and TotalPrice are computed once
// at placement; only Status, DeliveredAt and the history change afterwards.
type Order struct {
	Base
	OwnerID         string               `json:"ownerId" gorm:"index;size:64;not null"`
	TrackingRef     string               `json:"trackingRef" gorm:"uniqueIndex;size:16;not null"`
	Lines           []OrderLine          `json:"lineItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress Address              `json:"shippingAddress" gorm:"embedded;embeddedPrefix:ship_"`
	PaymentMethod   string               `json:"paymentMethod" gorm:"not null"`
	Subtotal        decimal.Decimal      `json:"subtotal" gorm:"type:numeric(12,2);not null"`
	ShippingFee     decimal.Decimal      `json:"shippingFee" gorm:"type:numeric(12,2);not null"`
	TotalPrice      decimal.Decimal      `json:"totalPrice" gorm:"type:numeric(12,2);not null"`
	Status          OrderStatus          `json:"status" gorm:"index;not null;default:'Pending'"`
	DeliveredAt     *time.Time           `json:"deliveredAt,omitempty"`
	StatusHistory   []OrderStatusHistory `json:"statusHistory,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderLine is the snapshot of a cart line taken at placement time.
type OrderLine struct {
	ID        uint            `json:"-" gorm:"primaryKey"`
	OrderID   string          `json:"-" gorm:"index;size:36;not null"`
	FoodID    string          `json:"foodId" gorm:"size:64;not null"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unitPrice" gorm:"type:numeric(12,2);not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Position  int             `json:"-" gorm:"not null;default:0"`
}

func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderStatusHistory tracks every status change as an audit trail
type OrderStatusHistory struct {
	ID         uint        `json:"-" gorm:"primaryKey"`
	OrderID    string      `json:"-" gorm:"index;size:36;not null"`
	FromStatus OrderStatus `json:"fromStatus"`
	ToStatus   OrderStatus `json:"toStatus" gorm:"not null"`
	ChangedBy  string      `json:"changedBy"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"createdAt"`
}
