package models

import "github.com/shopspring/decimal"

type ShippingMode string

const (
	ShippingFree   ShippingMode = "free"
	ShippingFlat   ShippingMode = "flat"
	ShippingCustom ShippingMode = "custom"
)

// ShippingPolicyID is the fixed key of the singleton policy document.
const ShippingPolicyID = "default"

// ShippingPolicy is the admin-configured fee rule. Exactly one exists per deployment.
type ShippingPolicy struct {
	Base
	Mode                 ShippingMode    `json:"mode" gorm:"not null"`
	FlatRate             decimal.Decimal `json:"flatRate" gorm:"type:numeric(12,2);not null"`
	CustomRate           decimal.Decimal `json:"customRate" gorm:"type:numeric(12,2);not null"`
	FreeThresholdEnabled bool            `json:"freeThresholdEnabled"`
	FreeThresholdAmount  decimal.Decimal `json:"freeThresholdAmount" gorm:"type:numeric(12,2);not null"`
}
