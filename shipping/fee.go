// Package shipping evaluates the admin-configured shipping policy.
package shipping

import (
	"strings"

	"foodies-api/apperr"
	"foodies-api/models"

	"github.com/shopspring/decimal"
)

// ComputeFee picks the shipping fee for a cart subtotal. First match wins:
// free-threshold, then free / flat / custom mode. A nil policy or an unknown mode
// yields zero so missing configuration never blocks checkout.
func ComputeFee(policy *models.ShippingPolicy, subtotal decimal.Decimal) decimal.Decimal {
	if policy == nil {
		return decimal.Zero
	}
	if policy.FreeThresholdEnabled && subtotal.GreaterThanOrEqual(policy.FreeThresholdAmount) {
		return decimal.Zero
	}
	switch NormalizeMode(policy.Mode) {
	case models.ShippingFree:
		return decimal.Zero
	case models.ShippingFlat:
		return policy.FlatRate
	case models.ShippingCustom:
		return policy.CustomRate
	default:
		return decimal.Zero
	}
}

// NormalizeMode lowercases m and maps the legacy "standard" name onto flat.
func NormalizeMode(m models.ShippingMode) models.ShippingMode {
	switch s := models.ShippingMode(strings.ToLower(strings.TrimSpace(string(m)))); s {
	case "standard":
		return models.ShippingFlat
	default:
		return s
	}
}

// DefaultPolicy mirrors what a fresh deployment shows before an admin saves anything.
func DefaultPolicy() models.ShippingPolicy {
	return models.ShippingPolicy{
		Base:                 models.Base{ID: models.ShippingPolicyID},
		Mode:                 models.ShippingFlat,
		FlatRate:             decimal.NewFromInt(250),
		CustomRate:           decimal.Zero,
		FreeThresholdEnabled: true,
		FreeThresholdAmount:  decimal.NewFromInt(2000),
	}
}

// Validate normalises p in place and rejects unknown modes or negative amounts.
func Validate(p *models.ShippingPolicy) error {
	p.Mode = NormalizeMode(p.Mode)
	switch p.Mode {
	case models.ShippingFree, models.ShippingFlat, models.ShippingCustom:
	default:
		return apperr.New(apperr.Validation, "mode must be one of free, flat, custom")
	}
	for name, v := range map[string]decimal.Decimal{
		"flatRate":            p.FlatRate,
		"customRate":          p.CustomRate,
		"freeThresholdAmount": p.FreeThresholdAmount,
	} {
		if v.IsNegative() {
			return apperr.New(apperr.Validation, "%s must not be negative", name)
		}
	}
	return nil
}
