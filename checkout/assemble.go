// Package checkout turns cart lines into a priced, immutable order.
package checkout

import (
	"strings"

	"foodies-api/apperr"
	"foodies-api/models"
	"foodies-api/shipping"

	"github.com/shopspring/decimal"
)

// Input is what a customer submits at checkout. Prices come from the lines as the
// client captured them at add-to-cart time; the catalog is never consulted.
type Input struct {
	Lines           []models.CartLine
	ShippingAddress models.Address
	PaymentMethod   string
}

// Assemble validates in and prices it under policy. The returned order has status
// Pending and no identity yet; persisting it is the caller's job.
func Assemble(ownerID string, in Input, policy *models.ShippingPolicy) (*models.Order, error) {
	if len(in.Lines) == 0 {
		return nil, apperr.New(apperr.EmptyCart, "no order items")
	}
	addr := models.Address{
		Street: strings.TrimSpace(in.ShippingAddress.Street),
		City:   strings.TrimSpace(in.ShippingAddress.City),
		Phone:  strings.TrimSpace(in.ShippingAddress.Phone),
	}
	if addr.Street == "" || addr.City == "" || addr.Phone == "" {
		return nil, apperr.New(apperr.Validation, "shipping address requires street, city and phone")
	}

	lines := make([]models.OrderLine, 0, len(in.Lines))
	subtotal := decimal.Zero
	for i, l := range in.Lines {
		if strings.TrimSpace(l.FoodID) == "" {
			return nil, apperr.New(apperr.Validation, "line %d: food id is required", i)
		}
		if l.Quantity <= 0 {
			return nil, apperr.New(apperr.Validation, "line %d: quantity must be positive", i)
		}
		if l.UnitPrice.IsNegative() {
			return nil, apperr.New(apperr.Validation, "line %d: unit price must not be negative", i)
		}
		ol := models.OrderLine{
			FoodID:    l.FoodID,
			Name:      l.Name,
			Image:     l.Image,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Position:  i,
		}
		subtotal = subtotal.Add(ol.LineTotal())
		lines = append(lines, ol)
	}

	fee := shipping.ComputeFee(policy, subtotal)

	payment := strings.TrimSpace(in.PaymentMethod)
	if payment == "" {
		payment = models.DefaultPaymentMethod
	}

	return &models.Order{
		OwnerID:         ownerID,
		Lines:           lines,
		ShippingAddress: addr,
		PaymentMethod:   payment,
		Subtotal:        subtotal,
		ShippingFee:     fee,
		TotalPrice:      subtotal.Add(fee),
		Status:          models.StatusPending,
	}, nil
}
