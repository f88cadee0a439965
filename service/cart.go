package service

import (
	"context"

	"foodies-api/apperr"
	"foodies-api/cart"
	"foodies-api/models"
	"foodies-api/shipping"
	"foodies-api/store"

	"github.com/shopspring/decimal"
)

type CartService struct {
	carts    store.CartStore
	shipping *ShippingService
}

func NewCartService(carts store.CartStore, shipping *ShippingService) *CartService {
	return &CartService{carts: carts, shipping: shipping}
}

// Get returns the owner's cart, or an empty one when they never added anything.
func (s *CartService) Get(ctx context.Context, ownerID string) (*models.Cart, error) {
	c, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &models.Cart{OwnerID: ownerID, Lines: []models.CartLine{}}, nil
	}
	return c, nil
}

// Add applies an absolute-quantity line and saves the whole cart.
func (s *CartService) Add(ctx context.Context, ownerID string, in cart.LineInput) (*models.Cart, error) {
	ctx, span := tracer.Start(ctx, "CartService.Add")
	defer span.End()

	current, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	next, err := cart.Reconcile(current, ownerID, in)
	if err != nil {
		return nil, err
	}
	return s.carts.SaveCart(ctx, next)
}

func (s *CartService) Remove(ctx context.Context, ownerID, foodID string) (*models.Cart, error) {
	current, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	next, err := cart.RemoveLine(current, foodID)
	if err != nil {
		return nil, err
	}
	return s.carts.SaveCart(ctx, next)
}

// Adjust adds delta to an existing line in one atomic store operation.
func (s *CartService) Adjust(ctx context.Context, ownerID, foodID string, delta int) (*models.Cart, error) {
	if foodID == "" {
		return nil, apperr.New(apperr.Validation, "food id is required")
	}
	if delta == 0 {
		return nil, apperr.New(apperr.Validation, "delta must not be zero")
	}
	return s.carts.AdjustQuantity(ctx, ownerID, foodID, delta)
}

// Clear empties the cart. The cart itself is kept.
func (s *CartService) Clear(ctx context.Context, ownerID string) (*models.Cart, error) {
	return s.carts.SaveCart(ctx, &models.Cart{OwnerID: ownerID})
}

type CartSummary struct {
	Cart        *models.Cart    `json:"cart"`
	ItemCount   int             `json:"itemCount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Total       decimal.Decimal `json:"total"`
}

// Summary prices the cart under the current shipping policy. Nothing is persisted.
func (s *CartService) Summary(ctx context.Context, ownerID string) (*CartSummary, error) {
	c, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	policy, err := s.shipping.Policy(ctx)
	if err != nil {
		return nil, err
	}
	subtotal := cart.Subtotal(c.Lines)
	fee := decimal.Zero
	if len(c.Lines) > 0 {
		fee = shipping.ComputeFee(policy, subtotal)
	}
	return &CartSummary{
		Cart:        c,
		ItemCount:   c.TotalQuantity(),
		Subtotal:    subtotal,
		ShippingFee: fee,
		Total:       subtotal.Add(fee),
	}, nil
}

func (s *CartService) load(ctx context.Context, ownerID string) (*models.Cart, error) {
	c, err := s.carts.GetCart(ctx, ownerID)
	if apperr.Is(err, apperr.NotFound) {
		return nil, nil
	}
	return c, err
}
