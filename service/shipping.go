package service

import (
	"context"

	"foodies-api/apperr"
	"foodies-api/models"
	"foodies-api/shipping"
	"foodies-api/store"

	"github.com/shopspring/decimal"
)

type ShippingService struct {
	store store.ShippingStore
}

func NewShippingService(s store.ShippingStore) *ShippingService {
	return &ShippingService{store: s}
}

// Policy returns the saved policy, or the deployment defaults when none was saved yet.
func (s *ShippingService) Policy(ctx context.Context) (*models.ShippingPolicy, error) {
	p, err := s.store.GetShippingPolicy(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		def := shipping.DefaultPolicy()
		return &def, nil
	}
	return p, nil
}

// Update validates and stores the singleton policy. Last writer wins.
func (s *ShippingService) Update(ctx context.Context, p *models.ShippingPolicy) (*models.ShippingPolicy, error) {
	if err := shipping.Validate(p); err != nil {
		return nil, err
	}
	return s.store.UpsertShippingPolicy(ctx, p)
}

type Quote struct {
	Mode        models.ShippingMode `json:"mode"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	ShippingFee decimal.Decimal     `json:"shippingFee"`
	Total       decimal.Decimal     `json:"total"`
}

func (s *ShippingService) Quote(ctx context.Context, subtotal decimal.Decimal) (*Quote, error) {
	if subtotal.IsNegative() {
		return nil, apperr.New(apperr.Validation, "subtotal must not be negative")
	}
	p, err := s.Policy(ctx)
	if err != nil {
		return nil, err
	}
	fee := shipping.ComputeFee(p, subtotal)
	return &Quote{
		Mode:        shipping.NormalizeMode(p.Mode),
		Subtotal:    subtotal,
		ShippingFee: fee,
		Total:       subtotal.Add(fee),
	}, nil
}
