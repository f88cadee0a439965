package handlers

import (
	"net/http"

	"foodies-api/apperr"
	"foodies-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ShippingRequest struct {
	Mode                 models.ShippingMode `json:"mode" binding:"required"`
	FlatRate             decimal.Decimal     `json:"flatRate"`
	CustomRate           decimal.Decimal     `json:"customRate"`
	FreeThresholdEnabled bool                `json:"freeThresholdEnabled"`
	FreeThresholdAmount  decimal.Decimal     `json:"freeThresholdAmount"`
}

// GetShipping returns the active policy (public; the checkout page shows it).
func (h *Handler) GetShipping(c *gin.Context) {
	p, err := h.Shipping.Policy(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateShipping replaces the singleton policy (admin).
func (h *Handler) UpdateShipping(c *gin.Context) {
	var req ShippingRequest
	if !h.bind(c, &req) {
		return
	}
	p, err := h.Shipping.Update(c.Request.Context(), &models.ShippingPolicy{
		Mode:                 req.Mode,
		FlatRate:             req.FlatRate,
		CustomRate:           req.CustomRate,
		FreeThresholdEnabled: req.FreeThresholdEnabled,
		FreeThresholdAmount:  req.FreeThresholdAmount,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// QuoteShipping prices ?subtotal= under the current policy.
func (h *Handler) QuoteShipping(c *gin.Context) {
	subtotal, err := decimal.NewFromString(c.Query("subtotal"))
	if err != nil {
		h.fail(c, apperr.New(apperr.Validation, "subtotal must be a decimal number"))
		return
	}
	q, err := h.Shipping.Quote(c.Request.Context(), subtotal)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}
