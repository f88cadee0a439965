package handlers

import (
	"net/http"

	"foodies-api/cart"
	"foodies-api/middleware"

	"github.com/gin-gonic/gin"
)

// GetCart returns the caller's cart, empty when nothing was added yet.
func (h *Handler) GetCart(c *gin.Context) {
	ct, err := h.Carts.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ct)
}

// AddToCart sets a line to the absolute quantity in the body.
func (h *Handler) AddToCart(c *gin.Context) {
	var in cart.LineInput
	if !h.bind(c, &in) {
		return
	}
	ct, err := h.Carts.Add(c.Request.Context(), middleware.GetUserID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ct)
}

type AdjustCartRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// AdjustCartLine increments or decrements a line atomically.
func (h *Handler) AdjustCartLine(c *gin.Context) {
	var req AdjustCartRequest
	if !h.bind(c, &req) {
		return
	}
	ct, err := h.Carts.Adjust(c.Request.Context(), middleware.GetUserID(c), c.Param("foodId"), req.Delta)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ct)
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	ct, err := h.Carts.Remove(c.Request.Context(), middleware.GetUserID(c), c.Param("foodId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ct)
}

func (h *Handler) ClearCart(c *gin.Context) {
	ct, err := h.Carts.Clear(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ct)
}

func (h *Handler) CartSummary(c *gin.Context) {
	sum, err := h.Carts.Summary(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
