package handlers

import (
	"net/http"

	"foodies-api/middleware"
	"foodies-api/models"
	"foodies-api/service"

	"github.com/gin-gonic/gin"
)

// PlaceOrder prices the submitted lines and creates the order.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req service.PlaceOrderInput
	if !h.bind(c, &req) {
		return
	}
	order, err := h.Orders.Place(c.Request.Context(), middleware.Customer(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetMyOrders returns all orders for the logged-in customer
func (h *Handler) GetMyOrders(c *gin.Context) {
	orders, err := h.Orders.ListMine(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns one order with its status history.
func (h *Handler) GetOrderDetail(c *gin.Context) {
	order, err := h.Orders.Get(c.Request.Context(), middleware.Customer(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order":             order,
		"valid_next_states": nextStates(order.Status),
	})
}

// CancelOrder allows the customer to cancel while the order is still Pending.
func (h *Handler) CancelOrder(c *gin.Context) {
	order, err := h.Orders.Cancel(c.Request.Context(), middleware.Customer(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled", "order": order})
}

type trackingStep struct {
	Status models.OrderStatus `json:"status"`
	At     any                `json:"at"`
}

// TrackOrder is public: it answers by tracking reference and leaves out the address
// and line prices.
func (h *Handler) TrackOrder(c *gin.Context) {
	order, err := h.Orders.Track(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.fail(c, err)
		return
	}

	steps := make([]trackingStep, 0, len(order.StatusHistory))
	for _, s := range order.StatusHistory {
		steps = append(steps, trackingStep{Status: s.ToStatus, At: s.CreatedAt})
	}
	items := 0
	for _, l := range order.Lines {
		items += l.Quantity
	}
	c.JSON(http.StatusOK, gin.H{
		"trackingRef": order.TrackingRef,
		"status":      order.Status,
		"placedAt":    order.CreatedAt,
		"deliveredAt": order.DeliveredAt,
		"itemCount":   items,
		"timeline":    steps,
	})
}
