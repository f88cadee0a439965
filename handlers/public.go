package handlers

import (
	"net/http"

	"foodies-api/models"
	"foodies-api/statemachine"

	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

func nextStates(s models.OrderStatus) []models.OrderStatus {
	if nexts := statemachine.ValidTransitionsFrom(s); nexts != nil {
		return nexts
	}
	return []models.OrderStatus{}
}

// GetStateMachineInfo returns the order lifecycle for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"statuses":        models.AllStatuses,
		"terminal_states": []models.OrderStatus{models.StatusDelivered, models.StatusCancelled},
		"strict":          h.Orders.Strict(),
		"description":     "Food Order Lifecycle State Machine",
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Foodies Ordering API",
		"version": Version,
	})
}

func (h *Handler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Foodies Ordering API",
		"docs":    "/api/state-machine",
		"health":  "/health",
	})
}
