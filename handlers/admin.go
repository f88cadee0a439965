package handlers

import (
	"net/http"

	"foodies-api/apperr"
	"foodies-api/middleware"
	"foodies-api/models"

	"github.com/gin-gonic/gin"
)

// AdminStats feeds the dashboard: order figures plus user and menu counts.
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.Orders.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var userCount, foodCount int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&userCount).Error; err != nil {
		h.fail(c, err)
		return
	}
	if err := db.Model(&models.Food{}).Count(&foodCount).Error; err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalOrders":   stats.TotalOrders,
		"totalRevenue":  stats.TotalRevenue,
		"totalUsers":    userCount,
		"totalFoods":    foodCount,
		"statusSummary": stats.StatusSummary,
		"recentOrders":  stats.RecentOrders,
	})
}

// AdminGetAllOrders returns all orders, newest first, optionally ?status= filtered.
func (h *Handler) AdminGetAllOrders(c *gin.Context) {
	orders, err := h.Orders.ListAll(c.Request.Context(), models.OrderStatus(c.Query("status")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// AdminUpdateOrderStatus moves an order to a new status and records who did it.
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if !h.bind(c, &req) {
		return
	}
	order, err := h.Orders.UpdateStatus(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req.Status, req.Note)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":           "Order status updated to " + string(order.Status),
		"order":             order,
		"valid_next_states": nextStates(order.Status),
	})
}

// AdminGetAllUsers returns all users, optionally ?role= filtered.
func (h *Handler) AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := h.DB.WithContext(c.Request.Context()).Order("created_at desc")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Find(&users).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

type UpdateRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required,oneof=user admin"`
}

func (h *Handler) AdminUpdateUserRole(c *gin.Context) {
	var req UpdateRoleRequest
	if !h.bind(c, &req) {
		return
	}
	id := c.Param("id")
	if id == middleware.GetUserID(c) && req.Role != models.RoleAdmin {
		h.fail(c, apperr.New(apperr.Conflict, "you cannot remove your own admin role"))
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		h.fail(c, dbError(err, "User"))
		return
	}
	if err := db.Model(&user).Update("role", req.Role).Error; err != nil {
		h.fail(c, err)
		return
	}
	user.Role = req.Role
	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "user": user})
}

func (h *Handler) AdminDeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == middleware.GetUserID(c) {
		h.fail(c, apperr.New(apperr.Conflict, "you cannot delete your own account"))
		return
	}
	res := h.DB.WithContext(c.Request.Context()).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		h.fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		h.fail(c, apperr.New(apperr.NotFound, "User not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
