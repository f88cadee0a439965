package handlers

import (
	"errors"
	"net/http"
	"strings"

	"foodies-api/middleware"
	"foodies-api/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	Address  *models.Address `json:"address"`
	Password string          `json:"password" binding:"omitempty,min=6"`
}

func userView(u *models.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}

func (h *Handler) respondWithToken(c *gin.Context, status int, message string, user *models.User) {
	token, err := middleware.GenerateToken(user, h.JWTSecret)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(status, gin.H{
		"message": message,
		"token":   token,
		"user":    userView(user),
	})
}

// Register creates a new customer account. Administrators are made with the CLI.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.bind(c, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User
	err := h.DB.WithContext(c.Request.Context()).Where("email = ?", email).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.fail(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.fail(c, err)
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Phone:        req.Phone,
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		h.fail(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, "Account created successfully", &user)
}

// Login authenticates a user and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bind(c, &req) {
		return
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.DB.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	h.respondWithToken(c, http.StatusOK, "Login successful", &user)
}

// GetProfile returns the authenticated user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	var user models.User
	if err := h.DB.WithContext(c.Request.Context()).First(&user, "id = ?", middleware.GetUserID(c)).Error; err != nil {
		h.fail(c, dbError(err, "user"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile changes name, phone, saved address or password.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !h.bind(c, &req) {
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var user models.User
	if err := db.First(&user, "id = ?", middleware.GetUserID(c)).Error; err != nil {
		h.fail(c, dbError(err, "user"))
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.fail(c, err)
			return
		}
		user.PasswordHash = string(hash)
	}
	if err := db.Save(&user).Error; err != nil {
		h.fail(c, err)
		return
	}

	// name may have changed, so the token is reissued
	h.respondWithToken(c, http.StatusOK, "Profile updated", &user)
}
