package handlers

import (
	"net/http"
	"strings"

	"foodies-api/apperr"
	"foodies-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var foods = resource[models.Food]{
	what: "Food",
	one:  "food",
	many: "foods",
	validate: func(f *models.Food) error {
		if f.Price.IsNegative() {
			return apperr.New(apperr.Validation, "price must not be negative")
		}
		switch f.Status {
		case "", models.FoodAvailable, models.FoodOutOfStock:
			return nil
		}
		return apperr.New(apperr.Validation, "status must be %q or %q", models.FoodAvailable, models.FoodOutOfStock)
	},
}

var categories = resource[models.Category]{what: "Category", one: "category", many: "categories"}

// ListFoods returns the menu (public). Filters: ?category= exact, ?keyword= case-insensitive
// substring of the name.
func (h *Handler) ListFoods(c *gin.Context) {
	listRecords(h, c, foods, func(q *gorm.DB) *gorm.DB {
		if category := c.Query("category"); category != "" && category != "All" {
			q = q.Where("category = ?", category)
		}
		if keyword := strings.TrimSpace(c.Query("keyword")); keyword != "" {
			q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(keyword)+"%")
		}
		return q
	})
}

func (h *Handler) GetFood(c *gin.Context)    { getRecord(h, c, foods) }
func (h *Handler) CreateFood(c *gin.Context) { createRecord(h, c, foods) }
func (h *Handler) UpdateFood(c *gin.Context) { updateRecord(h, c, foods) }
func (h *Handler) DeleteFood(c *gin.Context) { deleteRecord(h, c, foods) }

func (h *Handler) ListCategories(c *gin.Context) {
	listRecords(h, c, categories, func(q *gorm.DB) *gorm.DB {
		return q.Order("name asc")
	})
}

// CreateCategory rejects a name that is already taken.
func (h *Handler) CreateCategory(c *gin.Context) {
	var cat models.Category
	if !h.bind(c, &cat) {
		return
	}
	cat.ID = ""
	cat.Name = strings.TrimSpace(cat.Name)

	db := h.DB.WithContext(c.Request.Context())
	var taken int64
	if err := db.Model(&models.Category{}).Where("LOWER(name) = ?", strings.ToLower(cat.Name)).Count(&taken).Error; err != nil {
		h.fail(c, err)
		return
	}
	if taken > 0 {
		h.fail(c, apperr.New(apperr.Conflict, "category %q already exists", cat.Name))
		return
	}
	if err := db.Create(&cat).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": cat})
}

func (h *Handler) UpdateCategory(c *gin.Context) { updateRecord(h, c, categories) }
func (h *Handler) DeleteCategory(c *gin.Context) { deleteRecord(h, c, categories) }
