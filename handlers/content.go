package handlers

import (
	"math"
	"net/http"

	"foodies-api/apperr"
	"foodies-api/middleware"
	"foodies-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	deals = resource[models.Deal]{
		what: "Deal",
		one:  "deal",
		many: "deals",
		validate: func(d *models.Deal) error {
			if d.DealPrice.IsNegative() || d.OriginalPrice.IsNegative() {
				return apperr.New(apperr.Validation, "prices must not be negative")
			}
			return nil
		},
	}
	banners = resource[models.Banner]{what: "Banner", one: "banner", many: "banners"}
	blogs   = resource[models.Blog]{what: "Blog", one: "blog", many: "blogs"}
)

// ListDeals shows every deal to admins and only the active ones to everyone else.
func (h *Handler) ListDeals(c *gin.Context) {
	listRecords(h, c, deals, func(q *gorm.DB) *gorm.DB {
		if middleware.IsAdmin(c) {
			return q
		}
		return q.Where("active = ?", true)
	})
}

func (h *Handler) CreateDeal(c *gin.Context) { createRecord(h, c, deals) }
func (h *Handler) UpdateDeal(c *gin.Context) { updateRecord(h, c, deals) }
func (h *Handler) DeleteDeal(c *gin.Context) { deleteRecord(h, c, deals) }

func (h *Handler) ListBanners(c *gin.Context)  { listRecords(h, c, banners, nil) }
func (h *Handler) CreateBanner(c *gin.Context) { createRecord(h, c, banners) }
func (h *Handler) UpdateBanner(c *gin.Context) { updateRecord(h, c, banners) }
func (h *Handler) DeleteBanner(c *gin.Context) { deleteRecord(h, c, banners) }

func (h *Handler) ListBlogs(c *gin.Context)  { listRecords(h, c, blogs, nil) }
func (h *Handler) GetBlog(c *gin.Context)    { getRecord(h, c, blogs) }
func (h *Handler) CreateBlog(c *gin.Context) { createRecord(h, c, blogs) }
func (h *Handler) UpdateBlog(c *gin.Context) { updateRecord(h, c, blogs) }
func (h *Handler) DeleteBlog(c *gin.Context) { deleteRecord(h, c, blogs) }

// ── Reviews ──────────────────────────────────────────────────────────────────

var reviews = resource[models.Review]{what: "Review", one: "review", many: "reviews"}

type CreateReviewRequest struct {
	FoodID  string `json:"foodId" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

// ListReviews returns reviews, optionally for one ?foodId=.
func (h *Handler) ListReviews(c *gin.Context) {
	listRecords(h, c, reviews, func(q *gorm.DB) *gorm.DB {
		if foodID := c.Query("foodId"); foodID != "" {
			q = q.Where("food_id = ?", foodID)
		}
		return q
	})
}

// CreateReview records a review by the caller and refreshes the food's rating.
func (h *Handler) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if !h.bind(c, &req) {
		return
	}
	cust := middleware.Customer(c)

	var review models.Review
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var food models.Food
		if err := tx.First(&food, "id = ?", req.FoodID).Error; err != nil {
			return dbError(err, "Food")
		}
		review = models.Review{
			UserID:   cust.ID,
			UserName: cust.Name,
			FoodID:   food.ID,
			FoodName: food.Name,
			Rating:   req.Rating,
			Comment:  req.Comment,
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return refreshRating(tx, food.ID)
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review added", "review": review})
}

// DeleteReview removes a review (admin) and refreshes the food's rating.
func (h *Handler) DeleteReview(c *gin.Context) {
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, "id = ?", c.Param("id")).Error; err != nil {
			return dbError(err, "Review")
		}
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return refreshRating(tx, review.FoodID)
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

func refreshRating(tx *gorm.DB, foodID string) error {
	var agg struct {
		Avg float64
		N   int64
	}
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS n").
		Where("food_id = ?", foodID).
		Scan(&agg).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.Food{}).Where("id = ?", foodID).Updates(map[string]any{
		"rating":      math.Round(agg.Avg*10) / 10,
		"num_reviews": agg.N,
	}).Error
}
