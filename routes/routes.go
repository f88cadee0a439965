package routes

import (
	"foodies-api/handlers"
	"foodies-api/middleware"
	"foodies-api/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the engine with recovery, request logging, CORS and every route.
func NewRouter(h *handlers.Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.CORS())
	SetupRoutes(r, h)
	return r
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	authRequired := middleware.AuthRequired(h.JWTSecret)
	adminOnly := middleware.RoleRequired(models.RoleAdmin)

	r.GET("/", h.Welcome)
	r.GET("/health", h.Health)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)

		public.GET("/foods", h.ListFoods)
		public.GET("/foods/:id", h.GetFood)
		public.GET("/categories", h.ListCategories)
		public.GET("/banners", h.ListBanners)
		public.GET("/blogs", h.ListBlogs)
		public.GET("/blogs/:id", h.GetBlog)
		public.GET("/reviews", h.ListReviews)

		// admins also see inactive deals
		public.GET("/deals", middleware.OptionalAuth(h.JWTSecret), h.ListDeals)

		public.GET("/shipping", h.GetShipping)
		public.GET("/shipping/quote", h.QuoteShipping)
		public.GET("/track/:ref", h.TrackOrder)

		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(authRequired)
	{
		auth.GET("/users/profile", h.GetProfile)
		auth.PUT("/users/profile", h.UpdateProfile)

		auth.GET("/cart", h.GetCart)
		auth.POST("/cart", h.AddToCart)
		auth.DELETE("/cart", h.ClearCart)
		auth.GET("/cart/summary", h.CartSummary)
		auth.PATCH("/cart/:foodId", h.AdjustCartLine)
		auth.DELETE("/cart/:foodId", h.RemoveFromCart)

		auth.POST("/orders", h.PlaceOrder)
		auth.GET("/orders", h.GetMyOrders)
		auth.GET("/orders/:id", h.GetOrderDetail)
		auth.PUT("/orders/:id/cancel", h.CancelOrder)

		auth.POST("/reviews", h.CreateReview)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api")
	admin.Use(authRequired, adminOnly)
	{
		admin.POST("/foods", h.CreateFood)
		admin.PUT("/foods/:id", h.UpdateFood)
		admin.DELETE("/foods/:id", h.DeleteFood)

		admin.POST("/categories", h.CreateCategory)
		admin.PUT("/categories/:id", h.UpdateCategory)
		admin.DELETE("/categories/:id", h.DeleteCategory)

		admin.POST("/deals", h.CreateDeal)
		admin.PUT("/deals/:id", h.UpdateDeal)
		admin.DELETE("/deals/:id", h.DeleteDeal)

		admin.POST("/banners", h.CreateBanner)
		admin.PUT("/banners/:id", h.UpdateBanner)
		admin.DELETE("/banners/:id", h.DeleteBanner)

		admin.POST("/blogs", h.CreateBlog)
		admin.PUT("/blogs/:id", h.UpdateBlog)
		admin.DELETE("/blogs/:id", h.DeleteBlog)

		admin.DELETE("/reviews/:id", h.DeleteReview)

		admin.PUT("/shipping", h.UpdateShipping)

		admin.GET("/admin/stats", h.AdminStats)
		admin.GET("/admin/orders", h.AdminGetAllOrders)
		admin.PUT("/admin/orders/:id/status", h.AdminUpdateOrderStatus)
		admin.GET("/admin/users", h.AdminGetAllUsers)
		admin.PUT("/admin/users/:id/role", h.AdminUpdateUserRole)
		admin.DELETE("/admin/users/:id", h.AdminDeleteUser)
	}
}
