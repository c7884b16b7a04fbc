package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dukkan-shop/dukkan-backend/config"
	"github.com/dukkan-shop/dukkan-backend/internal/app/controller"
	"github.com/dukkan-shop/dukkan-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	categoryController     *controller.CategoryController
	productController      *controller.ProductController
	brandController        *controller.BrandController
	uploadController       *controller.UploadController
	formController         *controller.FormController
	dashboardController    *controller.DashboardController
	notificationController *controller.NotificationController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	categoryController *controller.CategoryController,
	productController *controller.ProductController,
	brandController *controller.BrandController,
	uploadController *controller.UploadController,
	formController *controller.FormController,
	dashboardController *controller.DashboardController,
	notificationController *controller.NotificationController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		categoryController:     categoryController,
		productController:      productController,
		brandController:        brandController,
		uploadController:       uploadController,
		formController:         formController,
		dashboardController:    dashboardController,
		notificationController: notificationController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "DUKKAN API is running",
		})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		// storefront reads are public
		categories := api.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.GET("/:id", r.categoryController.GetCategory)

			categories.POST("/add",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.categoryController.CreateCategory,
			)
			categories.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.categoryController.UpdateCategory,
			)
			categories.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.categoryController.DeleteCategory,
			)
		}

		products := api.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/featured", r.productController.ListFeatured)
			products.GET("/trends", r.productController.ListTrends)
			products.GET("/:id", r.productController.GetProduct)

			admin := products.Group("")
			admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
			{
				admin.POST("/add", r.productController.CreateProduct)
				admin.PUT("/update/:id", r.productController.UpdateProduct)
				admin.DELETE("/:id", r.productController.DeleteProduct)
				admin.PUT("/toggle-featured/:id", r.productController.ToggleFeatured)
				admin.PUT("/toggle-trend/:id", r.productController.ToggleTrend)
				admin.POST("/trends/add", r.productController.AddTrends)
				admin.GET("/export", r.productController.ExportProducts)
			}
		}

		brands := api.Group("/brands")
		{
			brands.GET("", r.brandController.ListBrands)

			brands.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.brandController.CreateBrand,
			)
			brands.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.brandController.DeleteBrand,
			)
		}

		media := api.Group("/media")
		media.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			media.POST("/upload", r.uploadController.UploadMedia)
		}

		forms := api.Group("/forms/product")
		forms.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			forms.POST("", r.formController.CreateSession)
			forms.GET("/:sid", r.formController.GetSession)
			forms.DELETE("/:sid", r.formController.DeleteSession)
			forms.PATCH("/:sid/fields", r.formController.SetFields)
			forms.POST("/:sid/category", r.formController.SelectCategory)
			forms.POST("/:sid/next", r.formController.Next)
			forms.POST("/:sid/previous", r.formController.Previous)
			forms.POST("/:sid/reset", r.formController.Reset)
			forms.POST("/:sid/submit", r.formController.Submit)
			forms.POST("/:sid/media", r.formController.AttachMedia)
			forms.DELETE("/:sid/media/:assetId", r.formController.RemoveMedia)
			forms.POST("/:sid/media/upload", r.formController.UploadMedia)
		}

		dashboard := api.Group("/dashboard")
		dashboard.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			dashboard.GET("/summary", r.dashboardController.GetSummary)
			dashboard.GET("/stock-alerts", r.dashboardController.ListStockAlerts)
			dashboard.PATCH("/stock-alerts/:id/acknowledge", r.dashboardController.AcknowledgeStockAlert)
		}

		ws := api.Group("/ws")
		ws.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			ws.GET("/notifications", r.notificationController.Subscribe)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
