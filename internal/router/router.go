// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cacho-medina/luxbuy-back/internal/config"
	"github.com/cacho-medina/luxbuy-back/internal/handlers"
	"github.com/cacho-medina/luxbuy-back/internal/middleware"
	"github.com/cacho-medina/luxbuy-back/internal/services"
	"github.com/cacho-medina/luxbuy-back/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	notificationService := services.NewNotificationService(cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	excelService := services.NewExcelService()

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db, notificationService)
	categoryService := services.NewCategoryService(db, excelService)
	productService := services.NewProductService(db, excelService, storageService, categoryService)
	imageService := services.NewImageService(db, storageService)
	orderService := services.NewOrderService(db, notificationService)
	reportService := services.NewReportService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(productService)
	imageHandler := handlers.NewImageHandler(imageService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.POST("", userHandler.CreateUser)

			protected := users.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.GET("/:id", userHandler.GetUser)

				admin := protected.Group("")
				admin.Use(middleware.AdminRequired())
				{
					admin.GET("", userHandler.GetUsers)
					admin.GET("/active", userHandler.GetActiveUsers)
					admin.PATCH("/:id", userHandler.UpdateUser)
					admin.POST("/:id/reset-password", userHandler.ResetPasswordUser)
					admin.DELETE("/:id", userHandler.DeleteUser)
					admin.DELETE("/:id/permanent", userHandler.RemoveUser)
				}
			}
		}

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.GET("", middleware.OptionalAuth(), categoryHandler.GetCategories)
			categories.GET("/:id", middleware.OptionalAuth(), categoryHandler.GetCategory)

			admin := categories.Group("")
			admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
			{
				admin.POST("", categoryHandler.CreateCategory)
				admin.POST("/upload", middleware.UploadRateLimit(), categoryHandler.UploadCategories)
				admin.PATCH("/restore/:id", categoryHandler.RestoreCategory)
				admin.PATCH("/:id", categoryHandler.UpdateCategory)
				admin.DELETE("/:id", categoryHandler.DeleteCategory)
			}
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.GetProducts)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)

			admin := products.Group("")
			admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
			{
				admin.POST("", middleware.UploadRateLimit(), productHandler.CreateProduct)
				admin.POST("/upload", middleware.UploadRateLimit(), productHandler.UploadProducts)
				admin.PATCH("/restore/:id", productHandler.RestoreProduct)
				admin.PATCH("/:id", productHandler.UpdateProduct)
				admin.DELETE("/:id", productHandler.DeleteProduct)
			}
		}

		// Image routes
		images := v1.Group("/images")
		images.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			images.GET("", imageHandler.GetImages)
			images.GET("/:id", imageHandler.GetImage)
			images.GET("/:id/url", imageHandler.GetImageDownloadURL)
			images.POST("/product/:id", middleware.UploadRateLimit(), imageHandler.UploadImage)
			images.DELETE("/:id", imageHandler.DeleteImage)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", middleware.AdminRequired(), orderHandler.GetOrders)
			orders.GET("/:id", orderHandler.GetOrder)
		}

		// Report routes
		reports := v1.Group("/reports")
		reports.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			reports.GET("/products/most-bought", reportHandler.MostBoughtProducts)
			reports.GET("/purchases/by-month", reportHandler.PurchasesByMonth)
		}
	}

	return r, nil
}
