package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wrx61527/PapuGO/config"
	"github.com/wrx61527/PapuGO/controllers"
	"github.com/wrx61527/PapuGO/middleware"
	"github.com/wrx61527/PapuGO/services"
)

func main() {
	log.Println("Starting PapuGO API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg)

	// Connect to database
	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := config.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Connect to Redis, which backs the session carts
	if err := config.ConnectRedis(cfg.RedisURL); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	// Initialize S3-backed image storage
	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitImageService(s3Service)

	// Initialize domain services
	catalog := services.InitCatalogService()
	cartStore := services.NewRedisCartStore(config.GetRedis())
	services.InitCartService(cartStore, catalog, logger)
	services.InitCheckoutService(cartStore, logger)
	services.InitOrderService()

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Public catalog
		v1.GET("/restaurants", controllers.ListRestaurants)
		v1.GET("/restaurants/search", controllers.SearchRestaurants)
		v1.GET("/restaurants/:id", controllers.GetRestaurant)

		// Auth
		v1.POST("/auth/register", controllers.Register)
		v1.POST("/auth/login", controllers.Login)

		// Cart and orders, authenticated
		authed := v1.Group("", middleware.RequireAuth())
		{
			authed.GET("/cart", controllers.ViewCart)
			authed.POST("/cart/items/:dishId", controllers.AddToCart)
			authed.DELETE("/cart/items/:dishId", controllers.RemoveFromCart)
			authed.POST("/orders", controllers.Checkout)
			authed.GET("/orders", controllers.ListOrders)
			authed.GET("/orders/:id", controllers.GetOrder)
		}

		// Admin
		admin := v1.Group("/admin", middleware.RequireAuth(), middleware.RequireAdmin())
		{
			admin.POST("/restaurants", controllers.CreateRestaurant)
			admin.PUT("/restaurants/:id", controllers.UpdateRestaurant)
			admin.DELETE("/restaurants/:id", controllers.DeleteRestaurant)
			admin.POST("/restaurants/:id/dishes", controllers.CreateDish)
			admin.PUT("/dishes/:id", controllers.UpdateDish)
			admin.DELETE("/dishes/:id", controllers.DeleteDish)
			admin.GET("/users", controllers.ListUsers)
			admin.GET("/orders", controllers.ListAllOrders)
			admin.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
		}
	}

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "PapuGO API is running",
	})
}
