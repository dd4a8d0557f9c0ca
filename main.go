package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/acroscarlos/suite-erp-api/config"
	"github.com/acroscarlos/suite-erp-api/controllers"
	"github.com/acroscarlos/suite-erp-api/middleware"
	"github.com/acroscarlos/suite-erp-api/models"
	"github.com/acroscarlos/suite-erp-api/rabbitmq"
	"github.com/acroscarlos/suite-erp-api/services"
)

func main() {
	log.Println("Starting Suite ERP API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Employee{},
		&models.Client{},
		&models.Order{},
		&models.OrderItem{},
		&models.InventoryRecord{},
		&models.InventorySnapshot{},
		&models.CommissionEntry{},
		&models.MonthlyPrize{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	services.InitAuditLogger(db)

	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitPODService(s3Service)
		log.Println("Proof-of-delivery storage initialized")
	} else {
		log.Println("AWS_S3_BUCKET not set, proof-of-delivery storage disabled")
	}

	if cfg.RabbitMQURL != "" {
		broker, err := rabbitmq.NewRabbitMQ(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer broker.Close()
		services.SetEventPublisher(broker)
		log.Println("Order event publishing initialized")
	} else {
		log.Println("RABBITMQ_URL not set, order events disabled")
	}

	scheduler := services.NewScheduler(db, cfg.ArchiveAfterDays)
	scheduler.Start()
	defer scheduler.Stop()

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter wires middleware and routes onto a fresh engine
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}))
	router.Use(middleware.PrometheusMiddleware())

	router.GET("/health", healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.EnsureValidToken(cfg))
	v1.Use(middleware.ResolveActor())
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", controllers.CreateOrder)
			orders.GET("", controllers.GetOrderHistory)
			orders.GET("/kanban", controllers.GetKanban)
			orders.GET("/:id", controllers.GetOrder)
			orders.PATCH("/:id/status", controllers.TransitionOrder)
			orders.POST("/:id/pod", controllers.UploadPOD)
			orders.GET("/:id/pod", controllers.GetPODURL)
		}

		clients := v1.Group("/clients")
		{
			clients.GET("/search", controllers.SearchClients)
			clients.GET("/:id", controllers.GetClientProfile)
			clients.PUT("/:id", controllers.UpdateClient)
			clients.DELETE("/:id", controllers.DeleteClient)
		}

		commissions := v1.Group("/commissions")
		{
			commissions.GET("/dashboard", controllers.GetDashboard)
			commissions.GET("/wallet", controllers.GetWallet)
			commissions.GET("/leaderboard", controllers.GetLeaderboard)
			commissions.POST("/freeze", controllers.FreezeLedger)
			commissions.POST("/prizes", controllers.AssignPrize)
		}

		maintenance := v1.Group("/maintenance")
		{
			maintenance.POST("/snapshot", controllers.RunInventorySnapshot)
			maintenance.POST("/archive", controllers.RunArchiveSweep)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Suite ERP API is running",
	})
}
