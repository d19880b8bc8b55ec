package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sokohub/backend/internal/cache"
	"github.com/sokohub/backend/internal/config"
	"github.com/sokohub/backend/internal/database"
	"github.com/sokohub/backend/internal/jobs"
	"github.com/sokohub/backend/internal/queue"
	"github.com/sokohub/backend/internal/routes"
	"github.com/sokohub/backend/internal/services/earnings"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := config.LoadConfig()

	// Setup database connection and run migrations
	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize job queue
	jobQueue, err := queue.NewQueue(db)
	if err != nil {
		log.Fatalf("Failed to initialize job queue: %v", err)
	}

	earningsService := earnings.NewService(db, cfg.Ads.CommissionPercent)
	jobs.RegisterAllJobHandlers(jobQueue, earningsService)
	jobQueue.StartProcessing()

	// Redis-buffered ad impression counters, flushed by the scheduler
	counters := cache.NewCounters(cfg.Redis)
	if _, err := jobs.StartScheduler(db, counters); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Initialize router
	router := gin.Default()

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	routes.RegisterRoutes(router, db, jobQueue, counters, cfg)

	fmt.Printf("SokoHub API server running on port %s\n", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
