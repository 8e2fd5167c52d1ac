// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"time"

	"tavara/internal/config"
	"tavara/internal/jobs"
	"tavara/internal/repositories"
	"tavara/internal/routes"
	"tavara/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Initializes database connection
// - Sets up dependency injection
// - Configures routes
// - Starts the license sweeper and the HTTP server
func main() {
	config.LoadEnv()

	// Initialize databases (PostgreSQL + Redis)
	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✅ Successfully connected to database")

	// Clear the status cache on startup; trust records may have moved while
	// the server was down.
	if repositories.CacheService != nil {
		if err := repositories.CacheService.FlushAll(context.Background()); err != nil {
			log.Printf("⚠️ Failed to flush Redis cache: %v", err)
		} else {
			log.Println("✅ Redis cache flushed on startup")
		}
	}

	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("⚠️ Failed to close database connection: %v", err)
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	// Document storage is optional in local development.
	var documents storage.DocumentStore
	if bucket := config.GetEnv("S3_BUCKET", ""); bucket != "" {
		store, err := storage.NewS3Store(context.Background(), storage.S3Config{
			Bucket: bucket,
			Region: config.GetEnv("AWS_REGION", "ap-southeast-1"),
		})
		if err != nil {
			log.Fatalf("Failed to initialize document storage: %v", err)
		}
		documents = store
	} else {
		log.Println("⚠️ S3_BUCKET not set, document uploads disabled")
	}

	// Nightly license-status sweep
	sweeper := jobs.NewLicenseSweeper(
		routes.VerificationService(repositories.DB),
		config.GetEnv("LICENSE_SWEEP_CRON", ""),
	)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("Failed to start license sweeper: %v", err)
	}
	defer sweeper.Stop()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	for _, path := range []string{"/api/register", "/api/login"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(429).JSON(fiber.Map{
					"error": "Too many requests. Please try again later.",
				})
			},
		}))
	}

	routes.SetupRoutes(app, repositories.DB, routes.Deps{Documents: documents})

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
