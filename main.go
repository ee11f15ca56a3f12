package main

import (
	"log"
	"os"
	"time"

	"capboard/database"
	"capboard/handlers"
	"capboard/handlers/admin"
	"capboard/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	database.InitDB()
	handlers.InitHandlers()

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB, enough for import workbooks
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Use(middleware.RateLimitMiddleware())

	// Serve the dashboard assets
	app.Static("/", "./static")

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/check", handlers.CheckEmail)

	// Team routes (export/import before :id so the router matches them)
	teamGroup := api.Group("/teams")
	teamGroup.Use(middleware.AuthMiddleware)
	teamGroup.Get("/export", handlers.ExportTeams)
	teamGroup.Post("/import", middleware.AdminAuthMiddleware, handlers.ImportTeams)
	teamGroup.Get("/", handlers.GetTeams)
	teamGroup.Post("/", handlers.CreateTeam)
	teamGroup.Get("/:id", handlers.GetTeam)
	teamGroup.Put("/:id", handlers.UpdateTeam)
	teamGroup.Delete("/:id", handlers.DeleteTeam)
	teamGroup.Post("/:id/points", handlers.AdjustPoints)
	teamGroup.Get("/:id/reasons", handlers.GetTeamReasons)

	// Reason catalog routes; mutations are admin-only
	reasonGroup := api.Group("/reasons")
	reasonGroup.Use(middleware.AuthMiddleware)
	reasonGroup.Get("/export", handlers.ExportReasons)
	reasonGroup.Post("/import", middleware.AdminAuthMiddleware, handlers.ImportReasons)
	reasonGroup.Get("/", handlers.GetReasons)
	reasonGroup.Post("/", middleware.AdminAuthMiddleware, handlers.CreateReason)
	reasonGroup.Put("/:id", middleware.AdminAuthMiddleware, handlers.UpdateReason)
	reasonGroup.Delete("/:id", middleware.AdminAuthMiddleware, handlers.DeleteReason)

	// Report routes
	reportGroup := api.Group("/reports")
	reportGroup.Use(middleware.AuthMiddleware)
	reportGroup.Get("/summary", handlers.GetSummary)
	reportGroup.Get("/momentum", handlers.GetMomentum)
	reportGroup.Get("/crossings", handlers.GetCrossings)
	reportGroup.Get("/trend", handlers.GetTrend)
	reportGroup.Get("/levels", handlers.GetLevels)
	reportGroup.Get("/breakdown", handlers.GetBreakdown)
	reportGroup.Get("/activity", handlers.GetActivity)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AdminAuthMiddleware)
	adminGroup.Get("/users", admin.GetUsers)
	adminGroup.Delete("/users/:id", admin.DeleteUser)
	adminGroup.Post("/users/:id/promote", admin.PromoteUser)

	// Live refresh channel for open dashboards
	app.Use("/ws", handlers.LiveUpgrade)
	app.Get("/ws/leaderboard", handlers.LiveLeaderboard())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	if os.Getenv("APP_ENV") == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
