package main

import (
	"log"
	"os"
	"time"

	"arenahub/database"
	"arenahub/handlers"
	"arenahub/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	database.InitDB()
	db := database.GetDB()

	handlers.InitAuthHandlers(db)
	handlers.InitUserHandlers(db)
	handlers.InitTeamHandlers(db)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

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

	app.Use(middleware.FiberRateLimitMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.FiberAuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)

	// User routes
	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/me", handlers.GetProfileInfo)
	userGroup.Get("/search", handlers.SearchUsers)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AdminAuthMiddleware)
	adminGroup.Get("/users", handlers.GetAllUsers)

	// Team roster routes
	teamGroup := api.Group("/teams")
	teamGroup.Use(middleware.AuthMiddleware)
	teamGroup.Post("/", handlers.CreateTeam)
	teamGroup.Get("/", handlers.GetMyTeams)
	teamGroup.Post("/join", handlers.JoinTeam)
	teamGroup.Get("/:id", handlers.GetTeam)
	teamGroup.Put("/:id/image", handlers.UpdateTeamImage)
	teamGroup.Post("/:id/invite", handlers.InvitePlayer)
	teamGroup.Delete("/:id/members/:userId", handlers.RemoveMember)
	teamGroup.Post("/:id/exit", handlers.ExitTeam)

	// Notification routes
	notificationGroup := api.Group("/notifications")
	notificationGroup.Use(middleware.AuthMiddleware)
	notificationGroup.Get("/", handlers.GetNotifications)
	notificationGroup.Get("/unread-count", handlers.GetUnreadCount)
	notificationGroup.Post("/:id/accept", handlers.AcceptInvitation)
	notificationGroup.Post("/:id/reject", handlers.RejectInvitation)
	notificationGroup.Post("/:id/read", handlers.MarkRead)

	// Live notification push
	app.Get("/ws/notifications", handlers.NotificationsUpgrade, websocket.New(handlers.NotificationsSocket))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 arenahub listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func validateEnvironment() {
	if os.Getenv("JWT_SECRET") == "" {
		log.Println("Warning: JWT_SECRET not set, using insecure default")
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
