package main

import (
	"log"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crankslist/config"
	"crankslist/handlers"
	"crankslist/internal/approval"
	"crankslist/internal/geo"
	"crankslist/internal/notify"
	"crankslist/internal/ws"
	"crankslist/middleware"
	"crankslist/models"
	"crankslist/utils"
)

func main() {
	cfg := config.LoadConfig()

	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	config.SeedAdmin(db)

	if err := middleware.InitRedis(cfg.RedisURL); err != nil {
		log.Printf("Warning: rate limiting disabled: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Crankslist API",
		ServerHeader: "Crankslist Server/1.0",
		BodyLimit:    6 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Default 500 statuscode
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			// Retrieve the custom statuscode if it's a *fiber.Error
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": msg,
			})
		},
	})

	middleware.SetupMiddleware(app, cfg)

	hub := ws.NewHub()
	go hub.Run()

	approvalStore := approval.NewStore(db)
	notifier := notify.NewFromEnv()

	authHandler := handlers.NewAuthHandler(db, approvalStore, notifier)
	bikeHandler := handlers.NewBikeHandler(db, approvalStore, notifier)
	bikeTypeHandler := handlers.NewBikeTypeHandler(db)
	messageHandler := handlers.NewMessageHandler(db, hub)
	profileHandler := handlers.NewProfileHandler(db, approvalStore)
	adminHandler := handlers.NewAdminHandler(db, approvalStore)
	uploadHandler := handlers.NewUploadHandler("./uploads/bikes")
	geoHandler := handlers.NewGeoHandler(geo.NewClient())
	inboxWS := handlers.NewInboxWSHandler(db, hub)

	// Health Check Endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(models.SuccessResponse("API is healthy", nil))
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Static("/uploads", "./uploads")

	api := app.Group("/api")

	// Public routes
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/bikes", bikeHandler.GetAllBikes)
	api.Get("/bikes/:id", bikeHandler.GetBike)
	api.Get("/bike-types", bikeTypeHandler.GetBikeTypes)
	api.Get("/geo/reverse", geoHandler.ReverseLookup)
	api.Post("/contact-seller", middleware.RateLimitMiddleware(10), messageHandler.ContactSeller)

	// Authenticated routes
	api.Post("/auth/password", utils.AuthMiddleware, authHandler.ChangePassword)
	api.Get("/my-bikes", utils.AuthMiddleware, bikeHandler.GetMyBikes)
	api.Post("/bikes", utils.AuthMiddleware, bikeHandler.CreateBike)
	api.Patch("/bikes/:id/sold", utils.AuthMiddleware, bikeHandler.SetSold)
	api.Get("/bikes/:id/contact", utils.AuthMiddleware, bikeHandler.RevealContact)
	api.Get("/messages", utils.AuthMiddleware, messageHandler.GetMessages)
	api.Patch("/messages/:id/read", utils.AuthMiddleware, messageHandler.MarkRead)
	api.Get("/messages/unread-count", utils.AuthMiddleware, messageHandler.UnreadCount)
	api.Get("/profile", utils.AuthMiddleware, profileHandler.GetProfile)
	api.Put("/profile", utils.AuthMiddleware, profileHandler.UpdateProfile)
	api.Post("/upload", utils.AuthMiddleware, uploadHandler.UploadImage)

	// Admin routes
	admin := api.Group("/admin", utils.AuthMiddleware, adminHandler.RequireAdmin)
	admin.Get("/users", adminHandler.GetUsers)
	admin.Post("/users/:id/approve", adminHandler.ApproveUser)
	admin.Post("/users/:id/reject", adminHandler.RejectUser)

	// Live unread-count subscription
	app.Use("/ws/inbox", inboxWS.UpgradeMiddleware)
	app.Get("/ws/inbox", inboxWS.Handler())

	middleware.SetupErrorHandler(app)

	log.Printf("🚀 Server starting on host %s in port %s mode", cfg.Host, cfg.AppPort)

	if err := app.Listen(cfg.Host + ":" + cfg.AppPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
