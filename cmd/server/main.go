package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/roamly/roamly-backend/internal/cache"
	"github.com/roamly/roamly-backend/internal/config"
	"github.com/roamly/roamly-backend/internal/handlers"
	"github.com/roamly/roamly-backend/internal/middleware"
	"github.com/roamly/roamly-backend/internal/realtime"
	"github.com/roamly/roamly-backend/internal/repository"
	"github.com/roamly/roamly-backend/internal/service"
	"github.com/roamly/roamly-backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "Roamly Backend",
		// Support image uploads up to 8MB + overhead.
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	db, err := repository.InitDB(cfg.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// Redis is best-effort; the chat path works without it.
	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}
	chatCache := cache.NewChatCache(redisCache)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	blocklistRepo := repository.NewTokenBlocklistRepository(db)

	// Realtime hub: room directory + delivery fan-out, process-local.
	hub := realtime.NewHub()

	// Services
	authService := service.NewAuthService(userRepo, blocklistRepo, cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	userService := service.NewUserService(userRepo)
	communityService := service.NewCommunityService(communityRepo, userRepo)
	chatService := service.NewChatService(messageRepo, userRepo, communityRepo, chatCache, hub)

	// MinIO storage is best-effort; media endpoints return 503 if missing.
	var mediaStore *storage.S3Storage
	s3cfg := storage.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
	}
	if st, err := storage.NewS3Storage(s3cfg); err != nil {
		log.Printf("WARNING: Media storage not configured: %v", err)
	} else {
		mediaStore = st
		log.Printf("Media storage initialized successfully (bucket=%s)", s3cfg.Bucket)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	communityHandler := handlers.NewCommunityHandler(communityService)
	chatHandler := handlers.NewChatHandler(chatService, cfg.MaxMsgLength)
	communityChatHandler := handlers.NewCommunityChatHandler(chatService, cfg.MaxMsgLength)
	mediaHandler := handlers.NewMediaHandler(mediaStore, userService, communityService)
	wsHandler := handlers.NewWebSocketHandler(hub, chatService, communityService, cfg.MaxMsgLength)

	authRequired := middleware.AuthRequired(cfg.JWTSecret, blocklistRepo)

	// Public routes
	api := app.Group("/api")
	auth := api.Group("/", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Protected routes
	protected := api.Group("/", authRequired)
	protected.Post("/logout", authHandler.Logout)
	protected.Get("/profile", userHandler.GetProfile)
	protected.Put("/profile", userHandler.UpdateProfile)
	protected.Post("/profile/avatar", mediaHandler.UploadAvatar)
	protected.Get("/users/:id", userHandler.GetUser)

	protected.Post("/communities", communityHandler.CreateCommunity)
	protected.Get("/communities", communityHandler.ListCommunities)
	protected.Get("/communities/mine", communityHandler.GetMyCommunities)
	protected.Get("/communities/:id", communityHandler.GetCommunity)
	protected.Post("/communities/:id/join", communityHandler.JoinCommunity)
	protected.Post("/communities/:id/leave", communityHandler.LeaveCommunity)
	protected.Get("/communities/:id/members", communityHandler.GetMembers)
	protected.Post("/communities/:id/image", mediaHandler.UploadCommunityImage)

	protected.Post("/chat/send", chatHandler.SendMessage)
	protected.Get("/chat/history/:userId/:otherUserId", chatHandler.GetHistory)
	protected.Put("/chat/read/:userId/:otherUserId", chatHandler.MarkRead)
	protected.Get("/chat/unread/:userId", chatHandler.GetUnreadCount)
	protected.Delete("/chat/message/:messageId", chatHandler.DeleteMessage)

	protected.Post("/community-chat/send", communityChatHandler.SendMessage)
	protected.Get("/community-chat/history/:communityId", communityChatHandler.GetHistory)
	protected.Put("/community-chat/read/:communityId", communityChatHandler.MarkRead)
	protected.Get("/community-chat/unread/:communityId/:userId", communityChatHandler.GetUnreadCount)
	protected.Delete("/community-chat/message/:messageId", communityChatHandler.DeleteMessage)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use(
		"/ws",
		authRequired,
		func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Roamly is running",
		})
	})

	log.Printf("Server starting on port %s...", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
