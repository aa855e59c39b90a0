package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/seansissman/streak-club/internal/clock"
	"github.com/seansissman/streak-club/internal/handlers"
	"github.com/seansissman/streak-club/internal/middleware"
	"github.com/seansissman/streak-club/internal/models"
	"github.com/seansissman/streak-club/internal/repository"
	"github.com/seansissman/streak-club/internal/service"
	"github.com/seansissman/streak-club/internal/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	app := fiber.New(fiber.Config{
		AppName: "Streak Club Backend",
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Postgres holds accounts; all challenge state lives in Redis.
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisStore := store.NewRedisStore(redisAddr, redisPassword, redisDB)
	if err := redisStore.Ping(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	log.Println("Redis connected successfully")

	// Stores
	stateStore := store.NewStateStore(redisStore)
	configStore := store.NewConfigStore(redisStore)
	statsStore := store.NewStatsStore(redisStore)
	membershipStore := store.NewMembershipStore(redisStore)
	leaderboardStore := store.NewLeaderboardStore(redisStore)
	devSettingsStore := store.NewDevSettingsStore(redisStore)
	rateLimitStore := store.NewRateLimitStore(redisStore)
	viewCache := store.NewLeaderboardViewCache(redisStore)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Services
	communityClock := clock.New(devSettingsStore)
	authService := service.NewAuthService(userRepo, refreshTokenRepo)
	challengeService := service.NewChallengeService(
		communityClock,
		stateStore,
		configStore,
		statsStore,
		membershipStore,
		leaderboardStore,
		devSettingsStore,
		rateLimitStore,
		viewCache,
		userRepo,
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	adminHandler := handlers.NewAdminHandler(challengeService)

	// Public routes
	api := app.Group("/api")
	auth := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)

	api.Get("/challenge/:community/leaderboard", challengeHandler.Leaderboard)
	api.Get("/challenge/:community/stats", challengeHandler.Stats)
	api.Get("/challenge/:community/config", challengeHandler.GetConfig)

	// Participant routes
	protected := api.Group("/", middleware.AuthRequired())
	protected.Post("/challenge/:community/join", challengeHandler.Join)
	protected.Post("/challenge/:community/checkin", challengeHandler.CheckIn)
	protected.Get("/challenge/:community/me", challengeHandler.Me)
	protected.Put("/challenge/:community/privacy", challengeHandler.SetPrivacy)

	// Moderator routes
	admin := protected.Group("/", middleware.RequireRole(models.RoleModerator))
	admin.Put("/challenge/:community/config", adminHandler.SetConfig)
	admin.Post("/challenge/:community/reset", adminHandler.Reset)
	admin.Post("/challenge/:community/stats/repair", adminHandler.RepairStats)
	admin.Put("/challenge/:community/devclock", adminHandler.SetDevClock)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Streak Club is running",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
