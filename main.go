package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"creator-rewards-system/handlers"
	"creator-rewards-system/models"
	"creator-rewards-system/services"
	"creator-rewards-system/utils"
	"creator-rewards-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Admin-Token",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Participant{},
		&models.Channel{},
		&models.Video{},
		&models.VideoEligibility{},
		&models.RobloxMetric{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// R2 is only needed for leaderboard exports; leave it off when unset.
	if os.Getenv("CLOUDFLARE_ACCOUNT_ID") != "" {
		if err := utils.InitR2(); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
	} else {
		log.Println("⚠️  CLOUDFLARE_ACCOUNT_ID not set, CSV exports will be served inline")
	}

	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
	} else {
		log.Println("⚠️  REDIS_ADDR not set, CCU cache falls back to the metrics table")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eligibilityService := services.NewEligibilityService(db)
	robuxService := services.NewRobuxService(db)
	discordClient := services.NewDiscordClient(os.Getenv("DISCORD_BOT_TOKEN"), os.Getenv("DISCORD_SERVER_ID"))
	participantService := services.NewParticipantService(db, eligibilityService, robuxService, discordClient)
	leaderboardService := services.NewLeaderboardService(db)
	adminService := services.NewAdminService(db, eligibilityService)
	robloxService := services.NewRobloxService(db, rdb, os.Getenv("ROBLOX_PLACE_ID"))

	// --- Platform fetchers: explicit dependency injection, no globals ---
	fetchers := map[models.Platform]workers.VideoFetcher{}
	if apiKey := os.Getenv("YOUTUBE_API_KEY"); apiKey != "" {
		youtubeClient, err := services.NewYouTubeClient(ctx, apiKey)
		if err != nil {
			log.Fatal("failed to initialize YouTube client:", err)
		}
		fetchers[models.PlatformYouTube] = youtubeClient
	} else {
		log.Println("⚠️  YOUTUBE_API_KEY not set, YouTube channels will not sync")
	}
	if apiKey := os.Getenv("TIKTOK_API_KEY"); apiKey != "" {
		fetchers[models.PlatformTikTok] = services.NewTikTokClient(apiKey, os.Getenv("TIKTOK_API_HOST"))
	} else {
		log.Println("⚠️  TIKTOK_API_KEY not set, TikTok channels will not sync")
	}

	syncInterval := time.Hour
	if raw := os.Getenv("SYNC_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal("invalid SYNC_INTERVAL:", err)
		}
		syncInterval = parsed
	}

	syncWorker := workers.NewVideoSyncWorker(db, eligibilityService, fetchers, syncInterval)
	syncWorker.Start()
	defer syncWorker.Stop()

	if robloxService.PlaceID != "" {
		go workers.PollCCU(ctx, robloxService, 60*time.Second)
	} else {
		log.Println("⚠️  ROBLOX_PLACE_ID not set, CCU polling disabled")
	}

	handlers.SetupParticipantRoutes(app, participantService)
	handlers.SetupStatsRoutes(app, leaderboardService, robuxService, robloxService)
	handlers.SetupAdminRoutes(app, adminService, leaderboardService)
	handlers.SetupCronRoutes(app, syncWorker, robloxService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Video sync worker running (every %s)", syncInterval)
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
