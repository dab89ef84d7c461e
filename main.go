package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"campus-tour-system/handlers"
	"campus-tour-system/middleware"
	"campus-tour-system/models"
	"campus-tour-system/services"
	"campus-tour-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	// All traffic must come through the Gateway — no exceptions.
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOriginsList, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey, which the services key their conflict
	// handling on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Activity{},
		&models.ActivityCompletion{},
		&models.Reward{},
		&models.CrosswordPuzzle{},
		&models.PuzzleWord{},
		&models.UserPuzzleProgress{},
		&models.TourUser{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	clientOrigin := os.Getenv("CLIENT_ORIGIN")
	if clientOrigin == "" {
		clientOrigin = allowedOriginsList[0]
		log.Printf("CLIENT_ORIGIN not set, QR payloads will use %s", clientOrigin)
	}

	rewardService := services.NewRewardService(db, clientOrigin)
	activityService := services.NewActivityService(db)
	crosswordService := services.NewCrosswordService(db)

	var authClient *services.AuthServiceClient
	if authServiceURL := os.Getenv("AUTH_SERVICE_URL"); authServiceURL != "" {
		authClient = services.NewAuthServiceClient(authServiceURL, os.Getenv("TOUR_SERVICE_TOKEN"))
	} else {
		log.Println("AUTH_SERVICE_URL not set — reward status SSE stream disabled, clients fall back to polling")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if syncServiceURL := os.Getenv("SYNC_SERVICE_URL"); syncServiceURL != "" {
		syncWorker := workers.NewTourUserSyncWorker(db, syncServiceURL, "/api/v1/public/profiles", os.Getenv("TOUR_SERVICE_TOKEN"))
		syncWorker.Start(ctx)
	} else {
		log.Println("SYNC_SERVICE_URL not set — tour user snapshots will not be synced")
	}

	services.StartPublishScheduler(db)

	handlers.SetupRewardRoutes(app, rewardService, activityService, authClient)
	handlers.SetupCrosswordRoutes(app, crosswordService)
	handlers.SetupActivityRoutes(app, activityService)

	go func() {
		if err := app.Listen(":5100"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("Server running on http://localhost:5100")
	log.Println("Publish scheduler running (every 1m)")
	log.Println("GatewayAuthMiddleware enforced globally")

	<-ctx.Done()
	log.Println("Shutting down server...")
}
