// server/cmd/api/main.go
package main

import (
	"context"
	"log"

	"agrifield-api-server/config"
	"agrifield-api-server/internal/api/routes"
	"agrifield-api-server/internal/auth"
	"agrifield-api-server/internal/database"
	"agrifield-api-server/internal/s3"
	"agrifield-api-server/internal/socket"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load .env (optional) and configuration
	_ = godotenv.Load()
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	// 2. Structured logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Could not create logger: %v", err)
	}
	defer logger.Sync()

	// 3. JWT secret and token lifetime
	if err := auth.Init(cfg.JWT); err != nil {
		log.Fatalf("Could not initialize auth: %v", err)
	}

	// 4. MongoDB connection and index bootstrap (unique email, TTL purge)
	db, err := database.Connect(cfg.Mongo)
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %v", err)
	}
	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatalf("Could not create indexes: %v", err)
	}

	// 5. Optional demo account
	if cfg.Server.SeedDemo {
		if err := database.SeedDemoUser(db); err != nil {
			log.Fatalf("Could not seed demo user: %v", err)
		}
	}

	// 6. S3 uploader for field photos
	s3Uploader, err := s3.NewUploader(cfg.S3)
	if err != nil {
		log.Fatalf("Could not create S3 uploader: %v", err)
	}

	// 7. Websocket hub for dashboard push events
	wsHub := socket.NewHub(logger)

	// 8. Router
	router := routes.SetupRouter(cfg, db, s3Uploader, wsHub, logger)

	// 9. Start server
	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
