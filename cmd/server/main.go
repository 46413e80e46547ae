package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/internal/config"
	"github.com/oakhollow/staff-rota/pkg/auth"
	"github.com/oakhollow/staff-rota/pkg/handlers"
	"github.com/oakhollow/staff-rota/pkg/postgres"
	"github.com/oakhollow/staff-rota/pkg/utils/logging"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := logging.InitServerLogger()
	if err != nil {
		log.Fatalf("could not initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT secret is not configured; set jwtSecret or JWT_SECRET")
	}

	ctx := context.Background()

	logger.Info("Connecting to database")
	database, err := postgres.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	logger.Info("Running migrations")
	if err := database.RunMigrations(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	if err := auth.EnsureAdminExists(ctx, database, logger); err != nil {
		logger.Fatal("Failed to seed admin user", zap.Error(err))
	}

	h := &handlers.Handler{
		DB:     database,
		Auth:   auth.NewService(cfg.JWTSecret),
		Config: cfg,
		Logger: logger,
		Pinger: database,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	h.Routes(r)

	addr := cfg.ListenAddr
	if addr == "" {
		addr = ":8080"
	}

	logger.Info("Server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
