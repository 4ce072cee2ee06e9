package main

import (
	"engolo_backend/internal/app"
	"engolo_backend/internal/config"
	"engolo_backend/pkg/logger"
	"flag"
	"log"

	"go.uber.org/zap"
)

// @title Engolo API
// @version 1.0
// @description Backend for the Engolo language-learning app: exercise catalog,
// @description quiz sets, progress and statistics collections, dictionary
// @description proxy and class chat.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	migrate := flag.Bool("migrate", false, "run database migrations before serving")
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	cfg.ForceMigrate = *migrate
	cfg.MigrateOnly = *migrateOnly

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	a, err := app.NewApp(cfg)
	if err != nil {
		logger.Log.Fatal("startup failed", zap.Error(err))
	}

	if cfg.MigrateOnly {
		logger.Log.Info("migrations complete, exiting")
		return
	}

	if err := a.Run(); err != nil {
		logger.Log.Fatal("shutdown failed", zap.Error(err))
	}
}
