package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/pathwaygaza/pathway-back/internal/api"
	"github.com/pathwaygaza/pathway-back/internal/auth"
	"github.com/pathwaygaza/pathway-back/internal/config"
	"github.com/pathwaygaza/pathway-back/internal/cron"
	"github.com/pathwaygaza/pathway-back/internal/db"
	"github.com/pathwaygaza/pathway-back/internal/excel"
	"github.com/pathwaygaza/pathway-back/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	zlog, err := logger.New(cfg.Mode)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := db.Connect(cfg.DatabaseURL); err != nil {
		zlog.Fatalw("failed to connect database", "err", err)
	}

	if cfg.CurriculumSheet != "" {
		if err := excel.Import(context.Background(), cfg.CurriculumSheet, zlog); err != nil {
			zlog.Errorw("startup curriculum import failed", "err", err)
		}
	}

	auth.InitGoogle(cfg)

	r := api.SetupRouter(cfg, zlog)

	cron.StartJobs(cfg, zlog)

	zlog.Infow("server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		zlog.Fatalw("server stopped", "err", err)
	}
}
