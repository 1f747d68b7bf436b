package main

import (
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/koyo-works/crm-backend/internal/auth"
	"github.com/koyo-works/crm-backend/internal/config"
	"github.com/koyo-works/crm-backend/internal/db"
	"github.com/koyo-works/crm-backend/internal/events"
	"github.com/koyo-works/crm-backend/internal/handlers"
	"github.com/koyo-works/crm-backend/pkg/logging"
	"github.com/koyo-works/crm-backend/pkg/metrics"
)

func main() {
	// Set Gin to release mode and disable default logging FIRST
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard
	gin.DefaultErrorWriter = io.Discard

	logger := logging.NewDefaultLogger("crm-backend")
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.LogStartupError("config", err)
		os.Exit(1)
	}

	pool, err := db.Connect(logger, cfg.DatabaseURL)
	if err != nil {
		logger.LogStartupError("database", err)
		os.Exit(1)
	}
	defer pool.Close()

	publisher := events.NewPublisher(cfg.KafkaBrokers, logger)
	defer publisher.Close()

	api := &handlers.API{
		Pool:    pool,
		Tokens:  auth.NewManager(cfg.JWTSecretKey, cfg.AccessTokenExpiry),
		Events:  publisher,
		Metrics: metrics.NewServiceMetrics("crm-backend"),
		Logger:  logger,
	}

	r := handlers.SetupRouter(api, cfg)

	logger.Info("Starting HTTP server on " + cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
		logger.LogStartupError("http_server", err)
		os.Exit(1)
	}
}
