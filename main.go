package main

import (
	"despacho-api/config"
	"despacho-api/db"
	"despacho-api/logger"
	"despacho-api/ratelimit"
	"despacho-api/rest"
	"despacho-api/sheets"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.Log, cfg.IsDevelopment())
	defer logger.Sync()

	if err := db.Connect(); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Connected to database successfully")

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	version, err := db.GetCurrentVersion()
	if err != nil {
		logger.Warn("Failed to get current schema version", zap.Error(err))
	} else {
		logger.Info("Database schema ready", zap.Int("version", version))
	}

	app := fiber.New(fiber.Config{
		AppName:      "despacho-api",
		BodyLimit:    cfg.BodyLimitBytes(),
		ErrorHandler: rest.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(rest.RequestLogger())
	app.Use(rest.MetricsMiddleware())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.ReplaceAll(cfg.AllowedOrigins, " ", ""),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	if cfg.RateLimitEnabled {
		store, closeStore, err := ratelimit.NewStore(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Failed to create rate limiter store", zap.Error(err))
		}
		defer closeStore()

		limiter, err := ratelimit.New(ratelimit.Config{
			Rate:      cfg.RateLimit,
			SkipPaths: []string{"/health", "/metrics", "/api/"},
		}, store)
		if err != nil {
			logger.Fatal("Failed to create rate limiter", zap.Error(err))
		}
		app.Use(limiter.Handler())
	}

	rest.SetupMetrics(app)
	rest.Init(app, rest.Options{
		Debug:          cfg.Debug,
		Sheets:         sheets.NewClient(cfg.Sheets),
		RequestTimeout: cfg.RequestTimeout,
	})

	go func() {
		addr := ":" + cfg.Port
		logger.Info("Starting server", zap.String("addr", addr), zap.String("environment", cfg.Environment))
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server exited")
}
