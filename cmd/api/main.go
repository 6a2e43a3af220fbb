package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"edututor/internal/adapter/llm"
	"edututor/internal/cache"
	"edututor/internal/config"
	"edututor/internal/domain"
	"edututor/internal/handler"
	"edututor/internal/logger"
	"edututor/internal/middleware"
	"edututor/internal/repository"
	"edututor/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Load the model once; nothing is served without it
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Model.Timeout+30*time.Second)
	model, err := llm.NewLoader(cfg.Model).Load(loadCtx)
	cancelLoad()
	if err != nil {
		appLogger.Fatal("Failed to load language model",
			zap.String("backend", cfg.Model.Backend),
			zap.String("model", cfg.Model.Name),
			zap.Error(err),
		)
	}
	appLogger.Info("Language model loaded",
		zap.String("backend", cfg.Model.Backend),
		zap.String("model", model.ModelName()),
		zap.String("device", model.Device()),
	)

	// Initialize Redis cache (optional)
	var (
		redisCache domain.Cache
		quizCache  *service.QuizCache
	)
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		redisCache = cache.NewRedisCache(redisClient)
		quizCache = service.NewQuizCache(redisCache, cfg.Cache.QuizTTL)
		appLogger.Info("Quiz cache enabled", zap.String("address", cfg.Redis.Address), zap.Duration("ttl", cfg.Cache.QuizTTL))
	} else {
		appLogger.Warn("Redis cache is not configured. Running without cache.")
	}

	// Initialize services
	quizService := service.NewQuizService(model, cfg.Generation, quizCache)
	attemptService := service.NewAttemptService(repository.NewMemoryAttemptRepository())

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	handler.SetupRoutes(app, handler.Handlers{
		Quiz:      handler.NewQuizHandler(quizService, cfg.Server.RequestTimeout),
		Attempts:  handler.NewAttemptHandler(attemptService),
		Educator:  handler.NewEducatorHandler(attemptService),
		ModelName: model.ModelName(),
		Cache:     redisCache,
	})

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
