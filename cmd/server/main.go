package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/fitness-routines/internal/ai"
	"alcyxob/fitness-routines/internal/api"
	"alcyxob/fitness-routines/internal/cache"
	"alcyxob/fitness-routines/internal/config"
	"alcyxob/fitness-routines/internal/logging"
	"alcyxob/fitness-routines/internal/metrics"
	"alcyxob/fitness-routines/internal/repository/mongo"
	"alcyxob/fitness-routines/internal/service"
	"alcyxob/fitness-routines/internal/storage"
	"alcyxob/fitness-routines/internal/videosearch"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// @title Fitness Routines API
// @version 1.0
// @description Routines, days, exercises, videos, progress log and AI generation.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %s", err)
	}

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Info("starting fitness routines server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %s", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("disconnect MongoDB: %s", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	go func() {
		indexCtx, cancelIndex := context.WithTimeout(ctx, time.Minute)
		defer cancelIndex()
		if err := mongo.EnsureIndexes(indexCtx, appDB); err != nil {
			log.Errorf("ensure indexes: %s", err)
			return
		}
		log.Debug("database indexes ensured")
	}()
	repos := mongo.NewRepositories(appDB)

	// --- Metrics ---
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsManager := metrics.NewManager("fitness", "server", promRegistry)

	// --- Optional Integrations ---
	// Interfaces stay nil when a feature is not configured.
	var objectStorage service.ObjectStorage
	if cfg.S3.Enabled() {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			log.Fatalf("initialize S3 storage: %s", err)
		}
		objectStorage = s3Storage
	} else {
		log.Warn("s3.bucket_name not set, video uploads disabled")
	}

	var searcher service.VideoSearcher
	if cfg.YouTube.APIKey != "" {
		youtube, err := videosearch.NewYouTubeSearcher(ctx, cfg.YouTube.APIKey, cfg.YouTube.Endpoint, cfg.YouTube.MaxResults)
		if err != nil {
			log.Fatalf("initialize video search: %s", err)
		}
		searcher = youtube
	} else {
		log.Warn("youtube.api_key not set, video search disabled")
	}

	var generator service.Generator
	var chatCache service.ChatCache
	if cfg.AI.APIKey != "" {
		client := ai.NewClient(ai.Config{
			APIKey:      cfg.AI.APIKey,
			BaseURL:     cfg.AI.BaseURL,
			Model:       cfg.AI.Model,
			MaxTokens:   cfg.AI.MaxTokens,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
		}, ai.WithRetryMaxAttempts(cfg.AI.MaxAttempts))
		generator = ai.NewGenerator(client)
		chatCache = cache.NewChatCache(cfg.Cache.ChatSizeMB, cfg.Cache.ChatTTL)
	} else {
		log.Warn("ai.api_key not set, AI generation disabled")
	}

	var rateLimiter api.RequestRateLimiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Errorf("failed to ping redis: %s", err)
		}
		rateLimiter = redis_rate.NewLimiter(rdb)
	} else {
		log.Warn("redis.addr not set, AI rate limiting disabled")
	}

	// --- Initialize Services ---
	resolver := repos.Resolver()
	services := api.Services{
		Auth:       service.NewAuthService(repos.Users, service.LogMailer{}, cfg.Mail.ResetURL, cfg.JWT.Secret, cfg.JWT.Expiration),
		Routines:   service.NewRoutineService(repos.Routines, repos.Days, repos.Exercises, repos.Videos, resolver, objectStorage),
		Exercises:  service.NewExerciseService(repos.Days, repos.Exercises, repos.Videos, repos.Progress, resolver, searcher, objectStorage),
		Progress:   service.NewProgressService(repos.Progress),
		Generation: service.NewGenerationService(generator, repos.Exercises, chatCache, metricsManager),
	}

	// --- Initialize Gin Engine ---
	if !log.IsLevelEnabled(log.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	api.SetupRoutes(router, services, api.RouterOptions{
		CookieSecure:   cfg.Server.CookieSecure,
		Metrics:        metricsManager,
		MetricsHandler: promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
		RateLimiter:    rateLimiter,
		AIPerMinute:    cfg.RateLimit.AIPerMinute,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute, // AI generation is slow
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %s", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}
	log.Info("server exiting")
}
