package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"songbook-backend-go/internal/api"
	"songbook-backend-go/internal/billing"
	"songbook-backend-go/internal/cache"
	"songbook-backend-go/internal/config"
	"songbook-backend-go/internal/core"
	"songbook-backend-go/internal/db"
	"songbook-backend-go/internal/mailer"
	"songbook-backend-go/internal/messagequeue"
	"songbook-backend-go/internal/middleware"
)

func main() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// A missing .env is fine in deployed environments; config comes from
	// the process environment there.
	if err := godotenv.Load(); err != nil {
		zapLogger.Debug("no .env file loaded", zap.Error(err))
	}

	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("failed to load configuration", zap.Error(err))
	}
	zapLogger.Info("configuration loaded")

	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()

	clients, err := db.NewFirebaseClients(initCtx, appConfig)
	if err != nil {
		zapLogger.Fatal("failed to initialize Firebase clients", zap.Error(err))
	}
	defer clients.Close()
	zapLogger.Info("Firebase clients initialized", zap.String("projectId", appConfig.FirebaseProjectID))

	userRepo := db.NewFirestoreUserRepository(clients.Firestore)
	playlistRepo := db.NewFirestorePlaylistRepository(clients.Firestore)
	songRepo := db.NewFirestoreSongRepository(clients.Firestore)

	gateway := billing.NewStripeGateway(appConfig.StripeSecretKey, appConfig.StripeWebhookSecret)

	// Optional integrations: each one is skipped when unconfigured and the
	// services degrade gracefully without them.
	var cacheClient cache.Cache
	if appConfig.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(initCtx, cache.RedisConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			zapLogger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		cacheClient = redisCache
		zapLogger.Info("Redis cache enabled", zap.String("addr", appConfig.RedisAddr))
	}

	var publisher messagequeue.Publisher
	if appConfig.RabbitMQURL != "" {
		mq, err := messagequeue.NewRabbitMQPublisher(appConfig.RabbitMQURL)
		if err != nil {
			zapLogger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer mq.Close()
		publisher = mq
		zapLogger.Info("RabbitMQ publisher enabled")
	}

	var mail mailer.Mailer
	if appConfig.SMTPHost != "" {
		smtpMailer, err := mailer.NewSMTPMailer(
			appConfig.SMTPHost, appConfig.SMTPPort,
			appConfig.SMTPUsername, appConfig.SMTPPassword,
			appConfig.EmailFrom,
		)
		if err != nil {
			zapLogger.Fatal("invalid SMTP configuration", zap.Error(err))
		}
		mail = smtpMailer
		zapLogger.Info("SMTP mailer enabled", zap.String("host", appConfig.SMTPHost))
	}

	userService := core.NewUserService(userRepo)
	billingService := core.NewBillingService(userRepo, gateway, cacheClient, publisher, zapLogger, core.BillingConfig{
		AppBaseURL:     appConfig.AppBaseURL,
		DefaultPriceID: appConfig.StripePriceID,
	})
	authService := core.NewAuthService(clients.Auth, mail, zapLogger, appConfig.AppBaseURL)
	playlistService := core.NewPlaylistService(playlistRepo, zapLogger)
	songService := core.NewSongService(songRepo, cacheClient, zapLogger)
	zapLogger.Info("core services initialized")

	if strings.ToLower(appConfig.GinMode) == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig.ClientURL))
		zapLogger.Info("CORS enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS skipped: CLIENT_URL is not configured")
	}

	api.SetupRoutes(
		router,
		zapLogger,
		clients.Auth,
		userService,
		billingService,
		authService,
		playlistService,
		songService,
	)

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("address", serverAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zapLogger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("forced shutdown", zap.Error(err))
	}
	zapLogger.Info("server exited")
}
