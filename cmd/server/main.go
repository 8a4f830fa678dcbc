package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/motoparts-backend/config"
	"github.com/ikkim/motoparts-backend/internal/app/controller"
	"github.com/ikkim/motoparts-backend/internal/app/repository"
	"github.com/ikkim/motoparts-backend/internal/app/service"
	"github.com/ikkim/motoparts-backend/internal/db"
	"github.com/ikkim/motoparts-backend/internal/messaging"
	"github.com/ikkim/motoparts-backend/internal/middleware"
	"github.com/ikkim/motoparts-backend/internal/mq"
	"github.com/ikkim/motoparts-backend/internal/router"
	"github.com/ikkim/motoparts-backend/internal/storage"
	"github.com/ikkim/motoparts-backend/pkg/logger"
	"github.com/ikkim/motoparts-backend/pkg/redis"
	"github.com/ikkim/motoparts-backend/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting Motoparts Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	healthChecks := map[string]router.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.GetDB().DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	// Outbound messaging: email over RabbitMQ, notifications over Redis pub/sub
	emailBackend := newEmailBackend(cfg)
	notificationBackend := newNotificationBackend(cfg)
	if redis.GetClient() != nil {
		healthChecks["redis"] = redis.Ping
	}

	emailDispatcher := messaging.NewDispatcher(emailBackend, cfg.Messaging.EmailQueue, cfg.Messaging.PublishTimeout)
	notificationDispatcher := messaging.NewDispatcher(notificationBackend, cfg.Messaging.NotificationChannel, cfg.Messaging.PublishTimeout)
	defer func() {
		for name, d := range map[string]*messaging.Dispatcher{
			"email":        emailDispatcher,
			"notification": notificationDispatcher,
		} {
			if err := d.Close(); err != nil {
				logger.Error("Failed to close dispatcher", err, map[string]interface{}{
					"dispatcher": name,
				})
			}
		}
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	jwtManager := util.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, messaging.NewNotifier(notificationDispatcher))
	passwordResetService := service.NewPasswordResetService(userRepo, messaging.NewMailer(emailDispatcher), cfg.Reset.LinkBaseURL)
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo)

	s3Storage := storage.NewS3Storage(context.Background(), cfg.S3)

	// Initialize controllers
	authController := controller.NewAuthController(authService, passwordResetService)
	userController := controller.NewUserController(userService)
	productController := controller.NewProductController(productService)
	uploadController := controller.NewUploadController(s3Storage)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, authService)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Setup router
	r := router.NewRouter(
		authController,
		userController,
		productController,
		uploadController,
		authMiddleware,
		registry,
		healthChecks,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}

func newEmailBackend(cfg *config.Config) mq.Backend {
	if cfg.RabbitMQ.URL == "" {
		logger.Warn("RABBITMQ_URL not set, emails will be logged and discarded")
		return mq.NewLogBackend("email")
	}

	client, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ, emails will be logged and discarded", err)
		return mq.NewLogBackend("email")
	}

	logger.Info("RabbitMQ connection established", map[string]interface{}{
		"queue": cfg.Messaging.EmailQueue,
	})
	return client
}

func newNotificationBackend(cfg *config.Config) mq.Backend {
	if cfg.Redis.Host == "" {
		logger.Warn("REDIS_HOST not set, notifications will be logged and discarded")
		return mq.NewLogBackend("notification")
	}

	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Error("Redis unavailable, notifications will be logged and discarded", err)
		return mq.NewLogBackend("notification")
	}

	client, err := mq.NewRedisClient(redis.GetClient())
	if err != nil {
		logger.Error("Failed to create Redis publisher", err)
		return mq.NewLogBackend("notification")
	}
	return client
}
