package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shenikar/crisis_dispatch_system/internal/bus"
	"github.com/shenikar/crisis_dispatch_system/internal/config"
	"github.com/shenikar/crisis_dispatch_system/internal/dispatch"
	v1 "github.com/shenikar/crisis_dispatch_system/internal/handler/http/v1"
	"github.com/shenikar/crisis_dispatch_system/internal/service"
	"github.com/shenikar/crisis_dispatch_system/internal/store"
	"github.com/shenikar/crisis_dispatch_system/internal/webhook"
	"github.com/shenikar/crisis_dispatch_system/pkg/logger"
	redisclient "github.com/shenikar/crisis_dispatch_system/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/crisis_dispatch_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Crisis Dispatch System API
// @version 1.0
// @description Emergency incident intake, threat scoring, geospatial risk zones and realtime dispatch broadcasting.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Хранилище состояния и шина событий
	incidentStore := store.New()
	eventBus := bus.New(cfg.SubscriberBuffer, log)

	// Выбор стратегии подбора единицы реагирования
	resolver := dispatch.NewResolver(cfg, log)

	// Зеркалирование событий в Redis для доставки вебхуков (опционально)
	if cfg.RedisAddr != "" {
		redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Info("Successfully connected to Redis")

		webhookPublisher := webhook.NewRedisPublisher(redisClient)
		webhook.StartMirror(ctx, eventBus, webhookPublisher, log)

		if cfg.WebhookURL != "" {
			webhookWorker := webhook.NewWorker(redisClient, log, cfg)
			webhookWorker.Start(ctx)
		}
	}

	// Инициализация сервисов
	incidentService := service.NewIncidentService(incidentStore, resolver, eventBus, log, cfg)

	// Инициализация хэндлеров
	handler := v1.NewHandler(incidentService, eventBus, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Дожидаемся завершения фоновых подборов, чтобы не потерять назначения
	incidentService.Wait()

	log.Info("Server gracefully stopped")
}
