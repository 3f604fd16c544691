package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shenikar/civic_issue_tracker/internal/auth"
	"github.com/shenikar/civic_issue_tracker/internal/config"
	"github.com/shenikar/civic_issue_tracker/internal/events"
	v1 "github.com/shenikar/civic_issue_tracker/internal/handler/http/v1"
	"github.com/shenikar/civic_issue_tracker/internal/repository"
	"github.com/shenikar/civic_issue_tracker/internal/repository/mongodb"
	"github.com/shenikar/civic_issue_tracker/internal/service"
	"github.com/shenikar/civic_issue_tracker/internal/webhook"
	"github.com/shenikar/civic_issue_tracker/pkg/logger"
	mongoclient "github.com/shenikar/civic_issue_tracker/pkg/mongo"
	"github.com/shenikar/civic_issue_tracker/pkg/postgres"
	redisclient "github.com/shenikar/civic_issue_tracker/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/civic_issue_tracker/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// repositories хранилища выбранного драйвера
type repositories struct {
	issues        service.IssueRepository
	users         service.UserRepository
	notifications service.NotificationRepository
	analytics     service.AnalyticsRepository
	alerts        service.AlertRepository
	audience      service.AlertAudience
	close         func()
}

// @title Civic Issue Tracker API
// @version 1.0
// @description Citizens report and upvote civic issues; government officials triage, assign and resolve them.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
		migrationURL = strings.Replace(migrationURL, "postgresql://", "pgx5://", 1)
	}

	m, err := migrate.New(cfg.MigrationsPath, migrationURL)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// openStorage подключает хранилище по STORAGE_DRIVER
func openStorage(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*repositories, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMongo:
		client, db, err := mongoclient.NewMongoDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info("Successfully connected to MongoDB")
		return &repositories{
			issues:        mongodb.NewIssueRepository(db),
			users:         mongodb.NewUserRepository(db),
			notifications: mongodb.NewNotificationRepository(db),
			analytics:     mongodb.NewAnalyticsRepository(db),
			alerts:        mongodb.NewAlertRepository(db),
			audience:      mongodb.NewAlertAudience(db),
			close: func() {
				disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = client.Disconnect(disconnectCtx)
			},
		}, nil
	default:
		if err := runMigrations(cfg, log); err != nil {
			return nil, err
		}
		dbpool, err := postgres.NewPostgresDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info("Successfully connected to PostgreSQL")
		return &repositories{
			issues:        repository.NewIssueRepository(dbpool),
			users:         repository.NewUserRepository(dbpool),
			notifications: repository.NewNotificationRepository(dbpool),
			analytics:     repository.NewAnalyticsRepository(dbpool),
			alerts:        repository.NewAlertRepository(dbpool),
			audience:      repository.NewAlertAudience(dbpool),
			close:         dbpool.Close,
		}, nil
	}
}

// corsMiddleware разрешает origin'ы из CORS_ORIGINS; "*" - любые
func corsMiddleware(origins []string) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-API-Key"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = origins
	}
	return cors.New(corsCfg)
}

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

	// Подключение к хранилищу
	repos, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize %s storage: %v", cfg.StorageDriver, err)
	}
	defer repos.close()

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Шина событий: синхронно леджер, асинхронно очередь уведомлений и широковещательный канал
	bus := events.NewBus(log, cfg.EventSinkTimeout)
	broadcaster := webhook.NewBroadcaster(redisClient, cfg.BroadcastChannel, log)
	bus.AddSink(webhook.NewRedisEventQueue(redisClient, cfg.EventQueueKey))
	bus.AddSink(broadcaster)

	ledger := service.NewEngagementLedger(repos.users, repos.issues, log)
	ledger.Register(bus)

	// Инициализация сервисов
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	issueCache := repository.NewIssueCache(redisClient, cfg.CacheTTL)
	issueService := service.NewIssueService(repos.issues, repos.users, issueCache, bus, log)
	userService := service.NewUserService(repos.users, tokens, log)
	notificationService := service.NewNotificationService(repos.notifications, repos.audience, log)
	analyticsService := service.NewAnalyticsService(repos.analytics, log)
	alertService := service.NewAlertService(repos.alerts, bus, log)

	// Инициализация и запуск воркера уведомлений и вебхуков
	webhookWorker := webhook.NewWebhookWorker(redisClient, notificationService, log, cfg)
	webhookWorker.Start(ctx)

	// Инициализация хэндлеров
	handler := v1.NewHandler(v1.Services{
		Issues:        issueService,
		Users:         userService,
		Notifications: notificationService,
		Analytics:     analyticsService,
		Alerts:        alertService,
	}, tokens, broadcaster, redisClient, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	if len(cfg.CORSOrigins) > 0 {
		router.Use(corsMiddleware(cfg.CORSOrigins))
	}
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.WithField("driver", cfg.StorageDriver).Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	// Отмена ctx закрывает SSE потоки и останавливает воркер
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	webhookWorker.Wait()
	bus.Close()

	log.Info("Server gracefully stopped")
}
