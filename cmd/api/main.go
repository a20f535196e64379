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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/spatial-quiz-api/internal/config"
	"github.com/yourusername/spatial-quiz-api/internal/events"
	"github.com/yourusername/spatial-quiz-api/internal/handler"
	"github.com/yourusername/spatial-quiz-api/internal/middleware"
	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
	pgRepo "github.com/yourusername/spatial-quiz-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/spatial-quiz-api/internal/repository/redis"
	"github.com/yourusername/spatial-quiz-api/internal/service"
	"github.com/yourusername/spatial-quiz-api/internal/storage"
	ws "github.com/yourusername/spatial-quiz-api/internal/websocket"
	"github.com/yourusername/spatial-quiz-api/pkg/auth"
	"github.com/yourusername/spatial-quiz-api/pkg/database"
	"github.com/yourusername/spatial-quiz-api/pkg/tracing"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer log.Sync()
	log.Info("Конфигурация загружена", append([]interface{}{"path", configPath}, cfg.Summary()...)...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}

	// PostgreSQL и миграции
	db, err := database.NewPostgresDB(
		cfg.Database.PostgresConnectionString(),
		database.NewGormLogger(log, !cfg.Server.IsRelease()),
	)
	if err != nil {
		return err
	}
	if err := database.MigrateDB(db, cfg.Database.MigrationsPath, log); err != nil {
		return err
	}

	redisClient, err := database.NewUniversalRedisClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis", "mode", cfg.Redis.Mode)

	// Репозитории
	questionRepo := pgRepo.NewQuestionRepo(db)
	sessionRepo := pgRepo.NewSessionRepo(db)
	cacheRepo, err := redisRepo.NewCacheRepo(redisClient, "spatial_quiz:")
	if err != nil {
		return fmt.Errorf("failed to initialize CacheRepo: %w", err)
	}

	blobs, err := storage.NewFSStore(cfg.Storage.Dir, cfg.Storage.PublicPrefix)
	if err != nil {
		return fmt.Errorf("failed to initialize image storage: %w", err)
	}

	tickets, err := auth.NewTicketService(cfg.Ticket.Secret, cfg.Ticket.TTL)
	if err != nil {
		return fmt.Errorf("failed to initialize TicketService: %w", err)
	}

	bus, err := events.NewBus(cfg.Events, log)
	if err != nil {
		return fmt.Errorf("failed to initialize event bus: %w", err)
	}

	// Сервисы
	images := service.NewImageProcessor(cfg.Storage.MaxImageSide, cfg.Storage.MaxUploadMB)
	questionService := service.NewQuestionService(questionRepo, cacheRepo, blobs, images, log)
	quizService := service.NewQuizService(questionRepo, sessionRepo, cacheRepo, blobs, tickets, bus.Publisher, cfg.Quiz, log)
	sessionService := service.NewSessionService(sessionRepo, log)

	hub := ws.NewHub(ws.ClientConfigFrom(cfg.WebSocket), cfg.Server.AllowedOrigins, log)

	// Роутер
	gin.SetMode(cfg.Server.Mode)
	handler.RegisterValidators()
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Tracing.Enabled {
		router.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	router.Use(middleware.AttachTraceContext(), middleware.RequestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderSessionTicket, "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-Id", "X-Trace-Id", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Static(cfg.Storage.PublicPrefix, blobs.Dir())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limiter := middleware.NewRateLimiter(cacheRepo, log)
	handler.RegisterRoutes(router, handler.Handlers{
		Quiz:     handler.NewQuizHandler(quizService, log),
		Question: handler.NewQuestionHandler(questionService, log),
		Session:  handler.NewSessionHandler(sessionService, log),
		Monitor:  handler.NewMonitorHandler(hub, log),
	}, handler.RouteOptions{
		Tickets:    tickets,
		StartLimit: limiter.Limit(middleware.StartRateLimitConfig()),
		AdminLimit: limiter.Limit(middleware.AdminRateLimitConfig()),
	})

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	if bus.Subscriber != nil {
		g.Go(func() error {
			return events.Consume(gctx, bus.Subscriber, bus.Topic, log.Component("Monitor"), hub.HandleSessionEvent)
		})
	}
	g.Go(func() error {
		log.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server forced to shutdown: %w", err))
		}
		if err := bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event bus close: %w", err))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Server exited properly")
	return nil
}
