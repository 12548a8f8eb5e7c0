package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/assistant-service/internal/api/http"
	"github.com/spec-kit/assistant-service/internal/api/http/handlers"
	"github.com/spec-kit/assistant-service/internal/auth"
	"github.com/spec-kit/assistant-service/internal/config"
	"github.com/spec-kit/assistant-service/internal/events"
	"github.com/spec-kit/assistant-service/internal/observability"
	"github.com/spec-kit/assistant-service/internal/persistence"
	"github.com/spec-kit/assistant-service/internal/repository"
	"github.com/spec-kit/assistant-service/internal/service"
	"github.com/spec-kit/assistant-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	// Store selection: Postgres/Redis when configured, the in-memory
	// implementations otherwise (the portal's mock-data mode).
	var (
		userRepo   repository.UserRepository
		ticketRepo repository.TicketRepository
		noteRepo   repository.NotificationRepository
		sessions   repository.SessionStore
	)
	if pool := pg.PoolHandle(); pool != nil {
		userRepo = repository.NewUserRepository(pool)
		ticketRepo = repository.NewTicketRepository(pool)
		noteRepo = repository.NewNotificationRepository(pool)
	} else {
		userRepo = repository.NewMemoryUserRepository()
		ticketRepo = repository.NewMemoryTicketRepository()
		noteRepo = repository.NewMemoryNotificationRepository()
	}
	if redis.Reachable() {
		sessions = repository.NewRedisSessionStore(redis.Client, cfg.Assistant.SessionTTL())
	} else {
		sessions = repository.NewMemorySessionStore()
	}

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	conversationService := service.NewConversationService(service.ConversationDependencies{
		Sessions:      sessions,
		Tickets:       ticketRepo,
		Notifications: noteRepo,
		Dispatcher:    dispatcher,
		Logger:        logger,
		ReplyDelay:    cfg.Assistant.ReplyDelay(),
	})
	ticketService := service.NewTicketService(ticketRepo, dispatcher)
	notificationService := service.NewNotificationService(noteRepo, dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Assistant:      handlers.NewAssistantHandler(conversationService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
