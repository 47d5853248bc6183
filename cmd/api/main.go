package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/marketplace-service/internal/api/http"
	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/observability"
	"github.com/spec-kit/marketplace-service/internal/persistence"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/repository/memory"
	"github.com/spec-kit/marketplace-service/internal/service"
	"github.com/spec-kit/marketplace-service/internal/storage"
	"github.com/spec-kit/marketplace-service/internal/worker"
)

const (
	shutdownTimeout      = 10 * time.Second
	rateLimitCleanupTick = 5 * time.Minute
	bodyLimitHeadroom    = 1 << 20
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loc, err := cfg.App.Location()
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	signingKey := []byte(cfg.Auth.JWTSecret)
	if len(signingKey) == 0 {
		signingKey, err = auth.GenerateSigningKey()
		if err != nil {
			logger.Fatal("failed to generate signing key", zap.Error(err))
		}
		logger.Warn("AUTH_JWT_SECRET not set; using a random signing key, tokens will not survive a restart")
	}
	tokens := auth.NewTokenManager(signingKey, cfg.Auth.AccessTokenTTL())

	thumbnails, err := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		logger.Fatal("failed to prepare upload dir", zap.Error(err))
	}

	metrics := observability.NewMetrics("marketplace")

	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationWorker := worker.NewNotificationWorker(dispatcher, 0, logger)
	worker.StartNotificationWorker(ctx, notifications, notificationWorker)

	repos := newRepositories(pg, logger)

	clock := func() time.Time { return time.Now().In(loc) }

	memberService := service.NewMemberService(service.MemberDependencies{
		MemberRepo: repos.members,
		StoreRepo:  repos.stores,
		Tokens:     tokens,
		Throttle:   persistence.NewLoginThrottle(redis, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockout()),
		Metrics:    metrics,
		Logger:     logger,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	storeService := service.NewStoreService(service.StoreDependencies{
		StoreRepo:  repos.stores,
		Thumbnails: thumbnails,
		Publisher:  notificationWorker,
		Clock:      clock,
	})
	menuService := service.NewMenuService(service.MenuDependencies{
		MenuRepo:   repos.menus,
		StoreRepo:  repos.stores,
		Thumbnails: thumbnails,
	})
	boardService := service.NewBoardService(service.BoardDependencies{
		BoardRepo: repos.boards,
		Publisher: notificationWorker,
		Clock:     clock,
	})
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo: repos.orders,
		MenuRepo:  repos.menus,
		StoreRepo: repos.stores,
		Publisher: notificationWorker,
		Metrics:   metrics,
		Location:  loc,
		Clock:     clock,
	})

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.Upload.MaxBytes + bodyLimitHeadroom,
	})

	rateLimiter := httptransport.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, logger)
	rateLimiter.StartCleanup(ctx, rateLimitCleanupTick)

	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:           logger,
		Metrics:          metrics,
		Timeout:          cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
		RateLimiter:      rateLimiter,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Members:   handlers.NewMemberHandler(memberService),
		Stores:    handlers.NewStoreHandler(storeService),
		Menus:     handlers.NewMenuHandler(menuService),
		Boards:    handlers.NewBoardHandler(boardService),
		Orders:    handlers.NewOrderHandler(orderService),
		Gate:      auth.NewGate(tokens, repos.members),
		Metrics:   metrics,
		UploadDir: thumbnails.Dir(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	cancel()
	notificationWorker.Wait()
}

type repositories struct {
	members repository.MemberRepository
	stores  repository.StoreRepository
	menus   repository.MenuRepository
	boards  repository.BoardRepository
	orders  repository.OrderRepository
}

// newRepositories uses postgres when connected and falls back to process memory otherwise.
func newRepositories(pg *persistence.Postgres, logger *zap.Logger) repositories {
	pool := pg.PoolHandle()
	if pool == nil {
		logger.Warn("no database configured; data is kept in memory and lost on exit")
		db := memory.New()
		return repositories{
			members: db.Members(),
			stores:  db.Stores(),
			menus:   db.Menus(),
			boards:  db.Boards(),
			orders:  db.Orders(),
		}
	}
	return repositories{
		members: repository.NewMemberRepository(pool),
		stores:  repository.NewStoreRepository(pool),
		menus:   repository.NewMenuRepository(pool),
		boards:  repository.NewBoardRepository(pool),
		orders:  repository.NewOrderRepository(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
