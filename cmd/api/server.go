package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/afriroots/afriroots-api/internal/api/http"
	"github.com/afriroots/afriroots-api/internal/api/http/handlers"
	"github.com/afriroots/afriroots-api/internal/auth"
	"github.com/afriroots/afriroots-api/internal/config"
	"github.com/afriroots/afriroots-api/internal/events"
	"github.com/afriroots/afriroots-api/internal/observability"
	"github.com/afriroots/afriroots-api/internal/persistence"
	"github.com/afriroots/afriroots-api/internal/repository"
	"github.com/afriroots/afriroots-api/internal/service"
	"github.com/afriroots/afriroots-api/internal/worker"
)

const shutdownTimeout = 10 * time.Second

type stores struct {
	accounts repository.AccountRepository
	content  repository.ContentRepository
	close    func()
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		pool := pg.PoolHandle()
		return &stores{
			accounts: repository.NewAccountRepository(pool),
			content:  repository.NewContentRepository(pool),
			close:    pg.Close,
		}, nil

	case config.StoreDriverMongo:
		mg, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		closeMongo := func() { mg.Close(context.Background()) }
		accounts, err := repository.NewMongoAccountRepository(ctx, mg.Database)
		if err != nil {
			closeMongo()
			return nil, err
		}
		content, err := repository.NewMongoContentRepository(ctx, mg.Database)
		if err != nil {
			closeMongo()
			return nil, err
		}
		return &stores{accounts: accounts, content: content, close: closeMongo}, nil

	default:
		logger.Warn("using in-memory store; data is lost on restart")
		return &stores{
			accounts: repository.NewMemoryAccountRepository(),
			content:  repository.NewMemoryContentRepository(),
			close:    func() {},
		}, nil
	}
}

func serve(parent context.Context, cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	notifier := worker.NewNotificationWorker(events.NewInMemoryDispatcher(logger), 0, logger)
	publisher := events.NewRedisPublisher(redis.Client, cfg.Redis.EventsChannel)
	service.NewNotificationService(notifier, publisher, logger).RegisterHandlers()

	workerCtx, stopWorker := context.WithCancel(ctx)
	notifier.Start(workerCtx)

	authService, err := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		AccountRepo: st.accounts,
		Dispatcher:  notifier,
		Logger:      logger,
	})
	if err != nil {
		stopWorker()
		return err
	}
	contentService := service.NewContentService(st.content, notifier)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), st.accounts)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"store": st.accounts,
			"redis": redis,
		}, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Content:        handlers.NewContentHandler(contentService),
		AuthMiddleware: authMiddleware,
	})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		listenErr <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err = <-listenErr:
		logger.Error("fiber listen", zap.Error(err))
	case sig := <-shutdownSignal():
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case <-parent.Done():
		logger.Info("shutting down", zap.Error(parent.Err()))
	}

	if shutdownErr := app.ShutdownWithTimeout(shutdownTimeout); shutdownErr != nil {
		logger.Warn("fiber shutdown", zap.Error(shutdownErr))
	}
	stopWorker()
	notifier.Wait()
	return err
}

func shutdownSignal() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return sigCh
}
