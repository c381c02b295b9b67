package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Totarae/shortlinks/internal/cache"
	"github.com/Totarae/shortlinks/internal/config"
	"github.com/Totarae/shortlinks/internal/database"
	grpcv1 "github.com/Totarae/shortlinks/internal/grpc/v1"
	"github.com/Totarae/shortlinks/internal/handlers"
	"github.com/Totarae/shortlinks/internal/repositories"
	"github.com/Totarae/shortlinks/internal/router"
	"github.com/Totarae/shortlinks/internal/service"
	"github.com/Totarae/shortlinks/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	exit(start())
}

// exit завершает процесс с кодом code. Вызывается после того, как start
// выполнил все отложенные функции.
func exit(code int) {
	if code != 0 {
		os.Exit(code)
	}
}

// start запускает сервис и возвращает код завершения процесса
func start() int {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Инициализация конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Error("Ошибка конфигурации", zap.Error(err))
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Сервер остановлен с ошибкой", zap.Error(err))
		return 1
	}
	logger.Info("Сервер остановлен")
	return 0
}

// closer освобождает ресурсы хранилища при остановке
type closer func()

// newRepository выбирает хранилище по режиму конфигурации
func newRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.Repository, closer, error) {
	switch cfg.Mode {
	case config.ModeDatabase:
		if err := database.Migrate(cfg.DatabaseDSN, logger); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		db, err := database.NewDB(ctx, cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewLinkRepository(db), db.Close, nil
	default:
		store, err := storage.NewMemoryStore(cfg.FileStoragePath, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open storage: %w", err)
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close storage", zap.Error(err))
			}
		}, nil
	}
}

// newCache подключает Redis, если задан адрес. Недоступный Redis не мешает запуску.
func newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*cache.RedisCache, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	c, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.CacheTTL)
	if err != nil {
		return nil, err
	}
	logger.Info("Кэш Redis подключён", zap.String("address", cfg.RedisAddr))
	return c, nil
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	repo, closeRepo, err := newRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()
	logger.Info("Хранилище выбрано", zap.String("mode", cfg.Mode))

	var linkCache service.Cache
	redisCache, err := newCache(ctx, cfg, logger)
	if err != nil {
		logger.Warn("Кэш отключён", zap.Error(err))
	}
	if redisCache != nil {
		defer redisCache.Close()
		linkCache = redisCache
	}

	svc := service.NewShortenerService(repo, linkCache, logger, service.Options{
		CodeLength:      cfg.CodeLength,
		MaxCodeAttempts: cfg.MaxCodeAttempts,
		BaseURL:         cfg.BaseURL,
	})

	handler := handlers.NewHandler(svc, logger)
	r := router.NewRouter(handler, logger, router.Options{
		CacheMaxAge: cfg.ResponseCacheDuration,
		CORSOrigins: cfg.CORSAllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if cfg.EnableHTTPS {
			logger.Info("HTTPS сервер запущен", zap.String("address", cfg.ServerAddress))
			err = httpServer.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			logger.Info("Сервер запущен", zap.String("address", cfg.ServerAddress))
			err = httpServer.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	})

	if cfg.GRPCAddress != "" {
		scheme := "http"
		if cfg.EnableHTTPS {
			scheme = "https"
		}
		origin := service.OriginFromHostPort(scheme, cfg.ServerAddress)
		grpcServer := grpcv1.NewServer(grpcv1.NewGRPCServer(svc, origin, logger), logger)

		g.Go(func() error {
			lis, err := net.Listen("tcp", cfg.GRPCAddress)
			if err != nil {
				return fmt.Errorf("grpc listen: %w", err)
			}
			logger.Info("gRPC сервер запущен", zap.String("address", cfg.GRPCAddress))
			return grpcServer.Serve(lis)
		})
		g.Go(func() error {
			<-gctx.Done()
			grpcServer.GracefulStop()
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Завершение работы сервера")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
