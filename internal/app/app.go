package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"newsfeed/internal/adapter/fetcher"
	"newsfeed/internal/adapter/parser"
	"newsfeed/internal/adapter/scraper"
	"newsfeed/internal/cache"
	"newsfeed/internal/config"
	"newsfeed/internal/logger"
	"newsfeed/internal/migrations"
	server "newsfeed/internal/transport/http"
	"newsfeed/internal/usecase"
	"newsfeed/internal/worker"
	"newsfeed/storage"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App представляет основное приложение агрегатора новостей.
// Координирует работу всех компонентов: HTTP-сервера, воркера обработки
// источников, базы данных, кеша и системы логирования.
// Обеспечивает graceful startup и shutdown.
type App struct {
	config   *config.Config
	logger   *slog.Logger
	server   *http.Server
	worker   *worker.Worker
	dbPool   *pgxpool.Pool
	stopChan chan os.Signal
	wg       sync.WaitGroup
}

// New создает и инициализирует новый экземпляр приложения.
// Выполняет настройку логгера, подключение к базе данных, применение
// миграций и сборку всех зависимостей. Возвращает ошибку в случае сбоя
// любой из инициализационных процедур.
func New(cfg *config.Config) (*App, error) {
	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	slog.SetDefault(appLogger)

	dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := dbPool.Ping(context.Background()); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := migrations.Apply(context.Background(), appLogger, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("migrations failed: %w", err)
	}

	newsDB := storage.NewPostgresNewsDB(dbPool, appLogger)
	memCache := cache.New(cfg.Cache.TTL(), appLogger)
	cachedStorage := storage.NewCachedNewsStorage(newsDB, memCache, appLogger)

	httpFetcher := fetcher.NewHTTPFetcher(appLogger)
	xmlDecoder := parser.NewXMLDecoder(appLogger)
	contentFetcher := scraper.NewContentFetcher(appLogger)
	normalizer := usecase.NewNormalizer(newsDB, contentFetcher, appLogger)
	pipeline := usecase.NewIngestionPipeline(httpFetcher, xmlDecoder, normalizer, cachedStorage, appLogger)
	newsGetter := usecase.NewNewsGetterUseCase(cachedStorage)

	handler := server.NewHandler(appLogger, newsGetter, cfg.App.DefaultNewsLimit)
	router := server.NewServer(appLogger, handler)

	processInterval, err := time.ParseDuration(cfg.App.ProcessingInterval)
	if err != nil {
		return nil, fmt.Errorf("bad processing interval: %w", err)
	}
	feedWorker := worker.New(pipeline, cfg.FeedSources(), processInterval, cfg.App.Workers, appLogger)

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}
	return &App{
		config:   cfg,
		logger:   appLogger,
		server:   httpServer,
		worker:   feedWorker,
		dbPool:   dbPool,
		stopChan: make(chan os.Signal, 1),
	}, nil
}

// Run запускает приложение: воркер обработки источников и HTTP-сервер.
// Метод блокируется до получения сигнала завершения.
func (a *App) Run() error {
	a.logger.Info("Starting news aggregator",
		slog.String("component", "app"),
		slog.Int("source_count", len(a.worker.GetSources())),
		slog.String("processing_interval", a.worker.GetInterval().String()),
	)
	a.worker.Start()
	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	defer listener.Close()
	a.logger.Info("HTTP server ready",
		slog.String("component", "server"),
		slog.String("address", listener.Addr().String()),
	)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server failed", slog.Any("error", err))
		}
	}()
	signal.Notify(a.stopChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-a.stopChan
	a.logger.Info("Shutdown signal received",
		slog.String("component", "app"),
		slog.String("signal", sig.String()),
	)
	return a.Shutdown()
}

// Shutdown выполняет graceful shutdown приложения: останавливает воркер,
// завершает HTTP-сервер, закрывает соединение с БД и ожидает завершения
// всех горутин.
func (a *App) Shutdown() error {
	a.logger.Info("Starting graceful shutdown")
	if a.worker != nil {
		a.worker.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}
	if a.dbPool != nil {
		a.dbPool.Close()
	}
	a.wg.Wait()
	a.logger.Info("Application stopped gracefully")
	return nil
}
