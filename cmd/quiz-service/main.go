package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quiz-widget/internal/config"
	"quiz-widget/internal/httpapi"
	"quiz-widget/internal/logger"
	"quiz-widget/internal/quiz"
	"quiz-widget/internal/quiz/redisstore"
	"quiz-widget/internal/quiz/sqlite"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default ./config/config.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("quiz-service failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn("close session store failed", zap.Error(err))
		}
	}()

	service, err := quiz.NewService(quiz.DefaultQuestions(), sessions, log)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httpapi.NewRouter(service, log, httpapi.Options{
			CookieName:   cfg.Session.CookieName,
			SecureCookie: cfg.IsProduction(),
		}),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("quiz-service listening",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("store", cfg.Store.Driver),
			zap.String("env", cfg.Env),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		log.Info("quiz-service shutting down")
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		sweepIdle(gctx, service, cfg.Session.TTL, cfg.Session.SweepInterval, log)
		return nil
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config) (quiz.SessionRepository, func() error, error) {
	switch cfg.Store.Driver {
	case config.StoreSQLite:
		store, err := sqlite.NewSQLiteStore(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store.Close, nil
	case config.StoreRedis:
		store, err := redisstore.New(ctx, cfg.Store.RedisAddr, cfg.Store.RedisPrefix, cfg.Session.TTL)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis store: %w", err)
		}
		return store, store.Close, nil
	default:
		return quiz.NewMemoryStore(), func() error { return nil }, nil
	}
}

func sweepIdle(ctx context.Context, service *quiz.Service, ttl, interval time.Duration, log *zap.Logger) {
	if ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := service.PurgeIdle(ctx, ttl); err != nil && ctx.Err() == nil {
				log.Warn("purge idle sessions failed", zap.Error(err))
			}
		}
	}
}
