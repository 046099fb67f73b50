package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Clark-Hu/bookreviews/internal/config"
	httpserver "github.com/Clark-Hu/bookreviews/internal/http"
	"github.com/Clark-Hu/bookreviews/internal/logger"
	"github.com/Clark-Hu/bookreviews/internal/repository"
	"github.com/Clark-Hu/bookreviews/internal/service"
	"github.com/Clark-Hu/bookreviews/internal/store"
	"github.com/Clark-Hu/bookreviews/internal/validation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bookreviews: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotenv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	log := logger.New(logger.Config{
		Format:      cfg.LogFormat,
		Environment: cfg.Environment,
		Level:       logger.ParseLevel(cfg.LogLevel),
		AddSource:   cfg.Environment != "production",
	})
	slog.SetDefault(log)

	if cfg.MigrateOnStart {
		if err := store.Migrate(cfg.DBURL, log); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 log,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer st.Close()

	repo := repository.New(st)
	v := validation.New()
	server := httpserver.New(cfg, st, httpserver.Services{
		Books:    service.NewBooks(repo.Books, log.With("component", "books")),
		Reviews:  service.NewReviews(repo.Books, repo.Reviews, v, log.With("component", "reviews")),
		Accounts: service.NewAccounts(repo.Users, repo.Tokens, v, log.With("component", "accounts")),
	}, log)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	var serveErr error
	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("graceful shutdown error", slog.Any("error", err))
	}
	return serveErr
}
