package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/manha/pos/internal/backup"
	"github.com/manha/pos/internal/cache"
	"github.com/manha/pos/internal/cart"
	"github.com/manha/pos/internal/config"
	"github.com/manha/pos/internal/db"
	"github.com/manha/pos/internal/events"
	"github.com/manha/pos/internal/httpserver"
	"github.com/manha/pos/internal/livesync"
	"github.com/manha/pos/internal/lock"
	"github.com/manha/pos/internal/logging"
	"github.com/manha/pos/internal/repo"
	"github.com/manha/pos/internal/search"
	"github.com/manha/pos/internal/service"
	"github.com/manha/pos/internal/session"
)

const sessionTTL = 30 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), logger)

	gdb, err := db.Open(ctx, cfg.DatabaseURL, cfg.Namespace)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}
	if err := repo.AutoMigrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	store := repo.New(gdb)

	producer := events.NewProducer(cfg.KafkaBrokers)
	listingCache := cache.New(cfg.RedisAddr, cfg.Namespace, 5*time.Minute)

	esClient, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		log.Fatalf("elasticsearch init: %v", err)
	}
	indexer := search.NewIndexer(esClient, cfg.ESIndex)

	appLock, err := lock.New(cfg.PIN)
	if err != nil {
		log.Fatalf("pin config: %v", err)
	}

	hub := livesync.NewHub()
	carts := cart.NewStore()
	sessions := session.NewManager(cfg.JWTSecret, sessionTTL)

	catalogSvc := &service.CatalogService{
		Repo: store, Lock: appLock, Cache: listingCache,
		Indexer: indexer, Producer: producer, Sync: hub,
	}
	cartSvc := &service.CartService{Carts: carts, Sync: hub}
	checkoutSvc := &service.CheckoutService{
		Repo: store, Carts: carts, Lock: appLock,
		Cache: listingCache, Producer: producer, Sync: hub,
	}
	salesSvc := &service.SalesService{Repo: store, Lock: appLock, Producer: producer, Sync: hub}
	backupSvc := &backup.Service{Repo: store}

	catalogSvc.RefreshSnapshot(ctx)
	salesSvc.RefreshSnapshot(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), logging.RequestLogger(logger))

	deps := httpserver.Deps{
		SessionHandler: &httpserver.SessionHandler{Sessions: sessions},
		ProductHandler: &httpserver.ProductHandler{Catalog: catalogSvc},
		CartHandler:    &httpserver.CartHandler{Cart: cartSvc, Checkout: checkoutSvc},
		SalesHandler:   &httpserver.SalesHandler{Sales: salesSvc},
		LockHandler:    &httpserver.LockHandler{Lock: appLock},
		BackupHandler:  &httpserver.BackupHandler{Backup: backupSvc, Catalog: catalogSvc, Sales: salesSvc},
		LiveHandler:    &httpserver.LiveHandler{Sync: hub},
		Sessions:       sessions,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:     e,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: the live stream endpoint holds its
		// connection open indefinitely.
		IdleTimeout: 60 * time.Second,
	}
	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}
	if err := listingCache.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	logger.Info("shutdown complete")
}
