package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/catalog-service/internal/config"
	"github.com/maxviazov/catalog-service/internal/event"
	"github.com/maxviazov/catalog-service/internal/handler"
	"github.com/maxviazov/catalog-service/internal/logger"
	"github.com/maxviazov/catalog-service/internal/repository"
	"github.com/maxviazov/catalog-service/internal/repository/mongodb"
	"github.com/maxviazov/catalog-service/internal/repository/postgres"
	"github.com/maxviazov/catalog-service/internal/service"
)

func main() {
	// Load application config
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPostgresPool(ctx, &cfg.Postgres, &appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("❌ Postgres connection failed")
	}
	defer pool.Close()

	mongoClient, mongoDB, err := repository.NewMongoDatabase(ctx, &cfg.Mongo, &appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("❌ Mongo connection failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			appLogger.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	bus := event.NewKafkaBus(&cfg.Kafka, &appLogger)
	defer func() {
		if err := bus.Close(); err != nil {
			appLogger.Warn().Err(err).Msg("kafka writer close failed")
		}
	}()

	productRepo := postgres.NewProductRepository(pool)
	offerRepo := mongodb.NewOfferRepository(mongoDB, &appLogger)
	tx := postgres.NewTxManager(pool)

	productSvc := service.NewProductService(productRepo, tx, bus, cfg.Kafka.ProductTopic, cfg.Pagination.DefaultPageSize, appLogger)
	offerSvc := service.NewOfferService(offerRepo, productRepo, bus, cfg.Kafka.OfferTopic, cfg.Pagination.DefaultPageSize, appLogger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestID())
	handler.Register(r, postgres.NewPinger(pool), mongodb.NewPinger(mongoClient), productSvc, offerSvc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	go func() {
		appLogger.Info().Int("port", cfg.Server.Port).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	appLogger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	appLogger.Info().Msg("server stopped cleanly")
}
