package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sellergrid/marketplace/internal/config"
	"github.com/sellergrid/marketplace/internal/es"
	"github.com/sellergrid/marketplace/internal/httpserver"
	"github.com/sellergrid/marketplace/internal/logging"
	"github.com/sellergrid/marketplace/internal/mykafka"
	"github.com/sellergrid/marketplace/internal/repo"
	"github.com/sellergrid/marketplace/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	var prod *mykafka.Producer
	if cfg.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer([]string{cfg.KAFKA_ADDRESS})
	}

	var indexer *es.Indexer
	if cfg.ES_URL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("es init: %v", err)
		}
		indexer = &es.Indexer{Client: esClient, Index: cfg.ES_INDEX}
	}

	jwtSecret := []byte(cfg.JWT_SECRET)
	r := &repo.GormRepo{DB: db}

	deps := httpserver.Deps{
		Auth:      &service.AuthService{Repo: r, JWTSecret: jwtSecret},
		Products:  &service.ProductService{Repo: r},
		Search:    &service.SearchService{Repo: r},
		Cart:      &service.CartService{Repo: r},
		Orders:    &service.OrderService{Repo: r},
		Producer:  prod,
		Indexer:   indexer,
		JWTSecret: jwtSecret,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(httpserver.RequestLogger(logger))

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         ":" + cfg.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
