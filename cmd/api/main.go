package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/justyn/travelmap-api/internal/cart"
	"github.com/justyn/travelmap-api/internal/catalog"
	"github.com/justyn/travelmap-api/internal/config"
	"github.com/justyn/travelmap-api/internal/httpx"
	kafkax "github.com/justyn/travelmap-api/internal/kafka"
	"github.com/justyn/travelmap-api/internal/orders"
	"github.com/justyn/travelmap-api/internal/plans"
	"github.com/justyn/travelmap-api/internal/postgres"
	"github.com/justyn/travelmap-api/internal/profile"
	"github.com/justyn/travelmap-api/internal/redisx"
	"github.com/justyn/travelmap-api/internal/scenic"
	"github.com/justyn/travelmap-api/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024, logger)
	prod.Start(ctx)

	// Repos
	cartRepo := &cart.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	composer := &orders.Composer{
		Cart:     cartRepo,
		Store:    orderRepo,
		Reader:   orderRepo,
		Producer: prod,
		Service:  cfg.ServiceName,
		Log:      logger,
	}

	// Handlers
	router := httpx.NewRouter()
	(&httpx.AuthHandler{Users: &users.Repo{DB: db}}).Register(router)
	(&httpx.ScenicHandler{Repo: &scenic.Repo{DB: db}, Redis: rdb}).Register(router)
	(&httpx.CatalogHandler{Repo: &catalog.Repo{DB: db}}).Register(router)
	(&httpx.PlansHandler{Repo: &plans.Repo{DB: db}}).Register(router)
	(&httpx.ProfileHandler{Repo: &profile.Repo{DB: db}}).Register(router)
	(&httpx.CartHandler{Store: cartRepo}).Register(router)
	(&httpx.OrdersHandler{Composer: composer, Reader: orderRepo, Redis: rdb}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // tutup inbox -> flush & close writer
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}
