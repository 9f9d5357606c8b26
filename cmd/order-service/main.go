package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/MikeMC777/storefront/docs"
	"github.com/MikeMC777/storefront/internal/config"
	"github.com/MikeMC777/storefront/internal/events"
	"github.com/MikeMC777/storefront/internal/httpx"
	"github.com/MikeMC777/storefront/internal/logger"
	"github.com/MikeMC777/storefront/internal/order"
	"github.com/MikeMC777/storefront/internal/pg"
	"github.com/MikeMC777/storefront/internal/tracing"
)

// @title Storefront Order API
// @version 1.0
// @description Orders placed from products or carts.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.Must("order-service", cfg.AppEnv, cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	cfg.Log(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, shutdownTracing, err := tracing.Init("order-service", cfg.TracingEnabled, os.Stdout)
	if err != nil {
		log.Fatal("init tracing", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	pool, err := pg.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatal("db schema", zap.Error(err))
	}
	repo := order.NewPGRepo(pool)

	ext, err := order.NewExt(cfg.CartGRPCAddr, cfg.ProductSvcBaseURL)
	if err != nil {
		log.Fatal("outbound clients", zap.Error(err))
	}

	pub := events.FromBrokers(cfg.KafkaBrokers, events.TopicOrders)
	defer pub.Close()

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := httpx.NewRouter("order", log, tracer)
	routes(r, deps{repo: repo, ext: ext, pub: pub, log: log})

	srv := &http.Server{
		Addr:              cfg.OrderSvcAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("order-service listening", zap.String("addr", cfg.OrderSvcAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", zap.Error(err))
	}
	log.Info("bye")
}

type deps struct {
	repo order.Repository
	ext  *order.Ext
	pub  events.Publisher
	log  *zap.Logger
}

func routes(r gin.IRouter, d deps) {
	r.POST("/orders", createOrderHandler(d))
	r.POST("/orders/checkout", checkoutHandler(d))
	r.GET("/orders/:id", getOrderHandler(d))
	r.PATCH("/orders/:id/status", updateStatusHandler(d))
	r.DELETE("/orders/:id", deleteOrderHandler(d))
	r.GET("/users/:user_id/orders", listUserOrdersHandler(d))
}
