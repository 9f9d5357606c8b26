package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	_ "github.com/MikeMC777/storefront/docs"
	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/cartrpc"
	"github.com/MikeMC777/storefront/internal/config"
	"github.com/MikeMC777/storefront/internal/httpx"
	"github.com/MikeMC777/storefront/internal/logger"
	"github.com/MikeMC777/storefront/internal/tracing"
)

// @title Storefront Cart API
// @version 1.0
// @description Carts keyed by opaque ids.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.Must("cart-service", cfg.AppEnv, cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	cfg.Log(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, shutdownTracing, err := tracing.Init("cart-service", cfg.TracingEnabled, os.Stdout)
	if err != nil {
		log.Fatal("init tracing", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	var store cart.Store
	switch cfg.CartStore {
	case "memory":
		store = cart.NewMemStore()
	default:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("redis ping", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		store = cart.NewRedisStore(rdb, cfg.CartTTL)
	}

	// gRPC: read side used by the order service
	lis, err := net.Listen("tcp", cfg.CartGRPCListen)
	if err != nil {
		log.Fatal("grpc listen", zap.Error(err))
	}
	gs := grpc.NewServer()
	cartrpc.RegisterCartServiceServer(gs, cartrpc.NewService(store))
	go func() {
		log.Info("cart-service grpc listening", zap.String("addr", cfg.CartGRPCListen))
		if err := gs.Serve(lis); err != nil {
			log.Error("grpc server error", zap.Error(err))
			stop()
		}
	}()

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := httpx.NewRouter("cart", log, tracer)
	routes(r, store, log)

	srv := &http.Server{
		Addr:              cfg.CartSvcAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("cart-service listening", zap.String("addr", cfg.CartSvcAddr))
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
	gs.GracefulStop()
	log.Info("bye")
}

func routes(r gin.IRouter, store cart.Store, log *zap.Logger) {
	r.POST("/carts", createCartHandler(store, log))
	r.GET("/carts/:id", getCartHandler(store, log))
	r.PUT("/carts/:id", putCartHandler(store, log))
	r.POST("/carts/:id/items", addItemHandler(store, log))
	r.DELETE("/carts/:id", deleteCartHandler(store, log))
}
