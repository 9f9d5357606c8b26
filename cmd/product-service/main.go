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
	"github.com/MikeMC777/storefront/internal/httpx"
	"github.com/MikeMC777/storefront/internal/logger"
	"github.com/MikeMC777/storefront/internal/pg"
	"github.com/MikeMC777/storefront/internal/product"
	"github.com/MikeMC777/storefront/internal/tracing"
)

// @title Storefront Product API
// @version 1.0
// @description Catalog of products.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.Must("product-service", cfg.AppEnv, cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	cfg.Log(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, shutdownTracing, err := tracing.Init("product-service", cfg.TracingEnabled, os.Stdout)
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
	repo := product.NewPGRepo(pool)

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := httpx.NewRouter("product", log, tracer)
	routes(r, repo, log)

	srv := &http.Server{
		Addr:              cfg.ProductSvcAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("product-service listening", zap.String("addr", cfg.ProductSvcAddr))
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

func routes(r gin.IRouter, repo product.Repository, log *zap.Logger) {
	r.GET("/products", listOnlyHandler(repo, log))
	r.GET("/products/search", searchHandler(repo, log))
	r.GET("/products/:id", getProductHandler(repo, log))
	r.POST("/products", createProductHandler(repo, log))
	r.PUT("/products/:id", updateProductHandler(repo, log))
	r.DELETE("/products/:id", deleteProductHandler(repo, log))
}
