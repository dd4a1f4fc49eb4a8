// Package main is the entry point for the keyfleet gateway server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/keyfleet/keyfleet/internal/adapter"
	"github.com/keyfleet/keyfleet/internal/catalog"
	"github.com/keyfleet/keyfleet/internal/config"
	"github.com/keyfleet/keyfleet/internal/credential"
	"github.com/keyfleet/keyfleet/internal/gateway"
	"github.com/keyfleet/keyfleet/internal/handler"
	"github.com/keyfleet/keyfleet/internal/security"
	"github.com/keyfleet/keyfleet/internal/ui"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logging)

	ui.PrintBanner()

	// Model catalog, with group chains from config layered over defaults.
	cat := catalog.Default()
	if len(cfg.Groups) > 0 {
		cat.OverrideGroups(cfg.Groups)
	}

	// Credential pools, lazily filled from .env.<provider> files.
	source := credential.NewEnvFileSource(cfg.Gateway.CredentialsDir)
	registry := credential.NewRegistry(source,
		credential.WithRegistryCheckoutTimeout(cfg.Gateway.CheckoutTimeout()),
		credential.WithRegistryLogger(logger),
	)

	clients := adapter.DefaultClients(
		adapter.WithTimeout(cfg.Gateway.RequestTimeout()),
	)

	gw := gateway.New(registry, cat, clients,
		gateway.WithLogger(logger),
	)

	ui.PrintGatewayInfo(fmt.Sprintf("Gateway ready: %d models across %d fallback groups", len(cat.Models()), len(cat.Groups())))
	logger.Info("gateway initialized",
		slog.Int("models", len(cat.Models())),
		slog.Int("groups", len(cat.Groups())),
	)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(handler.Recovery(logger))
	router.Use(handler.CORS())
	router.Use(handler.RequestID())
	router.Use(handler.Logging(logger))

	if cfg.Cache.Enabled {
		cache := handler.NewResponseCache(
			handler.WithCacheTTL(cfg.Cache.TTL()),
			handler.WithCacheLogger(logger),
		)
		router.Use(handler.CacheMiddleware(cache, logger))
	}

	h := handler.NewGenerateHandler(gw, registry, cat,
		handler.WithHandlerLogger(logger),
	)

	router.POST("/v1/generate", h.HandleGenerate)
	router.GET("/v1/models", h.HandleModels)
	router.GET("/v1/groups", h.HandleGroups)
	router.GET("/health", h.HandleHealth)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
	}

	go func() {
		// Peek at the credential files for the startup summary. Pools stay
		// lazy; they are built on first request, not here.
		keysByProvider := make(map[string]int)
		for _, provider := range cat.Providers() {
			if keys, err := source.Load(provider); err == nil && len(keys) > 0 {
				keysByProvider[provider] = len(keys)
			}
		}
		ui.PrintStartupInfo(cfg.Server.Host, cfg.Server.Port, keysByProvider)

		logger.Info("server starting", slog.String("address", addr))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	ui.PrintShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
	ui.PrintGoodbye()
}

// setupLogger builds the structured logger. All records pass through the
// redacting handler so credentials never reach the log stream.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var base slog.Handler
	if cfg.Format == "text" {
		base = slog.NewTextHandler(os.Stdout, opts)
	} else {
		base = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(security.NewRedactedHandler(base))
	slog.SetDefault(logger)

	return logger
}
