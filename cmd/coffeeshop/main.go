package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	zap "go.uber.org/zap"

	server "github.com/coffeeshop/backend/server"
	config "github.com/coffeeshop/backend/server/config"
	otel "github.com/coffeeshop/backend/server/otel"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadFromEnvironment(ctx)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var logger *zap.Logger
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	var telemetry otel.OpenTelemetry
	if cfg.TelemetryConfig.Enable {
		telemetry, err = otel.NewOpenTelemetry(cfg, logger)
		if err != nil {
			logger.Fatal("failed to initialize telemetry", zap.Error(err))
		}
		metricsAddr := cfg.TelemetryConfig.MetricsConfig.Host + ":" + cfg.TelemetryConfig.MetricsConfig.Port
		logger.Info("telemetry enabled - metrics will be available", zap.String("metrics_url", metricsAddr+"/metrics"))
	}

	srv, err := server.NewServerBuilder(*cfg, logger).
		WithTelemetry(telemetry).
		Build()
	if err != nil {
		logger.Fatal("failed to build server", zap.Error(err))
	}

	go func() {
		if err := srv.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	env := cfg.GetConfig()
	logger.Info("coffeeshop api running",
		zap.String("environment", cfg.Environment),
		zap.String("api_server_url", env.APIServerURL),
		zap.String("auth0_domain", env.Auth0.Domain()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
