package server

import (
	"context"
	"fmt"
	"net/http"

	config "github.com/coffeeshop/backend/server/config"
	middlewares "github.com/coffeeshop/backend/server/middlewares"
	otel "github.com/coffeeshop/backend/server/otel"
	types "github.com/coffeeshop/backend/types"
	gin "github.com/gin-gonic/gin"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
	zap "go.uber.org/zap"
)

// CoffeeShopServer defines the interface for the coffeeshop API server
type CoffeeShopServer interface {
	// Start starts the server on the configured port
	Start(ctx context.Context) error

	// Stop gracefully stops the server
	Stop(ctx context.Context) error

	// GetConfig returns the immutable environment settings the server runs with
	GetConfig() config.EnvironmentConfig

	// GetStorage returns the drink storage the server serves from
	GetStorage() DrinkStorage
}

// CoffeeShopServerImpl is the gin-based implementation of CoffeeShopServer
type CoffeeShopServerImpl struct {
	cfg           *config.Config
	logger        *zap.Logger
	storage       DrinkStorage
	authenticator middlewares.Authenticator
	otel          otel.OpenTelemetry

	// Server state
	httpServer    *http.Server
	metricsServer *http.Server
}

var _ CoffeeShopServer = (*CoffeeShopServerImpl)(nil)

// GetConfig returns the immutable environment settings the server runs with
func (s *CoffeeShopServerImpl) GetConfig() config.EnvironmentConfig {
	return s.cfg.GetConfig()
}

// GetStorage returns the drink storage the server serves from
func (s *CoffeeShopServerImpl) GetStorage() DrinkStorage {
	return s.storage
}

// setupRouter configures the HTTP router with the drinks endpoints
func (s *CoffeeShopServerImpl) setupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.LoggingMiddleware(cfg.ServerConfig.DisableHealthcheckLog))
	r.Use(middlewares.CORSMiddleware())

	if s.cfg.TelemetryConfig.Enable && s.otel != nil {
		telemetryMw, err := middlewares.NewTelemetryMiddleware(*s.cfg, s.otel, s.logger)
		if err != nil {
			s.logger.Error("failed to create telemetry middleware", zap.Error(err))
		} else {
			r.Use(telemetryMw.Middleware())
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": types.HealthStatusHealthy})
	})

	r.GET("/drinks", s.handleGetDrinks)

	auth := s.authenticator
	r.GET("/drinks-detail", auth.Middleware(), auth.RequirePermission(middlewares.PermissionGetDrinksDetail), s.handleGetDrinksDetail)
	r.POST("/drinks", auth.Middleware(), auth.RequirePermission(middlewares.PermissionPostDrinks), s.handleCreateDrink)
	r.PATCH("/drinks/:id", auth.Middleware(), auth.RequirePermission(middlewares.PermissionPatchDrinks), s.handleUpdateDrink)
	r.DELETE("/drinks/:id", auth.Middleware(), auth.RequirePermission(middlewares.PermissionDeleteDrinks), s.handleDeleteDrink)

	r.NoRoute(func(c *gin.Context) {
		respondNotFound(c)
	})

	return r
}

// Start starts the coffeeshop server
func (s *CoffeeShopServerImpl) Start(ctx context.Context) error {
	router := s.setupRouter(s.cfg)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.cfg.ServerConfig.Port),
		Handler:      router,
		ReadTimeout:  s.cfg.ServerConfig.ReadTimeout,
		WriteTimeout: s.cfg.ServerConfig.WriteTimeout,
		IdleTimeout:  s.cfg.ServerConfig.IdleTimeout,
	}

	s.logger.Info("starting coffeeshop server",
		zap.String("port", s.cfg.ServerConfig.Port),
		zap.String("environment", s.cfg.Environment),
		zap.Bool("production", s.cfg.EnvironmentConfig.Production),
		zap.Bool("auth_enabled", s.cfg.AuthConfig.Enable))

	if s.cfg.TelemetryConfig.Enable && s.otel != nil {
		go func() {
			metricsRouter := gin.Default()
			metricsRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

			metricsAddr := s.cfg.TelemetryConfig.MetricsConfig.Host + ":" + s.cfg.TelemetryConfig.MetricsConfig.Port
			s.metricsServer = &http.Server{
				Addr:         metricsAddr,
				Handler:      metricsRouter,
				ReadTimeout:  s.cfg.TelemetryConfig.MetricsConfig.ReadTimeout,
				WriteTimeout: s.cfg.TelemetryConfig.MetricsConfig.WriteTimeout,
				IdleTimeout:  s.cfg.TelemetryConfig.MetricsConfig.IdleTimeout,
			}

			s.logger.Info("starting metrics server", zap.String("port", s.cfg.TelemetryConfig.MetricsConfig.Port))
			if err := s.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				s.logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	if s.cfg.ServerConfig.TLSConfig.Enable {
		return s.httpServer.ListenAndServeTLS(s.cfg.ServerConfig.TLSConfig.CertPath, s.cfg.ServerConfig.TLSConfig.KeyPath)
	}

	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the coffeeshop server
func (s *CoffeeShopServerImpl) Stop(ctx context.Context) error {
	s.logger.Info("stopping coffeeshop server")

	var err error

	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			s.logger.Error("error stopping HTTP server", zap.Error(shutdownErr))
			err = shutdownErr
		}
	}

	if s.metricsServer != nil {
		if shutdownErr := s.metricsServer.Shutdown(ctx); shutdownErr != nil {
			s.logger.Error("error stopping metrics server", zap.Error(shutdownErr))
			if err == nil {
				err = shutdownErr
			}
		}
	}

	if s.otel != nil {
		if shutdownErr := s.otel.ShutDown(ctx); shutdownErr != nil {
			s.logger.Error("error shutting down telemetry", zap.Error(shutdownErr))
			if err == nil {
				err = shutdownErr
			}
		}
	}

	defer func() {
		if syncErr := s.logger.Sync(); syncErr != nil {
			s.logger.Error("failed to sync logger on shutdown", zap.Error(syncErr))
		}
	}()

	return err
}
