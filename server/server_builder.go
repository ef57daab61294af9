package server

import (
	"context"
	"fmt"

	config "github.com/coffeeshop/backend/server/config"
	middlewares "github.com/coffeeshop/backend/server/middlewares"
	otel "github.com/coffeeshop/backend/server/otel"
	zap "go.uber.org/zap"
)

// ServerBuilder provides a fluent interface for building coffeeshop servers
// with custom configurations. Use NewServerBuilder to create an instance,
// then chain method calls to configure the server.
//
// Example:
//
//	server, err := NewServerBuilder(cfg, logger).
//	  WithStorage(storage).
//	  Build()
type ServerBuilder interface {
	// WithLogger sets a custom logger for the resulting server
	WithLogger(logger *zap.Logger) ServerBuilder

	// WithStorage sets a pre-configured drink storage, bypassing the factory
	WithStorage(storage DrinkStorage) ServerBuilder

	// WithAuthenticator sets a custom authenticator, bypassing the Auth0 setup
	WithAuthenticator(authenticator middlewares.Authenticator) ServerBuilder

	// WithTelemetry sets the telemetry implementation to record metrics with
	WithTelemetry(telemetry otel.OpenTelemetry) ServerBuilder

	// Build creates and returns the configured server
	Build() (CoffeeShopServer, error)
}

var _ ServerBuilder = (*ServerBuilderImpl)(nil)

// ServerBuilderImpl is the concrete implementation of the ServerBuilder interface
type ServerBuilderImpl struct {
	cfg           config.Config
	logger        *zap.Logger
	storage       DrinkStorage
	authenticator middlewares.Authenticator
	telemetry     otel.OpenTelemetry
}

// NewServerBuilder creates a new server builder with required dependencies.
// The configuration passed here must already be loaded and validated.
func NewServerBuilder(cfg config.Config, logger *zap.Logger) ServerBuilder {
	return &ServerBuilderImpl{
		cfg:    cfg,
		logger: logger,
	}
}

// WithLogger sets a custom logger for the resulting server
func (b *ServerBuilderImpl) WithLogger(logger *zap.Logger) ServerBuilder {
	b.logger = logger
	return b
}

// WithStorage sets a pre-configured drink storage, bypassing the factory
func (b *ServerBuilderImpl) WithStorage(storage DrinkStorage) ServerBuilder {
	b.storage = storage
	return b
}

// WithAuthenticator sets a custom authenticator, bypassing the Auth0 setup
func (b *ServerBuilderImpl) WithAuthenticator(authenticator middlewares.Authenticator) ServerBuilder {
	b.authenticator = authenticator
	return b
}

// WithTelemetry sets the telemetry implementation to record metrics with
func (b *ServerBuilderImpl) WithTelemetry(telemetry otel.OpenTelemetry) ServerBuilder {
	b.telemetry = telemetry
	return b
}

// Build creates and returns the configured server
func (b *ServerBuilderImpl) Build() (CoffeeShopServer, error) {
	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	storage := b.storage
	if storage == nil {
		created, err := CreateStorage(context.Background(), b.cfg.StorageConfig, logger)
		if err != nil {
			logger.Warn("failed to create configured storage, falling back to in-memory",
				zap.String("provider", b.cfg.StorageConfig.Provider),
				zap.Error(err))
			created = NewInMemoryDrinkStorage(logger)
		}
		storage = created
	}

	authenticator := b.authenticator
	if authenticator == nil {
		created, err := middlewares.NewAuth0AuthenticatorMiddleware(logger, b.cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create authenticator: %w", err)
		}
		authenticator = created
	}

	cfg := b.cfg
	return &CoffeeShopServerImpl{
		cfg:           &cfg,
		logger:        logger,
		storage:       storage,
		authenticator: authenticator,
		otel:          b.telemetry,
	}, nil
}
