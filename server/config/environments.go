package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Known deployment environment variants. The variant is selected once at
// startup and determines the base configuration that environment variables
// are merged on top of.
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

// variantBase returns the base env values for a named variant. The
// development variant relies entirely on struct tag defaults, which carry
// the local development values. The production variant flips the production
// flag and requires authenticated requests; deployment-specific URLs are
// expected from the environment.
func variantBase(name string) (map[string]string, error) {
	switch name {
	case EnvironmentDevelopment:
		return map[string]string{
			"ENVIRONMENT": EnvironmentDevelopment,
		}, nil
	case EnvironmentProduction:
		return map[string]string{
			"ENVIRONMENT": EnvironmentProduction,
			"PRODUCTION":  "true",
			"AUTH_ENABLE": "true",
		}, nil
	default:
		return nil, fmt.Errorf("unknown environment %q (known: %s, %s)",
			name, EnvironmentDevelopment, EnvironmentProduction)
	}
}

// LoadForEnvironment loads the configuration for an explicitly named
// environment variant. The variant base is layered underneath the given
// lookuper, so precedence is env var, then variant base, then tag default.
func LoadForEnvironment(ctx context.Context, name string, lookuper envconfig.Lookuper) (*Config, error) {
	base, err := variantBase(name)
	if err != nil {
		return nil, err
	}
	layered := envconfig.MultiLookuper(lookuper, envconfig.MapLookuper(base))
	return LoadWithLookuper(ctx, nil, layered)
}

// LoadFromEnvironment selects the variant from the ENVIRONMENT variable
// (falling back to development) and loads the configuration from the
// process environment.
func LoadFromEnvironment(ctx context.Context) (*Config, error) {
	lookuper := envconfig.OsLookuper()
	name := EnvironmentDevelopment
	if v, ok := lookuper.Lookup("ENVIRONMENT"); ok && v != "" {
		name = v
	}
	return LoadForEnvironment(ctx, name, lookuper)
}
