package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// ConfigurationError reports a required configuration field that is missing
// or malformed. Configuration errors are fatal at startup: there is no
// reasonable default for an API endpoint or an OAuth client identifier.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// Auth0Config holds the identity provider settings consumed by the
// authentication component. The values are public OAuth client settings,
// not secrets.
type Auth0Config struct {
	URL         string `env:"URL,default=dev-sbac" description:"Auth0 tenant/domain prefix"`
	Audience    string `env:"AUDIENCE,default=coffeeshop" description:"OAuth audience identifier for token validation"`
	ClientID    string `env:"CLIENT_ID,default=lLUvEZcRd1nKGM9wjRyiCKmjxO5OFfDu" description:"Public OAuth client identifier"`
	CallbackURL string `env:"CALLBACK_URL,default=http://localhost:8100" description:"Redirect target after authentication"`
}

// Domain returns the full Auth0 tenant domain. A bare prefix gets the
// standard auth0.com suffix appended.
func (a Auth0Config) Domain() string {
	if strings.Contains(a.URL, ".") {
		return a.URL
	}
	return a.URL + ".auth0.com"
}

// IssuerURL returns the OIDC issuer for the tenant. The trailing slash is
// significant: Auth0 issues tokens with it.
func (a Auth0Config) IssuerURL() string {
	return "https://" + a.Domain() + "/"
}

// JWKSURL returns the JSON Web Key Set endpoint used for token signature
// verification.
func (a Auth0Config) JWKSURL() string {
	return "https://" + a.Domain() + "/.well-known/jwks.json"
}

// AuthorizeURL builds the login URL the front-end redirects to.
func (a Auth0Config) AuthorizeURL() string {
	q := url.Values{}
	q.Set("audience", a.Audience)
	q.Set("response_type", "token")
	q.Set("client_id", a.ClientID)
	q.Set("redirect_uri", a.CallbackURL)
	return "https://" + a.Domain() + "/authorize?" + q.Encode()
}

// EnvironmentConfig is the environment-specific settings block. It is
// populated once at startup and read-only afterwards.
type EnvironmentConfig struct {
	Production   bool        `env:"PRODUCTION,default=false" description:"Build/runtime mode flag"`
	APIServerURL string      `env:"API_SERVER_URL,default=http://127.0.0.1:5000" description:"Base address of the backend HTTP API"`
	Auth0        Auth0Config `env:",prefix=AUTH0_"`
}

// EnvMap serializes the environment block back to its flat env-key form.
// Reloading the result through envconfig.MapLookuper yields a structurally
// equal block.
func (e EnvironmentConfig) EnvMap() map[string]string {
	return map[string]string{
		"PRODUCTION":         fmt.Sprintf("%t", e.Production),
		"API_SERVER_URL":     e.APIServerURL,
		"AUTH0_URL":          e.Auth0.URL,
		"AUTH0_AUDIENCE":     e.Auth0.Audience,
		"AUTH0_CLIENT_ID":    e.Auth0.ClientID,
		"AUTH0_CALLBACK_URL": e.Auth0.CallbackURL,
	}
}

// AuthConfig controls whether requests must carry a verified bearer token
type AuthConfig struct {
	Enable bool `env:"ENABLE,default=false"`
}

// TLSConfig holds TLS configuration
type TLSConfig struct {
	Enable   bool   `env:"ENABLE,default=false"`
	CertPath string `env:"CERT_PATH" description:"TLS certificate path"`
	KeyPath  string `env:"KEY_PATH" description:"TLS key path"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port                  string        `env:"PORT,default=5000" description:"HTTP server port"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=30s" description:"HTTP server read timeout"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=30s" description:"HTTP server write timeout"`
	IdleTimeout           time.Duration `env:"IDLE_TIMEOUT,default=120s" description:"HTTP server idle timeout"`
	DisableHealthcheckLog bool          `env:"DISABLE_HEALTHCHECK_LOG,default=true" description:"Disable logging for health check requests"`
	TLSConfig             TLSConfig     `env:",prefix=TLS_"`
}

// StorageConfig holds drink storage configuration
type StorageConfig struct {
	Provider    string            `env:"PROVIDER,default=memory" description:"Storage provider (memory, redis)"`
	URL         string            `env:"URL" description:"Connection URL for the storage backend"`
	Credentials map[string]string `env:"CREDENTIALS" description:"Provider-specific credentials"`
	Options     map[string]string `env:"OPTIONS" description:"Provider-specific configuration options"`
}

// MetricsConfig holds metrics server configuration
type MetricsConfig struct {
	Port         string        `env:"PORT,default=9090" description:"Metrics server port"`
	Host         string        `env:"HOST,default=" description:"Metrics server host (empty for all interfaces)"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s" description:"Metrics server read timeout"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s" description:"Metrics server write timeout"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=60s" description:"Metrics server idle timeout"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	Enable        bool          `env:"ENABLE,default=false" description:"Enable telemetry collection"`
	MetricsConfig MetricsConfig `env:",prefix=METRICS_"`
}

// Config holds all application configuration
type Config struct {
	Environment       string            `env:"ENVIRONMENT,default=development" description:"Deployment environment variant (development, production)"`
	Debug             bool              `env:"DEBUG,default=false"`
	EnvironmentConfig EnvironmentConfig // flat keys, no prefix
	AuthConfig        AuthConfig        `env:",prefix=AUTH_"`
	ServerConfig      ServerConfig      `env:",prefix=SERVER_"`
	StorageConfig     StorageConfig     `env:",prefix=STORAGE_"`
	TelemetryConfig   TelemetryConfig   `env:",prefix=TELEMETRY_"`
}

// GetConfig returns the immutable environment settings block
func (c *Config) GetConfig() EnvironmentConfig {
	return c.EnvironmentConfig
}

// Load loads configuration from environment variables, merging with the provided base config.
func Load(ctx context.Context, baseConfig *Config) (*Config, error) {
	return LoadWithLookuper(ctx, baseConfig, envconfig.OsLookuper())
}

// LoadWithLookuper creates and loads configuration using a custom lookuper and merges with the base config
func LoadWithLookuper(ctx context.Context, baseConfig *Config, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config

	if baseConfig != nil {
		cfg = *baseConfig
	}

	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	})
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// NewWithDefaults creates a new config with defaults applied from struct tags.
func NewWithDefaults(ctx context.Context, baseConfig *Config) (*Config, error) {
	return LoadWithLookuper(ctx, baseConfig, &emptyLookuper{})
}

// emptyLookuper ensures that only default values from struct tags are used
type emptyLookuper struct{}

func (e *emptyLookuper) Lookup(key string) (string, bool) {
	return "", false
}

// Validate checks the environment settings block. All string fields must be
// non-empty and URL fields must parse as absolute URLs.
func (c *Config) Validate() error {
	env := c.EnvironmentConfig

	if err := validateURL("API_SERVER_URL", env.APIServerURL); err != nil {
		return err
	}
	if env.Auth0.URL == "" {
		return &ConfigurationError{Field: "AUTH0_URL", Reason: "must not be empty"}
	}
	if env.Auth0.Audience == "" {
		return &ConfigurationError{Field: "AUTH0_AUDIENCE", Reason: "must not be empty"}
	}
	if env.Auth0.ClientID == "" {
		return &ConfigurationError{Field: "AUTH0_CLIENT_ID", Reason: "must not be empty"}
	}
	if err := validateURL("AUTH0_CALLBACK_URL", env.Auth0.CallbackURL); err != nil {
		return err
	}

	return nil
}

func validateURL(field, value string) error {
	if value == "" {
		return &ConfigurationError{Field: field, Reason: "must not be empty"}
	}
	u, err := url.Parse(value)
	if err != nil {
		return &ConfigurationError{Field: field, Reason: err.Error()}
	}
	if !u.IsAbs() || u.Host == "" {
		return &ConfigurationError{Field: field, Reason: "must be an absolute URL"}
	}
	return nil
}
