package middlewares

import (
	"context"
	"net/http"
	"strings"

	config "github.com/coffeeshop/backend/server/config"
	types "github.com/coffeeshop/backend/types"
	oidcV3 "github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type contextKey string

const (
	AuthTokenContextKey   contextKey = "authToken"
	IDTokenContextKey     contextKey = "idToken"
	PermissionsContextKey contextKey = "permissions"
)

// Permissions the API routes require, as granted by the identity provider
const (
	PermissionGetDrinksDetail = "get:drinks-detail"
	PermissionPostDrinks      = "post:drinks"
	PermissionPatchDrinks     = "patch:drinks"
	PermissionDeleteDrinks    = "delete:drinks"
)

// Authenticator verifies bearer tokens and enforces route permissions
type Authenticator interface {
	Middleware() gin.HandlerFunc
	RequirePermission(permission string) gin.HandlerFunc
}

// Auth0Authenticator implements token verification against an Auth0 tenant
type Auth0Authenticator struct {
	logger   *zap.Logger
	verifier *oidcV3.IDTokenVerifier
	config   oauth2.Config
}

// AuthenticatorNoop is a no-op authenticator for when auth is disabled
type AuthenticatorNoop struct{}

// tokenClaims carries the claims the permission check needs
type tokenClaims struct {
	Permissions []string `json:"permissions"`
}

// NewAuth0AuthenticatorMiddleware creates an authenticator from the
// configured Auth0 tenant. When authentication is disabled the returned
// authenticator passes every request through.
func NewAuth0AuthenticatorMiddleware(logger *zap.Logger, cfg config.Config) (Authenticator, error) {
	if !cfg.AuthConfig.Enable {
		return &AuthenticatorNoop{}, nil
	}

	auth0 := cfg.EnvironmentConfig.Auth0

	provider, err := oidcV3.NewProvider(context.Background(), auth0.IssuerURL())
	if err != nil {
		return nil, err
	}

	// Access tokens carry the API audience, not the client ID
	oidcConfig := &oidcV3.Config{
		ClientID: auth0.Audience,
	}

	return &Auth0Authenticator{
		logger:   logger,
		verifier: provider.Verifier(oidcConfig),
		config: oauth2.Config{
			ClientID:    auth0.ClientID,
			Endpoint:    provider.Endpoint(),
			RedirectURL: auth0.CallbackURL,
			Scopes:      []string{oidcV3.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

// Middleware returns the bearer token verification middleware
func (auth *Auth0Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			auth.logger.Error("missing authorization header")
			abortUnauthorized(c)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 {
			auth.logger.Error("invalid authorization header format")
			abortUnauthorized(c)
			return
		}

		if !strings.EqualFold(parts[0], "bearer") {
			auth.logger.Error("authorization header is not a bearer token")
			abortUnauthorized(c)
			return
		}

		token := parts[1]

		idToken, err := auth.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			auth.logger.Error("failed to verify token", zap.Error(err))
			abortUnauthorized(c)
			return
		}

		var claims tokenClaims
		if err := idToken.Claims(&claims); err != nil {
			auth.logger.Error("failed to parse token claims", zap.Error(err))
			abortUnauthorized(c)
			return
		}

		c.Set(string(AuthTokenContextKey), token)
		c.Set(string(IDTokenContextKey), idToken)
		c.Set(string(PermissionsContextKey), claims.Permissions)
		c.Next()
	}
}

// RequirePermission enforces that the verified token grants the given
// permission. Must run after Middleware.
func (auth *Auth0Authenticator) RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(string(PermissionsContextKey))
		if !exists {
			auth.logger.Error("no permissions in request context", zap.String("required", permission))
			abortForbidden(c)
			return
		}

		permissions, ok := value.([]string)
		if !ok || !containsPermission(permissions, permission) {
			auth.logger.Error("permission denied",
				zap.String("required", permission),
				zap.Strings("granted", permissions))
			abortForbidden(c)
			return
		}

		c.Next()
	}
}

func containsPermission(permissions []string, permission string) bool {
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func abortUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, types.ErrorResponse{
		Success: false,
		Error:   http.StatusUnauthorized,
		Message: "Unauthorised.",
	})
	c.Abort()
}

func abortForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, types.ErrorResponse{
		Success: false,
		Error:   http.StatusForbidden,
		Message: "You do not have permission to perform that action.",
	})
	c.Abort()
}

// Middleware returns a no-op middleware for AuthenticatorNoop
func (auth *AuthenticatorNoop) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}

// RequirePermission returns a no-op middleware for AuthenticatorNoop
func (auth *AuthenticatorNoop) RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}
