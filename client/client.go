package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	types "github.com/coffeeshop/backend/types"
	"go.uber.org/zap"
)

// CoffeeShopClient defines the interface for the coffeeshop API client
type CoffeeShopClient interface {
	// Health
	GetHealth(ctx context.Context) (*HealthResponse, error)

	// Drink operations
	ListDrinks(ctx context.Context) (*types.DrinksResponse, error)
	ListDrinkDetails(ctx context.Context) (*types.DrinksResponse, error)
	CreateDrink(ctx context.Context, drink types.Drink) (*types.DrinksResponse, error)
	UpdateDrink(ctx context.Context, id string, drink types.Drink) (*types.DrinksResponse, error)
	DeleteDrink(ctx context.Context, id string) (*types.DeleteResponse, error)

	// Configuration
	SetTimeout(timeout time.Duration)
	SetHTTPClient(client *http.Client)
	SetBearerToken(token string)
	GetBaseURL() string

	// Logger configuration
	SetLogger(logger *zap.Logger)
	GetLogger() *zap.Logger
}

var _ CoffeeShopClient = (*Client)(nil)

// HealthResponse represents the response from the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

// APIError is returned when the server replies with an error envelope
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Config holds configuration options for the coffeeshop client.
// BaseURL is the apiServerUrl from the environment configuration.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	HTTPClient  *http.Client
	UserAgent   string
	BearerToken string
	Logger      *zap.Logger
}

// DefaultConfig returns a default configuration
func DefaultConfig(baseURL string) *Config {
	return &Config{
		BaseURL:   baseURL,
		Timeout:   30 * time.Second,
		UserAgent: "coffeeshop-go-client/1.0",
		Logger:    zap.NewNop(),
	}
}

// Client represents a coffeeshop API client
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new coffeeshop client with default configuration
func NewClient(baseURL string) CoffeeShopClient {
	config := DefaultConfig(baseURL)
	return NewClientWithConfig(config)
}

// NewClientWithConfig creates a new coffeeshop client with custom configuration
func NewClientWithConfig(config *Config) CoffeeShopClient {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}
}

// GetHealth checks the health of the server
func (c *Client) GetHealth(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListDrinks fetches the public menu with short drink representations
func (c *Client) ListDrinks(ctx context.Context) (*types.DrinksResponse, error) {
	var resp types.DrinksResponse
	if err := c.doRequest(ctx, http.MethodGet, "/drinks", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListDrinkDetails fetches the menu with long drink representations.
// Requires a bearer token with the get:drinks-detail permission.
func (c *Client) ListDrinkDetails(ctx context.Context) (*types.DrinksResponse, error) {
	var resp types.DrinksResponse
	if err := c.doRequest(ctx, http.MethodGet, "/drinks-detail", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateDrink adds a new drink to the menu.
// Requires a bearer token with the post:drinks permission.
func (c *Client) CreateDrink(ctx context.Context, drink types.Drink) (*types.DrinksResponse, error) {
	var resp types.DrinksResponse
	body := types.DrinkRequest{Drink: drink}
	if err := c.doRequest(ctx, http.MethodPost, "/drinks", &body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateDrink edits an existing drink.
// Requires a bearer token with the patch:drinks permission.
func (c *Client) UpdateDrink(ctx context.Context, id string, drink types.Drink) (*types.DrinksResponse, error) {
	var resp types.DrinksResponse
	body := types.DrinkRequest{Drink: drink}
	if err := c.doRequest(ctx, http.MethodPatch, "/drinks/"+id, &body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteDrink removes a drink from the menu.
// Requires a bearer token with the delete:drinks permission.
func (c *Client) DeleteDrink(ctx context.Context, id string) (*types.DeleteResponse, error) {
	var resp types.DeleteResponse
	if err := c.doRequest(ctx, http.MethodDelete, "/drinks/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetTimeout updates the client timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.config.Timeout = timeout
	c.httpClient.Timeout = timeout
}

// SetHTTPClient replaces the underlying HTTP client
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// SetBearerToken sets the token sent in the Authorization header
func (c *Client) SetBearerToken(token string) {
	c.config.BearerToken = token
}

// GetBaseURL returns the configured base URL
func (c *Client) GetBaseURL() string {
	return c.config.BaseURL
}

// SetLogger sets the logger used by the client
func (c *Client) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
}

// GetLogger returns the logger used by the client
func (c *Client) GetLogger() *zap.Logger {
	return c.logger
}

// endpointURL joins the base URL and path without doubling slashes
func (c *Client) endpointURL(path string) string {
	return strings.TrimSuffix(c.config.BaseURL, "/") + path
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.logger.Error("failed to marshal request body", zap.Error(err))
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpointURL(path), reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.BearerToken)
	}

	c.logger.Debug("sending request",
		zap.String("method", method),
		zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", zap.Error(err), zap.String("path", path))
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp types.ErrorResponse
		if err := json.Unmarshal(data, &errResp); err == nil && errResp.Message != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Message}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
