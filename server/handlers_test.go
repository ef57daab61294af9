package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	config "github.com/coffeeshop/backend/server/config"
	middlewares "github.com/coffeeshop/backend/server/middlewares"
	types "github.com/coffeeshop/backend/types"
	gin "github.com/gin-gonic/gin"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
	zap "go.uber.org/zap"
)

func newTestServer(t *testing.T) (*CoffeeShopServerImpl, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.NewWithDefaults(context.Background(), nil)
	require.NoError(t, err)

	srv := &CoffeeShopServerImpl{
		cfg:           cfg,
		logger:        zap.NewNop(),
		storage:       NewInMemoryDrinkStorage(zap.NewNop()),
		authenticator: &middlewares.AuthenticatorNoop{},
	}

	return srv, srv.setupRouter(cfg)
}

func createDrink(t *testing.T, router *gin.Engine, title string) types.Drink {
	t.Helper()

	body := types.DrinkRequest{
		Drink: types.Drink{
			Title: title,
			Recipe: []types.Ingredient{
				{Name: "espresso", Color: "brown", Parts: 1},
				{Name: "milk", Color: "white", Parts: 2},
			},
		},
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/drinks", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool          `json:"success"`
		Drinks  []types.Drink `json:"drinks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Drinks, 1)

	return resp.Drinks[0]
}

func TestHealthEndpoint(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestGetDrinks_EmptyMenu(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/drinks", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool             `json:"success"`
		Drinks  []map[string]any `json:"drinks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Drinks, 1)
	assert.Equal(t, "There are no drinks at the moment!", resp.Drinks[0]["name"])
}

func TestGetDrinks_ShortRepresentation(t *testing.T) {
	_, router := newTestServer(t)
	createDrink(t, router, "Latte")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/drinks", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "espresso")

	var resp struct {
		Success bool               `json:"success"`
		Drinks  []types.DrinkShort `json:"drinks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Drinks, 1)
	assert.Equal(t, "Latte", resp.Drinks[0].Title)
	require.Len(t, resp.Drinks[0].Recipe, 2)
	assert.Equal(t, "brown", resp.Drinks[0].Recipe[0].Color)
}

func TestGetDrinksDetail_LongRepresentation(t *testing.T) {
	_, router := newTestServer(t)
	createDrink(t, router, "Mocha")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/drinks-detail", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool          `json:"success"`
		Drinks  []types.Drink `json:"drinks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Drinks, 1)
	assert.Equal(t, "Mocha", resp.Drinks[0].Title)
	assert.Equal(t, "espresso", resp.Drinks[0].Recipe[0].Name)
}

func TestCreateDrink_InvalidBody(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/drinks", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Error)
	assert.Equal(t, "unprocessable", resp.Message)
}

func TestUpdateDrink(t *testing.T) {
	_, router := newTestServer(t)
	created := createDrink(t, router, "Americano")

	update := types.DrinkRequest{
		Drink: types.Drink{
			Title:  "Long Black",
			Recipe: []types.Ingredient{{Name: "espresso", Color: "brown", Parts: 2}},
		},
	}
	data, err := json.Marshal(update)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/drinks/"+created.ID, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool          `json:"success"`
		Drinks  []types.Drink `json:"drinks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Drinks, 1)
	assert.Equal(t, created.ID, resp.Drinks[0].ID)
	assert.Equal(t, "Long Black", resp.Drinks[0].Title)
}

func TestUpdateDrink_NotFound(t *testing.T) {
	_, router := newTestServer(t)

	update := types.DrinkRequest{
		Drink: types.Drink{
			Title:  "Ghost",
			Recipe: []types.Ingredient{{Name: "espresso", Color: "brown", Parts: 1}},
		},
	}
	data, err := json.Marshal(update)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/drinks/missing", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "The resource you asked for was not found.", resp.Message)
}

func TestDeleteDrink(t *testing.T) {
	srv, router := newTestServer(t)
	created := createDrink(t, router, "Macchiato")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/drinks/"+created.ID, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"success":true,"delete":%q}`, created.ID), w.Body.String())

	count, err := srv.storage.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDeleteDrink_NotFound(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/drinks/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNoRoute(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/espresso-machines", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusNotFound, resp.Error)
}

// wrappedNotFoundStorage wraps the not-found sentinel the way a remote
// backend adds context before the error reaches the handlers
type wrappedNotFoundStorage struct {
	DrinkStorage
}

func (s *wrappedNotFoundStorage) UpdateDrink(drink *types.Drink) (*types.Drink, error) {
	return nil, fmt.Errorf("backend: %w", ErrDrinkNotFound)
}

func (s *wrappedNotFoundStorage) DeleteDrink(id string) error {
	return fmt.Errorf("backend: %w", ErrDrinkNotFound)
}

func TestHandlers_WrappedNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg, err := config.NewWithDefaults(context.Background(), nil)
	require.NoError(t, err)

	srv := &CoffeeShopServerImpl{
		cfg:           cfg,
		logger:        zap.NewNop(),
		storage:       &wrappedNotFoundStorage{NewInMemoryDrinkStorage(zap.NewNop())},
		authenticator: &middlewares.AuthenticatorNoop{},
	}
	router := srv.setupRouter(cfg)

	update := types.DrinkRequest{
		Drink: types.Drink{
			Title:  "Ghost",
			Recipe: []types.Ingredient{{Name: "espresso", Color: "brown", Parts: 1}},
		},
	}
	data, err := json.Marshal(update)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/drinks/missing", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/drinks/missing", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSHeaders(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/drinks", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PATCH, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Authorization, Content-Type", w.Header().Get("Access-Control-Allow-Headers"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/drinks", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
