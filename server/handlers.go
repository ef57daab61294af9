package server

import (
	"errors"
	"net/http"

	types "github.com/coffeeshop/backend/types"
	gin "github.com/gin-gonic/gin"
	zap "go.uber.org/zap"
)

// handleGetDrinks returns the menu with each drink's short representation.
// The endpoint is public and requires no permission.
func (s *CoffeeShopServerImpl) handleGetDrinks(c *gin.Context) {
	drinks, err := s.storage.ListDrinks()
	if err != nil {
		s.logger.Error("failed to list drinks", zap.Error(err))
		respondInternalError(c)
		return
	}

	shortDrinks := make([]any, 0, len(drinks))
	for _, drink := range drinks {
		shortDrinks = append(shortDrinks, drink.Short())
	}

	// An empty menu still yields a single placeholder entry
	if len(shortDrinks) == 0 {
		shortDrinks = append(shortDrinks, gin.H{"name": "There are no drinks at the moment!"})
	}

	c.JSON(http.StatusOK, types.DrinksResponse{
		Success: true,
		Drinks:  shortDrinks,
	})
}

// handleGetDrinksDetail returns the menu with each drink's long representation
func (s *CoffeeShopServerImpl) handleGetDrinksDetail(c *gin.Context) {
	drinks, err := s.storage.ListDrinks()
	if err != nil {
		s.logger.Error("failed to list drinks", zap.Error(err))
		respondInternalError(c)
		return
	}

	longDrinks := make([]any, 0, len(drinks))
	for _, drink := range drinks {
		longDrinks = append(longDrinks, drink.Long())
	}

	c.JSON(http.StatusOK, types.DrinksResponse{
		Success: true,
		Drinks:  longDrinks,
	})
}

// handleCreateDrink adds a new drink to the menu from the supplied data
func (s *CoffeeShopServerImpl) handleCreateDrink(c *gin.Context) {
	var req types.DrinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Error("failed to parse drink request", zap.Error(err))
		respondUnprocessable(c)
		return
	}

	drink, err := s.storage.CreateDrink(&req.Drink)
	if err != nil {
		s.logger.Error("failed to create drink",
			zap.String("title", req.Drink.Title),
			zap.Error(err))
		respondUnprocessable(c)
		return
	}

	if s.otel != nil {
		s.otel.RecordDrinkCreated(c.Request.Context())
	}

	c.JSON(http.StatusOK, types.DrinksResponse{
		Success: true,
		Drinks:  []any{drink.Long()},
	})
}

// handleUpdateDrink edits the selected drink with the supplied data
func (s *CoffeeShopServerImpl) handleUpdateDrink(c *gin.Context) {
	id := c.Param("id")

	var req types.DrinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Error("failed to parse drink request", zap.Error(err))
		respondUnprocessable(c)
		return
	}

	req.Drink.ID = id

	drink, err := s.storage.UpdateDrink(&req.Drink)
	if errors.Is(err, ErrDrinkNotFound) {
		respondNotFound(c)
		return
	}
	if err != nil {
		s.logger.Error("failed to update drink",
			zap.String("drink_id", id),
			zap.Error(err))
		respondUnprocessable(c)
		return
	}

	c.JSON(http.StatusOK, types.DrinksResponse{
		Success: true,
		Drinks:  []any{drink.Long()},
	})
}

// handleDeleteDrink removes the selected drink from the menu
func (s *CoffeeShopServerImpl) handleDeleteDrink(c *gin.Context) {
	id := c.Param("id")

	err := s.storage.DeleteDrink(id)
	if errors.Is(err, ErrDrinkNotFound) {
		respondNotFound(c)
		return
	}
	if err != nil {
		s.logger.Error("failed to delete drink",
			zap.String("drink_id", id),
			zap.Error(err))
		respondInternalError(c)
		return
	}

	if s.otel != nil {
		s.otel.RecordDrinkDeleted(c.Request.Context())
	}

	c.JSON(http.StatusOK, types.DeleteResponse{
		Success: true,
		Delete:  id,
	})
}

func respondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, types.ErrorResponse{
		Success: false,
		Error:   http.StatusNotFound,
		Message: "The resource you asked for was not found.",
	})
}

func respondUnprocessable(c *gin.Context) {
	c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
		Success: false,
		Error:   http.StatusUnprocessableEntity,
		Message: "unprocessable",
	})
}

func respondInternalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, types.ErrorResponse{
		Success: false,
		Error:   http.StatusInternalServerError,
		Message: "An internal server error occurred.",
	})
}
