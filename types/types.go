package types

import (
	"fmt"
)

// HealthStatusHealthy is the status reported by the health endpoint
const HealthStatusHealthy = "healthy"

// Ingredient is a single component of a drink recipe
type Ingredient struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// Drink represents a menu item with its full recipe
type Drink struct {
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	Recipe []Ingredient `json:"recipe"`
}

// ShortIngredient hides the ingredient name in the public menu representation
type ShortIngredient struct {
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// DrinkShort is the public representation of a drink: the recipe is reduced
// to colors and proportions so the actual ingredients stay hidden
type DrinkShort struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

// Short returns the drink's short data representation
func (d *Drink) Short() DrinkShort {
	recipe := make([]ShortIngredient, len(d.Recipe))
	for i, ing := range d.Recipe {
		recipe[i] = ShortIngredient{Color: ing.Color, Parts: ing.Parts}
	}
	return DrinkShort{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// Long returns the drink's long data representation including ingredient names
func (d *Drink) Long() Drink {
	recipe := make([]Ingredient, len(d.Recipe))
	copy(recipe, d.Recipe)
	return Drink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// Validate checks that the drink is well-formed before it is stored
func (d *Drink) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("drink title must not be empty")
	}
	if len(d.Recipe) == 0 {
		return fmt.Errorf("drink recipe must contain at least one ingredient")
	}
	for i, ing := range d.Recipe {
		if ing.Parts < 1 {
			return fmt.Errorf("ingredient %d: parts must be at least 1", i)
		}
	}
	return nil
}

// DrinksResponse is the envelope for all drink listing and mutation endpoints.
// Drinks carries either short or long drink representations depending on the
// endpoint.
type DrinksResponse struct {
	Success bool  `json:"success"`
	Drinks  []any `json:"drinks"`
}

// DeleteResponse confirms a drink deletion
type DeleteResponse struct {
	Success bool   `json:"success"`
	Delete  string `json:"delete"`
}

// ErrorResponse is the envelope for all error replies
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// DrinkRequest is the body for create and update requests
type DrinkRequest struct {
	Drink Drink `json:"drink"`
}
