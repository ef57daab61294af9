package server

import (
	"fmt"
	"sort"
	"sync"

	types "github.com/coffeeshop/backend/types"
	uuid "github.com/google/uuid"
	zap "go.uber.org/zap"
)

// ErrDrinkNotFound is returned when the requested drink does not exist
var ErrDrinkNotFound = fmt.Errorf("drink not found")

// DrinkStorage defines the interface for managing the drink menu
type DrinkStorage interface {
	// ListDrinks returns all drinks ordered by title
	ListDrinks() ([]*types.Drink, error)

	// GetDrink retrieves a single drink by ID
	GetDrink(id string) (*types.Drink, error)

	// CreateDrink stores a new drink and assigns it an ID
	CreateDrink(drink *types.Drink) (*types.Drink, error)

	// UpdateDrink replaces the stored drink with the given ID
	UpdateDrink(drink *types.Drink) (*types.Drink, error)

	// DeleteDrink removes the drink with the given ID
	DeleteDrink(id string) error

	// Count returns the number of drinks on the menu
	Count() (int, error)
}

// InMemoryDrinkStorage implements DrinkStorage using in-memory storage
type InMemoryDrinkStorage struct {
	logger *zap.Logger
	drinks map[string]*types.Drink
	mu     sync.RWMutex
}

var _ DrinkStorage = (*InMemoryDrinkStorage)(nil)

// NewInMemoryDrinkStorage creates a new in-memory drink storage instance
func NewInMemoryDrinkStorage(logger *zap.Logger) *InMemoryDrinkStorage {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &InMemoryDrinkStorage{
		logger: logger,
		drinks: make(map[string]*types.Drink),
	}
}

// ListDrinks returns all drinks ordered by title
func (s *InMemoryDrinkStorage) ListDrinks() ([]*types.Drink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	drinks := make([]*types.Drink, 0, len(s.drinks))
	for _, drink := range s.drinks {
		drinks = append(drinks, copyDrink(drink))
	}

	sort.Slice(drinks, func(i, j int) bool {
		return drinks[i].Title < drinks[j].Title
	})

	return drinks, nil
}

// GetDrink retrieves a single drink by ID
func (s *InMemoryDrinkStorage) GetDrink(id string) (*types.Drink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	drink, exists := s.drinks[id]
	if !exists {
		return nil, ErrDrinkNotFound
	}

	return copyDrink(drink), nil
}

// CreateDrink stores a new drink and assigns it an ID
func (s *InMemoryDrinkStorage) CreateDrink(drink *types.Drink) (*types.Drink, error) {
	if err := drink.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyDrink(drink)
	stored.ID = uuid.New().String()
	s.drinks[stored.ID] = stored

	s.logger.Debug("drink created",
		zap.String("drink_id", stored.ID),
		zap.String("title", stored.Title))

	return copyDrink(stored), nil
}

// UpdateDrink replaces the stored drink with the given ID
func (s *InMemoryDrinkStorage) UpdateDrink(drink *types.Drink) (*types.Drink, error) {
	if err := drink.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.drinks[drink.ID]; !exists {
		return nil, ErrDrinkNotFound
	}

	stored := copyDrink(drink)
	s.drinks[stored.ID] = stored

	s.logger.Debug("drink updated",
		zap.String("drink_id", stored.ID),
		zap.String("title", stored.Title))

	return copyDrink(stored), nil
}

// DeleteDrink removes the drink with the given ID
func (s *InMemoryDrinkStorage) DeleteDrink(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.drinks[id]; !exists {
		return ErrDrinkNotFound
	}

	delete(s.drinks, id)

	s.logger.Debug("drink deleted", zap.String("drink_id", id))

	return nil
}

// Count returns the number of drinks on the menu
func (s *InMemoryDrinkStorage) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.drinks), nil
}

// copyDrink returns a deep copy so callers cannot mutate stored state
func copyDrink(drink *types.Drink) *types.Drink {
	recipe := make([]types.Ingredient, len(drink.Recipe))
	copy(recipe, drink.Recipe)
	return &types.Drink{
		ID:     drink.ID,
		Title:  drink.Title,
		Recipe: recipe,
	}
}
