package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	config "github.com/coffeeshop/backend/server/config"
	types "github.com/coffeeshop/backend/types"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	drinkKeyPrefix = "coffeeshop:drink:"
	drinkIndexKey  = "coffeeshop:drinks"
)

// RedisStorageFactory implements StorageFactory for Redis storage
type RedisStorageFactory struct{}

// SupportedProvider returns the provider name
func (f *RedisStorageFactory) SupportedProvider() string {
	return "redis"
}

// ValidateConfig validates the configuration for Redis storage
func (f *RedisStorageFactory) ValidateConfig(config config.StorageConfig) error {
	if config.URL == "" {
		return fmt.Errorf("URL is required for Redis storage provider")
	}
	return nil
}

// CreateStorage creates a Redis storage instance
func (f *RedisStorageFactory) CreateStorage(ctx context.Context, config config.StorageConfig, logger *zap.Logger) (DrinkStorage, error) {
	opt, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	if dbStr, exists := config.Options["db"]; exists {
		if db, err := strconv.Atoi(dbStr); err == nil {
			opt.DB = db
		}
	}

	if maxRetriesStr, exists := config.Options["max_retries"]; exists {
		if maxRetries, err := strconv.Atoi(maxRetriesStr); err == nil {
			opt.MaxRetries = maxRetries
		}
	}

	if timeoutStr, exists := config.Options["timeout"]; exists {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			opt.DialTimeout = timeout
			opt.ReadTimeout = timeout
			opt.WriteTimeout = timeout
		}
	}

	if username, exists := config.Credentials["username"]; exists {
		opt.Username = username
	}
	if password, exists := config.Credentials["password"]; exists {
		opt.Password = password
	}

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("connected to Redis",
		zap.String("addr", opt.Addr),
		zap.Int("db", opt.DB))

	return &RedisDrinkStorage{
		client: client,
		logger: logger,
	}, nil
}

// RedisDrinkStorage implements DrinkStorage using Redis
type RedisDrinkStorage struct {
	client *redis.Client
	logger *zap.Logger
}

var _ DrinkStorage = (*RedisDrinkStorage)(nil)

// ListDrinks returns all drinks ordered by title
func (s *RedisDrinkStorage) ListDrinks() ([]*types.Drink, error) {
	ctx := context.Background()

	ids, err := s.client.SMembers(ctx, drinkIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list drink ids: %w", err)
	}

	drinks := make([]*types.Drink, 0, len(ids))
	for _, id := range ids {
		drink, err := s.GetDrink(id)
		if errors.Is(err, ErrDrinkNotFound) {
			// Index can lag behind deletes; skip stale entries
			continue
		}
		if err != nil {
			return nil, err
		}
		drinks = append(drinks, drink)
	}

	sort.Slice(drinks, func(i, j int) bool {
		return drinks[i].Title < drinks[j].Title
	})

	return drinks, nil
}

// GetDrink retrieves a single drink by ID
func (s *RedisDrinkStorage) GetDrink(id string) (*types.Drink, error) {
	ctx := context.Background()

	data, err := s.client.Get(ctx, drinkKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDrinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get drink: %w", err)
	}

	var drink types.Drink
	if err := json.Unmarshal([]byte(data), &drink); err != nil {
		return nil, fmt.Errorf("failed to unmarshal drink: %w", err)
	}

	return &drink, nil
}

// CreateDrink stores a new drink and assigns it an ID
func (s *RedisDrinkStorage) CreateDrink(drink *types.Drink) (*types.Drink, error) {
	if err := drink.Validate(); err != nil {
		return nil, err
	}

	ctx := context.Background()

	stored := copyDrink(drink)
	stored.ID = uuid.New().String()

	if err := s.setDrink(ctx, stored); err != nil {
		return nil, err
	}

	if err := s.client.SAdd(ctx, drinkIndexKey, stored.ID).Err(); err != nil {
		return nil, fmt.Errorf("failed to index drink: %w", err)
	}

	s.logger.Debug("drink created",
		zap.String("drink_id", stored.ID),
		zap.String("title", stored.Title))

	return stored, nil
}

// UpdateDrink replaces the stored drink with the given ID
func (s *RedisDrinkStorage) UpdateDrink(drink *types.Drink) (*types.Drink, error) {
	if err := drink.Validate(); err != nil {
		return nil, err
	}

	ctx := context.Background()

	exists, err := s.client.Exists(ctx, drinkKeyPrefix+drink.ID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check drink existence: %w", err)
	}
	if exists == 0 {
		return nil, ErrDrinkNotFound
	}

	stored := copyDrink(drink)
	if err := s.setDrink(ctx, stored); err != nil {
		return nil, err
	}

	s.logger.Debug("drink updated",
		zap.String("drink_id", stored.ID),
		zap.String("title", stored.Title))

	return stored, nil
}

// DeleteDrink removes the drink with the given ID
func (s *RedisDrinkStorage) DeleteDrink(id string) error {
	ctx := context.Background()

	deleted, err := s.client.Del(ctx, drinkKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete drink: %w", err)
	}
	if deleted == 0 {
		return ErrDrinkNotFound
	}

	if err := s.client.SRem(ctx, drinkIndexKey, id).Err(); err != nil {
		return fmt.Errorf("failed to remove drink from index: %w", err)
	}

	s.logger.Debug("drink deleted", zap.String("drink_id", id))

	return nil
}

// Count returns the number of drinks on the menu
func (s *RedisDrinkStorage) Count() (int, error) {
	ctx := context.Background()

	count, err := s.client.SCard(ctx, drinkIndexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count drinks: %w", err)
	}

	return int(count), nil
}

func (s *RedisDrinkStorage) setDrink(ctx context.Context, drink *types.Drink) error {
	data, err := json.Marshal(drink)
	if err != nil {
		return fmt.Errorf("failed to marshal drink: %w", err)
	}

	if err := s.client.Set(ctx, drinkKeyPrefix+drink.ID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store drink: %w", err)
	}

	return nil
}

// init registers the Redis storage provider
func init() {
	RegisterStorageProvider("redis", &RedisStorageFactory{})
}
