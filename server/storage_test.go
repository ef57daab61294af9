package server_test

import (
	"testing"

	server "github.com/coffeeshop/backend/server"
	config "github.com/coffeeshop/backend/server/config"
	types "github.com/coffeeshop/backend/types"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
	zap "go.uber.org/zap"
)

func newTestDrink(title string) *types.Drink {
	return &types.Drink{
		Title: title,
		Recipe: []types.Ingredient{
			{Name: "espresso", Color: "brown", Parts: 1},
			{Name: "milk", Color: "white", Parts: 3},
		},
	}
}

func TestInMemoryDrinkStorage_CRUD(t *testing.T) {
	logger := zap.NewNop()

	t.Run("create assigns an id", func(t *testing.T) {
		storage := server.NewInMemoryDrinkStorage(logger)

		created, err := storage.CreateDrink(newTestDrink("Latte"))
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Latte", created.Title)

		count, err := storage.Count()
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("create rejects invalid drinks", func(t *testing.T) {
		storage := server.NewInMemoryDrinkStorage(logger)

		_, err := storage.CreateDrink(&types.Drink{Title: "No Recipe"})
		assert.Error(t, err)

		count, err := storage.Count()
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("get returns the stored drink", func(t *testing.T) {
		storage := server.NewInMemoryDrinkStorage(logger)

		created, err := storage.CreateDrink(newTestDrink("Mocha"))
		require.NoError(t, err)

		got, err := storage.GetDrink(created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("get unknown id", func(t *testing.T) {
		storage := server.NewInMemoryDrinkStorage(logger)

		_, err := storage.GetDrink("missing")
		assert.ErrorIs(t, err, server.ErrDrinkNotFound)
	})

	t.Run("returned drinks are copies", func(t *testing.T) {
		storage := server.NewInMemoryDrinkStorage(logger)

		created, err := storage.CreateDrink(newTestDrink("Cappuccino"))
		require.NoError(t, err)

		created.Recipe[0].Name = "tampered"

		got, err := storage.GetDrink(created.ID)
		require.NoError(t, err)
		assert.Equal(t, "espresso", got.Recipe[0].Name)
	})

	t.Run("update replaces the stored drink", func(t *testing.T) {
		storage := server.NewInMemoryDrinkStorage(logger)

		created, err := storage.CreateDrink(newTestDrink("Americano"))
		require.NoError(t, err)

		created.Title = "Long Black"
		created.Recipe = []types.Ingredient{{Name: "espresso", Color: "brown", Parts: 2}}

		updated, err := storage.UpdateDrink(created)
		require.NoError(t, err)
		assert.Equal(t, "Long Black", updated.Title)
		require.Len(t, updated.Recipe, 1)

		got, err := storage.GetDrink(created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Long Black", got.Title)
	})

	t.Run("update unknown id", func(t *testing.T) {
		storage := server.NewInMemoryDrinkStorage(logger)

		drink := newTestDrink("Ghost")
		drink.ID = "missing"

		_, err := storage.UpdateDrink(drink)
		assert.ErrorIs(t, err, server.ErrDrinkNotFound)
	})

	t.Run("delete removes the drink", func(t *testing.T) {
		storage := server.NewInMemoryDrinkStorage(logger)

		created, err := storage.CreateDrink(newTestDrink("Macchiato"))
		require.NoError(t, err)

		require.NoError(t, storage.DeleteDrink(created.ID))

		_, err = storage.GetDrink(created.ID)
		assert.ErrorIs(t, err, server.ErrDrinkNotFound)

		assert.ErrorIs(t, storage.DeleteDrink(created.ID), server.ErrDrinkNotFound)
	})

	t.Run("list is ordered by title", func(t *testing.T) {
		storage := server.NewInMemoryDrinkStorage(logger)

		for _, title := range []string{"Mocha", "Americano", "Latte"} {
			_, err := storage.CreateDrink(newTestDrink(title))
			require.NoError(t, err)
		}

		drinks, err := storage.ListDrinks()
		require.NoError(t, err)
		require.Len(t, drinks, 3)
		assert.Equal(t, "Americano", drinks[0].Title)
		assert.Equal(t, "Latte", drinks[1].Title)
		assert.Equal(t, "Mocha", drinks[2].Title)
	})
}

func TestStorageFactoryRegistry(t *testing.T) {
	t.Run("memory provider is registered", func(t *testing.T) {
		factory, err := server.GetStorageProvider("memory")
		require.NoError(t, err)
		assert.Equal(t, "memory", factory.SupportedProvider())
	})

	t.Run("redis provider is registered", func(t *testing.T) {
		factory, err := server.GetStorageProvider("redis")
		require.NoError(t, err)
		assert.Equal(t, "redis", factory.SupportedProvider())
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := server.GetStorageProvider("postgres")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported storage provider")
	})

	t.Run("redis config requires a URL", func(t *testing.T) {
		factory, err := server.GetStorageProvider("redis")
		require.NoError(t, err)

		err = factory.ValidateConfig(config.StorageConfig{Provider: "redis"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "URL is required")
	})

	t.Run("supported providers are listed", func(t *testing.T) {
		providers := server.GetSupportedProviders()
		assert.Contains(t, providers, "memory")
		assert.Contains(t, providers, "redis")
	})
}
