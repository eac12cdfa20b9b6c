package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskpilot/internal/model"
)

func TestSeedService_SeedDemo(t *testing.T) {
	t.Run("fresh database", func(t *testing.T) {
		users, categories := new(MockUserRepository), new(MockCategoryRepository)
		users.On("FindByEmail", mock.Anything, "demo@example.com").Return(nil, gorm.ErrRecordNotFound)
		users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
		categories.On("FindByNormalizedName", mock.Anything, mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
		categories.On("Create", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)

		result, err := NewSeedService(users, categories, nil, zap.NewNop()).SeedDemo(context.Background(), SeedCommand{
			Name:       "Demo User",
			Email:      "Demo@Example.com",
			Password:   "demo1234",
			Categories: DefaultSeedCategories,
		})

		require.NoError(t, err)
		assert.True(t, result.UserCreated)
		assert.Equal(t, 2, result.CategoriesCreated)
		categories.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("second run creates nothing", func(t *testing.T) {
		existing := &model.User{ID: uuid.New(), Email: "demo@example.com"}
		users, categories := new(MockUserRepository), new(MockCategoryRepository)
		users.On("FindByEmail", mock.Anything, "demo@example.com").Return(existing, nil)
		categories.On("FindByNormalizedName", mock.Anything, existing.ID, mock.Anything).Return(&model.Category{}, nil)

		result, err := NewSeedService(users, categories, nil, zap.NewNop()).SeedDemo(context.Background(), SeedCommand{
			Email:      "demo@example.com",
			Password:   "demo1234",
			Categories: DefaultSeedCategories,
		})

		require.NoError(t, err)
		assert.False(t, result.UserCreated)
		assert.Zero(t, result.CategoriesCreated)
		assert.Equal(t, existing.ID.String(), result.UserID)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		_, err := NewSeedService(new(MockUserRepository), new(MockCategoryRepository), nil, zap.NewNop()).
			SeedDemo(context.Background(), SeedCommand{Email: "demo@example.com", Password: "123"})
		assert.Error(t, err)
	})
}

func TestSeedService_InvalidatesCategoryCache(t *testing.T) {
	ctx := context.Background()
	existing := &model.User{ID: uuid.New(), Email: "demo@example.com"}
	store, mr := newTestStore(t)
	require.NoError(t, store.Set(ctx, categoryListKey(existing.ID), []byte("[]"), categoryListTTL))

	users, categories := new(MockUserRepository), new(MockCategoryRepository)
	users.On("FindByEmail", mock.Anything, "demo@example.com").Return(existing, nil)
	categories.On("FindByNormalizedName", mock.Anything, existing.ID, "work").Return(&model.Category{}, nil)
	categories.On("FindByNormalizedName", mock.Anything, existing.ID, "personal").Return(nil, gorm.ErrRecordNotFound)
	categories.On("Create", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)

	result, err := NewSeedService(users, categories, store, zap.NewNop()).SeedDemo(ctx, SeedCommand{
		Email:      "demo@example.com",
		Password:   "demo1234",
		Categories: DefaultSeedCategories,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.CategoriesCreated)
	assert.False(t, mr.Exists(categoryListKey(existing.ID)))
}

func TestSeedService_KeepsCacheWhenNothingCreated(t *testing.T) {
	ctx := context.Background()
	existing := &model.User{ID: uuid.New(), Email: "demo@example.com"}
	store, mr := newTestStore(t)
	require.NoError(t, store.Set(ctx, categoryListKey(existing.ID), []byte("[]"), categoryListTTL))

	users, categories := new(MockUserRepository), new(MockCategoryRepository)
	users.On("FindByEmail", mock.Anything, "demo@example.com").Return(existing, nil)
	categories.On("FindByNormalizedName", mock.Anything, existing.ID, mock.Anything).Return(&model.Category{}, nil)

	_, err := NewSeedService(users, categories, store, zap.NewNop()).SeedDemo(ctx, SeedCommand{
		Email:      "demo@example.com",
		Password:   "demo1234",
		Categories: DefaultSeedCategories,
	})

	require.NoError(t, err)
	assert.True(t, mr.Exists(categoryListKey(existing.ID)))
}
