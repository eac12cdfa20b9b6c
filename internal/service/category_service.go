package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskpilot/internal/cache"
	apperrors "taskpilot/internal/errors"
	"taskpilot/internal/model"
	"taskpilot/internal/repository"
)

// categoryListTTL bounds how long a list read that raced a create can
// stay cached.
const categoryListTTL = time.Minute

// CategoryService manages a user's categories.
type CategoryService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Category, error)
	Create(ctx context.Context, ownerID uuid.UUID, cmd CreateCategoryCommand) (*model.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	cache        cache.Store
	log          *zap.Logger
}

// NewCategoryService creates a new category service. The cache may be nil.
func NewCategoryService(categoryRepo repository.CategoryRepository, store cache.Store, log *zap.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		cache:        store,
		log:          log,
	}
}

func categoryListKey(ownerID uuid.UUID) string {
	return "categories:" + ownerID.String()
}

// List returns the owner's categories sorted by name.
func (s *categoryService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Category, error) {
	if categories, ok := s.cachedList(ctx, ownerID); ok {
		return categories, nil
	}

	categories, err := s.categoryRepo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []model.Category{}
	}

	if s.cache != nil {
		if data, err := json.Marshal(categories); err == nil {
			if err := s.cache.Set(ctx, categoryListKey(ownerID), data, categoryListTTL); err != nil {
				s.log.Warn("cache category list", zap.Error(err))
			}
		}
	}
	return categories, nil
}

// Create adds a category. Names are unique per owner, ignoring case.
func (s *categoryService) Create(ctx context.Context, ownerID uuid.UUID, cmd CreateCategoryCommand) (*model.Category, error) {
	name := strings.TrimSpace(cmd.Name)
	normalized := strings.ToLower(name)
	if normalized == "" {
		return nil, apperrors.Validation("Category name is required")
	}
	if utf8.RuneCountInString(name) > model.CategoryNameMaxLength {
		return nil, apperrors.Validation(fmt.Sprintf("Category name must be %d characters or less", model.CategoryNameMaxLength))
	}

	_, err := s.categoryRepo.FindByNormalizedName(ctx, ownerID, normalized)
	if err == nil {
		return nil, apperrors.Conflict("Category already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find category: %w", err)
	}

	category := &model.Category{
		Name:           name,
		NormalizedName: normalized,
		UserID:         ownerID,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("Category already exists")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.invalidate(ctx, ownerID)
	return category, nil
}

func (s *categoryService) cachedList(ctx context.Context, ownerID uuid.UUID) ([]model.Category, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, categoryListKey(ownerID))
	if err != nil || data == nil {
		return nil, false
	}
	var categories []model.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, false
	}
	return categories, true
}

func (s *categoryService) invalidate(ctx context.Context, ownerID uuid.UUID) {
	invalidateCategoryList(ctx, s.cache, s.log, ownerID)
}

// invalidateCategoryList drops the cached list after any category write.
func invalidateCategoryList(ctx context.Context, store cache.Store, log *zap.Logger, ownerID uuid.UUID) {
	if store == nil {
		return
	}
	if err := store.Delete(ctx, categoryListKey(ownerID)); err != nil {
		log.Warn("invalidate category cache", zap.Error(err), zap.String("user_id", ownerID.String()))
	}
}
