package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskpilot/internal/model"
)

// CategoryRepository defines category persistence operations. Every read is
// scoped to the owning user.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Category, error)
	FindByNormalizedName(ctx context.Context, userID uuid.UUID, normalizedName string) (*model.Category, error)
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*model.Category, error)
	FindByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create creates a new category. A duplicate (user, normalized name) pair
// fails with gorm.ErrDuplicatedKey.
func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// ListByUser lists a user's categories sorted by display name.
func (r *categoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByNormalizedName(ctx context.Context, userID uuid.UUID, normalizedName string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND normalized_name = ?", userID, normalizedName).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByIDsForUser loads the given categories in one query; ids belonging
// to other users are silently skipped.
func (r *categoryRepository) FindByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]model.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []model.Category
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
