package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskpilot/internal/cache"
	"taskpilot/internal/model"
	"taskpilot/internal/repository"
)

// DefaultSeedCategories are created for the demo user.
var DefaultSeedCategories = []string{"Work", "Personal"}

// SeedCommand describes the demo account to ensure.
type SeedCommand struct {
	Name       string
	Email      string
	Password   string
	Categories []string
}

// SeedResult reports what a seed run created.
type SeedResult struct {
	UserID            string `json:"userId"`
	UserCreated       bool   `json:"userCreated"`
	CategoriesCreated int    `json:"categoriesCreated"`
}

// SeedService populates demo data. Running it twice is harmless.
type SeedService interface {
	SeedDemo(ctx context.Context, cmd SeedCommand) (*SeedResult, error)
}

type seedService struct {
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	cache        cache.Store
	log          *zap.Logger
}

// NewSeedService creates a new seed service. The cache may be nil; when set,
// the demo user's cached category list is dropped after new categories land.
func NewSeedService(
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
	store cache.Store,
	log *zap.Logger,
) SeedService {
	return &seedService{userRepo: userRepo, categoryRepo: categoryRepo, cache: store, log: log}
}

func (s *seedService) SeedDemo(ctx context.Context, cmd SeedCommand) (*SeedResult, error) {
	email := normalizeEmail(cmd.Email)
	if email == "" || len(cmd.Password) < 6 {
		return nil, errors.New("seed user needs an email and a password of at least 6 characters")
	}

	result := &SeedResult{}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error checking user %s: %w", email, err)
	}
	if user == nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user = &model.User{
			Name:         strings.TrimSpace(cmd.Name),
			Email:        email,
			PasswordHash: string(hashedPassword),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("error creating user %s: %w", email, err)
		}
		result.UserCreated = true
	}
	result.UserID = user.ID.String()

	for _, name := range cmd.Categories {
		name = strings.TrimSpace(name)
		normalized := strings.ToLower(name)
		if normalized == "" {
			continue
		}

		_, err := s.categoryRepo.FindByNormalizedName(ctx, user.ID, normalized)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return result, fmt.Errorf("error checking category %s: %w", name, err)
		}

		category := &model.Category{Name: name, NormalizedName: normalized, UserID: user.ID}
		if err := s.categoryRepo.Create(ctx, category); err != nil {
			if result.CategoriesCreated > 0 {
				invalidateCategoryList(ctx, s.cache, s.log, user.ID)
			}
			return result, fmt.Errorf("error creating category %s: %w", name, err)
		}
		result.CategoriesCreated++
	}

	if result.CategoriesCreated > 0 {
		invalidateCategoryList(ctx, s.cache, s.log, user.ID)
	}
	return result, nil
}
