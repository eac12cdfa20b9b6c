package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskpilot/internal/cache"
	apperrors "taskpilot/internal/errors"
	"taskpilot/internal/model"
	"taskpilot/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes read access to the caller's account.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache cache.Store
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, store cache.Store) UserService {
	return &userService{repo: repo, cache: store}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if s.cache != nil {
		if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
			var cached model.User
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(user); err == nil {
			_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
		}
	}
	return user, nil
}
