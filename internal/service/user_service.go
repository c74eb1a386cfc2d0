package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"authservice/internal/cache"
	apperrors "authservice/internal/errors"
	"authservice/internal/model"
	"authservice/internal/repository"
)

// UserService resolves the owner of a verified token.
type UserService interface {
	GetActiveUser(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type userService struct {
	repo   repository.UserRepository
	cache  *cache.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewUserService builds a UserService with repository and cache. A nil cache or a
// non-positive ttl sends every lookup to the repository. Cached entries are not
// invalidated, so deactivation and role changes take effect within ttl.
func NewUserService(repo repository.UserRepository, cache *cache.Client, ttl time.Duration, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		cache = nil
	}
	return &userService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// GetActiveUser loads a user by id, rejecting unknown and deactivated accounts.
func (s *userService) GetActiveUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if !s.cache.GetJSON(ctx, s.cacheKey(id), &user) {
		found, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, apperrors.ErrInvalidToken
			}
			s.logger.ErrorContext(ctx, "resolve token owner failed",
				slog.String("user_id", id.String()),
				slog.Any("error", err),
			)
			return nil, apperrors.ErrInternal
		}
		user = *found
		user.PasswordHash = ""
		s.cache.SetJSON(ctx, s.cacheKey(id), user, s.ttl)
	}

	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}
	return &user, nil
}
