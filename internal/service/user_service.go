package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/repository"
	"github.com/propstack/acquisition-engine/pkg/apperrors"
)

// UserService registers and resolves users. Authentication lives
// outside the service; callers arrive with an already-resolved id.
type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	taken, err := s.users.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	if taken {
		return nil, apperrors.Duplicate("username " + req.Username + " already exists")
	}

	u := &domain.User{
		Username: req.Username,
		Email:    req.Email,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, apperrors.Persistence(err)
	}

	s.logger.Info("user created",
		zap.Int64("user_id", u.ID),
		zap.String("username", u.Username))
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, getErr(err, "user", id)
	}
	return u, nil
}
