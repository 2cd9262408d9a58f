package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/pkg/apperrors"
)

func TestUserCreate_DuplicateUsernameRejected(t *testing.T) {
	users := &mockUserRepo{}
	svc := NewUserService(users, zap.NewNop())

	users.On("UsernameExists", mock.Anything, "ravi").Return(true, nil)

	_, err := svc.Create(context.Background(), &domain.CreateUserRequest{
		Username: "ravi",
		Email:    "ravi@example.com",
	})

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateField)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserCreate_Succeeds(t *testing.T) {
	users := &mockUserRepo{}
	svc := NewUserService(users, zap.NewNop())

	users.On("UsernameExists", mock.Anything, "ravi").Return(false, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Username == "ravi" && u.Email == "ravi@example.com"
	})).Return(nil)

	u, err := svc.Create(context.Background(), &domain.CreateUserRequest{
		Username: "ravi",
		Email:    "ravi@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, "ravi", u.Username)
	users.AssertExpectations(t)
}

func TestUserGet_NotFound(t *testing.T) {
	users := &mockUserRepo{}
	svc := NewUserService(users, zap.NewNop())

	users.On("GetByID", mock.Anything, int64(9)).Return(nil, sql.ErrNoRows)

	_, err := svc.Get(context.Background(), 9)

	assert.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
