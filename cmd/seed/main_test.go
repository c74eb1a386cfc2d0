package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "authservice/internal/errors"
	"authservice/internal/model"
	"authservice/internal/service"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Create(ctx context.Context, input service.CreateUserInput) (*service.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *mockAuthService) Login(context.Context, string, string) (*service.AuthResult, error) {
	return nil, nil
}

func (m *mockAuthService) FindAll(context.Context, service.Pagination) (*service.UserPage, error) {
	return nil, nil
}

func (m *mockAuthService) CheckAuthStatus(context.Context, *model.User) (*service.AuthResult, error) {
	return nil, nil
}

func TestSeed(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Create", mock.Anything, seedUsers[0]).Return(&service.AuthResult{}, nil)
	svc.On("Create", mock.Anything, seedUsers[1]).Return(nil, &apperrors.DuplicateEntryError{Detail: "exists"})
	svc.On("Create", mock.Anything, seedUsers[2]).Return(&service.AuthResult{}, nil)

	created, skipped, err := seed(context.Background(), svc, seedUsers)

	assert.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 1, skipped)
	svc.AssertExpectations(t)
}

func TestSeed_StopsOnInternalError(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Create", mock.Anything, seedUsers[0]).Return(nil, apperrors.ErrInternal)

	created, _, err := seed(context.Background(), svc, seedUsers)

	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.Equal(t, 0, created)
}
