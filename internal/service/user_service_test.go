package service

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"authservice/internal/cache"
	apperrors "authservice/internal/errors"
	"authservice/internal/model"
	"authservice/internal/repository"
)

func TestUserService_GetActiveUser(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name          string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name: "active user",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, id).Return(&model.User{ID: id, FullName: "Active", IsActive: true, PasswordHash: "x"}, nil)
			},
		},
		{
			name: "inactive user",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, id).Return(&model.User{ID: id, IsActive: false}, nil)
			},
			expectedError: apperrors.ErrUserInactive,
		},
		{
			name: "unknown user",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, id).Return(nil, repository.ErrUserNotFound)
			},
			expectedError: apperrors.ErrInvalidToken,
		},
		{
			name: "store failure",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, id).Return(nil, errors.New("too many connections"))
			},
			expectedError: apperrors.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)
			svc := NewUserService(mockRepo, nil, time.Minute, nil)

			user, err := svc.GetActiveUser(context.Background(), id)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, id, user.ID)
				assert.Empty(t, user.PasswordHash)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

// memoryRedis answers GET and SET in process so no redis server is needed.
type memoryRedis struct {
	mu       sync.Mutex
	data     map[string]string
	commands []string
}

func newMemoryCache() (*cache.Client, *memoryRedis) {
	store := &memoryRedis{data: map[string]string{}}
	rdb := redis.NewClient(&redis.Options{Addr: "memory:0"})
	rdb.AddHook(store)
	return cache.NewFromRedis(rdb), store
}

func (m *memoryRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("memory redis does not dial")
	}
}

func (m *memoryRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.commands = append(m.commands, cmd.Name())

		args := cmd.Args()
		switch c := cmd.(type) {
		case *redis.StringCmd:
			v, ok := m.data[args[1].(string)]
			if !ok {
				return redis.Nil
			}
			c.SetVal(v)
		case *redis.StatusCmd:
			switch v := args[2].(type) {
			case []byte:
				m.data[args[1].(string)] = string(v)
			case string:
				m.data[args[1].(string)] = v
			}
			c.SetVal("OK")
		}
		return nil
	}
}

func (m *memoryRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (m *memoryRedis) seen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.commands...)
}

func TestUserService_GetActiveUserCachesWithinTTL(t *testing.T) {
	id := uuid.New()
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, id).Return(&model.User{ID: id, FullName: "Cached", IsActive: true}, nil).Once()

	c, store := newMemoryCache()
	svc := NewUserService(mockRepo, c, time.Minute, nil)

	first, err := svc.GetActiveUser(context.Background(), id)
	require.NoError(t, err)
	second, err := svc.GetActiveUser(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Cached", second.FullName)
	assert.Equal(t, []string{"get", "set", "get"}, store.seen())
	mockRepo.AssertExpectations(t)
}

func TestUserService_ZeroTTLAlwaysReadsStore(t *testing.T) {
	id := uuid.New()
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, id).Return(&model.User{ID: id, IsActive: true}, nil).Once()
	mockRepo.On("FindByID", mock.Anything, id).Return(&model.User{ID: id, IsActive: false}, nil).Once()

	c, store := newMemoryCache()
	svc := NewUserService(mockRepo, c, 0, nil)

	_, err := svc.GetActiveUser(context.Background(), id)
	require.NoError(t, err)

	// deactivation is seen on the very next request
	_, err = svc.GetActiveUser(context.Background(), id)
	assert.Equal(t, apperrors.ErrUserInactive, err)
	assert.Empty(t, store.seen())
	mockRepo.AssertExpectations(t)
}
