package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"authservice/internal/auth"
	apperrors "authservice/internal/errors"
	"authservice/internal/metrics"
	"authservice/internal/model"
	"authservice/internal/repository"
)

const (
	bcryptCost = 10

	defaultPageLimit = 10
)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// loadDummyHash returns a cost-matched hash compared against when the email is unknown.
func loadDummyHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unknown-account-placeholder"), bcryptCost)
	})
	return dummyHash
}

// CreateUserInput is the registration data accepted by Create.
type CreateUserInput struct {
	Email    string
	Password string
	FullName string
	Roles    []string
}

// Pagination selects a page of users. A zero Limit means the default page size.
type Pagination struct {
	Limit  int
	Offset int
}

// AuthResult is a user's public fields together with a freshly issued token.
type AuthResult struct {
	User  model.User
	Token string
}

// UserPage is one page of users plus the total number of users.
type UserPage struct {
	Users []model.User
	Total int64
}

// AuthService handles authentication operations.
type AuthService interface {
	Create(ctx context.Context, input CreateUserInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	FindAll(ctx context.Context, page Pagination) (*UserPage, error)
	CheckAuthStatus(ctx context.Context, user *model.User) (*AuthResult, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   auth.TokenIssuer
	logger   *slog.Logger
	metrics  *metrics.Metrics
	compare  func(hash, password []byte) error
}

// NewAuthService creates a new authentication service. m may be nil.
func NewAuthService(userRepo repository.UserRepository, tokens auth.TokenIssuer, logger *slog.Logger, m *metrics.Metrics) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	loadDummyHash()
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
		metrics:  m,
		compare:  bcrypt.CompareHashAndPassword,
	}
}

// Create registers a user with a hashed password and returns it with a token.
func (s *authService) Create(ctx context.Context, input CreateUserInput) (*AuthResult, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, &apperrors.ValidationError{Message: "password is too long"}
		}
		return nil, s.internalError(ctx, "create", fmt.Errorf("hash password: %w", err))
	}

	roles := input.Roles
	if len(roles) == 0 {
		roles = []string{model.RoleUser}
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        model.NormalizeEmail(input.Email),
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: string(hashedPassword),
		Roles:        roles,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, s.handleDBError(ctx, "create", err)
	}

	user.PasswordHash = ""

	token, err := s.getToken(ctx, "create", auth.Payload{ID: user.ID.String(), FullName: user.FullName})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveAuth("create", "success")
	return &AuthResult{User: *user, Token: token}, nil
}

// Login verifies credentials and returns the user with a token carrying its roles.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// same bcrypt cost as a wrong password, so response time does not reveal the email
			_ = s.compare(loadDummyHash(), []byte(password))
			s.metrics.ObserveAuth("login", "invalid_credentials")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, s.internalError(ctx, "login", fmt.Errorf("find user by email: %w", err))
	}

	if err := s.compare([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.metrics.ObserveAuth("login", "invalid_credentials")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.getToken(ctx, "login", auth.Payload{ID: user.ID.String(), FullName: user.FullName, Roles: user.Roles})
	if err != nil {
		return nil, err
	}

	public := *user
	public.PasswordHash = ""

	s.metrics.ObserveAuth("login", "success")
	return &AuthResult{User: public, Token: token}, nil
}

// FindAll returns one page of users and the total user count.
func (s *authService) FindAll(ctx context.Context, page Pagination) (*UserPage, error) {
	limit := page.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}

	users, total, err := s.userRepo.FindAndCount(ctx, limit, offset)
	if err != nil {
		return nil, s.internalError(ctx, "find_all", fmt.Errorf("find and count users: %w", err))
	}

	for i := range users {
		users[i].PasswordHash = ""
	}

	s.metrics.ObserveAuth("find_all", "success")
	return &UserPage{Users: users, Total: total}, nil
}

// CheckAuthStatus re-issues a token for an already authenticated user without touching the store.
func (s *authService) CheckAuthStatus(ctx context.Context, user *model.User) (*AuthResult, error) {
	if user == nil {
		return nil, apperrors.ErrInvalidToken
	}

	token, err := s.getToken(ctx, "check_status", auth.Payload{ID: user.ID.String(), FullName: user.FullName})
	if err != nil {
		return nil, err
	}

	public := *user
	public.PasswordHash = ""

	s.metrics.ObserveAuth("check_status", "success")
	return &AuthResult{User: public, Token: token}, nil
}

func (s *authService) getToken(ctx context.Context, op string, payload auth.Payload) (string, error) {
	token, err := s.tokens.Sign(payload)
	if err != nil {
		return "", s.internalError(ctx, op, fmt.Errorf("sign token: %w", err))
	}
	return token, nil
}

// handleDBError maps a persistence failure to DuplicateEntry or the opaque internal error.
func (s *authService) handleDBError(ctx context.Context, op string, err error) error {
	var unique *repository.UniqueViolationError
	if errors.As(err, &unique) {
		s.metrics.ObserveAuth(op, "duplicate")
		return &apperrors.DuplicateEntryError{Detail: unique.Detail}
	}
	return s.internalError(ctx, op, err)
}

func (s *authService) internalError(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "auth operation failed",
		slog.String("operation", op),
		slog.Any("error", err),
	)
	s.metrics.ObserveAuth(op, "error")
	return apperrors.ErrInternal
}
