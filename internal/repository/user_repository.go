package repository

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"authservice/internal/model"
)

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UniqueViolationError is returned when an insert collides with a unique index.
type UniqueViolationError struct {
	Detail string
	Err    error
}

func (e *UniqueViolationError) Error() string {
	return e.Detail
}

func (e *UniqueViolationError) Unwrap() error {
	return e.Err
}

// passwordColumn holds the bcrypt hash and is loaded by login lookups only.
const passwordColumn = "password"

// credentialColumns are the only columns loaded for a login lookup.
var credentialColumns = []string{"id", "email", passwordColumn, "full_name", "roles"}

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindCredentialsByEmail(ctx context.Context, email string) (*model.User, error)
	FindAndCount(ctx context.Context, limit, offset int) ([]model.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return classifyError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Omit(passwordColumn).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, classifyError(err)
	}
	return &user, nil
}

// FindCredentialsByEmail loads the fields needed to verify a login, hash included.
func (r *userRepository) FindCredentialsByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := credentialsQuery(r.db.WithContext(ctx), email, &user).Error; err != nil {
		return nil, classifyError(err)
	}
	return &user, nil
}

func credentialsQuery(tx *gorm.DB, email string, dest *model.User) *gorm.DB {
	return tx.Select(credentialColumns).
		Where("email = ?", model.NormalizeEmail(email)).
		First(dest)
}

// FindAndCount returns one page of users plus the count of all users.
func (r *userRepository) FindAndCount(ctx context.Context, limit, offset int) ([]model.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, classifyError(err)
	}

	var users []model.User
	if err := pageQuery(r.db.WithContext(ctx), limit, offset, &users).Error; err != nil {
		return nil, 0, classifyError(err)
	}
	return users, total, nil
}

func pageQuery(tx *gorm.DB, limit, offset int, dest *[]model.User) *gorm.DB {
	return tx.Omit(passwordColumn).Order("created_at, id").Limit(limit).Offset(offset).Find(dest)
}

// classifyError turns driver errors into repository error kinds.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return &UniqueViolationError{Detail: myErr.Message, Err: err}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &UniqueViolationError{Detail: err.Error(), Err: err}
	}
	return err
}
