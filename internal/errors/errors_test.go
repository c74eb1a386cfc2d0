package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuplicateEntryError(t *testing.T) {
	err := fmt.Errorf("create user: %w", &DuplicateEntryError{Detail: "Duplicate entry 'a@b.io' for key 'users.idx_users_email'"})

	assert.True(t, errors.Is(err, ErrDuplicateEntry))
	assert.Equal(t, "duplicate entry", (&DuplicateEntryError{}).Error())
}

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "duplicate entry keeps database detail",
			err:        &DuplicateEntryError{Detail: "Duplicate entry 'x' for key 'email'"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "DUPLICATE_ENTRY",
			wantMsg:    "Duplicate entry 'x' for key 'email'",
		},
		{
			name:       "validation",
			err:        &ValidationError{Message: "email is required"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
			wantMsg:    "email is required",
		},
		{
			name:       "invalid credentials",
			err:        ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_CREDENTIALS",
			wantMsg:    "invalid credentials",
		},
		{
			name:       "inactive user",
			err:        fmt.Errorf("guard: %w", ErrUserInactive),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "USER_INACTIVE",
			wantMsg:    ErrUserInactive.Error(),
		},
		{
			name:       "forbidden",
			err:        ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
			wantMsg:    ErrForbidden.Error(),
		},
		{
			name:       "unknown error is hidden",
			err:        errors.New("dial tcp 10.0.0.3:3306: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
			wantMsg:    ErrInternal.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)

			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
			assert.Equal(t, ErrorResponse{Error: tt.wantMsg, Code: tt.wantCode}, httpErr.ToErrorResponse())
		})
	}
}
