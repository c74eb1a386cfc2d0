package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"authservice/internal/errors"
	"authservice/internal/model"
	"authservice/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6,max=50,password"`
	FullName string   `json:"fullName" validate:"required,min=1"`
	Roles    []string `json:"roles" validate:"omitempty,dive,oneof=admin super-user user"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=50,password"`
}

// PaginationQuery represents the paging query parameters of the users listing.
type PaginationQuery struct {
	Limit  int `query:"limit" validate:"omitempty,min=1"`
	Offset int `query:"offset" validate:"min=0"`
}

// UserResponse is the public view of a user. Fields the lookup did not load are omitted.
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"fullName"`
	Roles     []string   `json:"roles"`
	IsActive  *bool      `json:"isActive,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// AuthResponse is a user's public fields plus a bearer token.
type AuthResponse struct {
	UserResponse
	Token string `json:"token"`
}

// UsersResponse is one page of users with the total count.
type UsersResponse struct {
	Users []model.User `json:"users"`
	Total int64        `json:"total"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Create(c.Request().Context(), service.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Roles:    req.Roles,
	})
	if err != nil {
		return RespondError(err)
	}

	return c.JSON(http.StatusCreated, toAuthResponse(result))
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return RespondError(err)
	}

	// login loads credentials only, so status and timestamps are left out
	return c.JSON(http.StatusOK, AuthResponse{
		UserResponse: credentialsView(result.User),
		Token:        result.Token,
	})
}

// ListUsers godoc
// @Summary List users
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {object} UsersResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /auth/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	var q PaginationQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	page, err := h.authService.FindAll(c.Request().Context(), service.Pagination{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return RespondError(err)
	}

	users := page.Users
	if users == nil {
		users = []model.User{}
	}
	return c.JSON(http.StatusOK, UsersResponse{Users: users, Total: page.Total})
}

// CheckStatus godoc
// @Summary Re-issue a token for the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AuthResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/check-status [get]
func (h *AuthHandler) CheckStatus(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return RespondError(errors.ErrInvalidToken)
	}

	result, err := h.authService.CheckAuthStatus(c.Request().Context(), user)
	if err != nil {
		return RespondError(err)
	}

	return c.JSON(http.StatusOK, toAuthResponse(result))
}

func toAuthResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{UserResponse: fullView(result.User), Token: result.Token}
}

func credentialsView(u model.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Roles:    u.Roles,
	}
}

func fullView(u model.User) UserResponse {
	view := credentialsView(u)
	view.IsActive = &u.IsActive
	view.CreatedAt = &u.CreatedAt
	view.UpdatedAt = &u.UpdatedAt
	return view
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request",
			Code:  "VALIDATION_ERROR",
		})
	}
	if err := c.Validate(req); err != nil {
		return RespondError(err)
	}
	return nil
}

// RespondError converts a domain error into an echo HTTP error with an ErrorResponse body.
func RespondError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
