package router

import (
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"authservice/internal/auth"
	"authservice/internal/errors"
	"authservice/internal/handler"
	"authservice/internal/service"
)

const tokenContextKey = "token"

// AuthGuard verifies the bearer token and loads its active owner onto the context.
func AuthGuard(tokens *auth.JWTService, users service.UserService) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		ContextKey:  tokenContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			return tokens.ValidateToken(raw)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return handler.RespondError(errors.ErrInvalidToken)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(func(c echo.Context) error {
			claims, ok := c.Get(tokenContextKey).(*auth.Claims)
			if !ok {
				return handler.RespondError(errors.ErrInvalidToken)
			}
			id, err := uuid.Parse(claims.ID)
			if err != nil {
				return handler.RespondError(errors.ErrInvalidToken)
			}

			user, err := users.GetActiveUser(c.Request().Context(), id)
			if err != nil {
				return handler.RespondError(err)
			}

			handler.SetCurrentUser(c, user)
			return next(c)
		})
	}
}

// RequireRoles rejects users holding none of the roles. With no roles it only requires a user.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := handler.CurrentUser(c)
			if !ok {
				return handler.RespondError(errors.ErrInvalidToken)
			}
			if len(roles) > 0 && !user.HasRole(roles...) {
				return handler.RespondError(errors.ErrForbidden)
			}
			return next(c)
		}
	}
}
