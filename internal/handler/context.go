package handler

import (
	"github.com/labstack/echo/v4"

	"authservice/internal/model"
)

// authUserKey is where the auth guard stores the resolved user.
const authUserKey = "authUser"

// SetCurrentUser stores the authenticated user on the request context.
func SetCurrentUser(c echo.Context, user *model.User) {
	c.Set(authUserKey, user)
}

// CurrentUser returns the user stored by the auth guard.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(authUserKey).(*model.User)
	return user, ok && user != nil
}
