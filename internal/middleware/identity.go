package middleware

import "github.com/labstack/echo/v4"

// Context keys set by JWTAuth.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// RoleStaff is the only role issued to operators.
const RoleStaff = "STAFF"

// CurrentUser returns the authenticated operator, or "" for anonymous
// requests.
func CurrentUser(c echo.Context) string {
	s, _ := c.Get(ctxUserID).(string)
	return s
}

func currentUserID(c echo.Context) string {
	if s := CurrentUser(c); s != "" {
		return s
	}
	return "anon"
}
