package utils

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// CursorParams represents cursor pagination parameters
type CursorParams struct {
	Cursor string
}

// GetCursorParams extracts the continuation cursor from the request
func GetCursorParams(c echo.Context) CursorParams {
	return CursorParams{
		Cursor: strings.TrimSpace(c.QueryParam("cursor")),
	}
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header,
// or an empty string when the header is missing or malformed.
func BearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return ""
	}
	return parts[1]
}
