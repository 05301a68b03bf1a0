package router

import (
	"github.com/labstack/echo/v4"

	"github.com/MichaelVenturi/House-marketplace/internal/adapter/api/middleware"
	"github.com/MichaelVenturi/House-marketplace/pkg/utils"
)

// VerifyToken attaches the caller's uid when a valid bearer token is present
// and lets anonymous requests through unchanged.
func VerifyToken(verifier middleware.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := utils.BearerToken(c)
			if token == "" {
				return next(c)
			}

			uid, err := verifier.VerifyToken(c.Request().Context(), token)
			if err != nil {
				return next(c)
			}

			c.Set("uid", uid)
			return next(c)
		}
	}
}
