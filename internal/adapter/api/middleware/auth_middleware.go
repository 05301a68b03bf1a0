package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/MichaelVenturi/House-marketplace/pkg/errors"
	"github.com/MichaelVenturi/House-marketplace/pkg/logger"
	"github.com/MichaelVenturi/House-marketplace/pkg/response"
	"github.com/MichaelVenturi/House-marketplace/pkg/utils"
)

const signInPath = "/sign-in"

// TokenVerifier checks a Firebase ID token and returns its uid.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Authenticate rejects the request unless it carries a valid bearer token.
// Rejections point the client at the sign-in screen.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil).WithRedirect(signInPath))
		}

		idToken := utils.BearerToken(c)
		if idToken == "" {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil).WithRedirect(signInPath))
		}

		uid, err := m.verifier.VerifyToken(c.Request().Context(), idToken)
		if err != nil {
			logger.Debug("Token verification failed: %v", err)
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err).WithRedirect(signInPath))
		}

		c.Set("uid", uid)
		return next(c)
	}
}

// UID returns the authenticated user id, or "" on public routes.
func UID(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}
