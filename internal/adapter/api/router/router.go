package router

import (
	"github.com/labstack/echo/v4"

	"github.com/MichaelVenturi/House-marketplace/internal/adapter/api/middleware"
	"github.com/MichaelVenturi/House-marketplace/internal/infrastructure/ratelimit"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, verifier middleware.TokenVerifier, authLimiter *ratelimit.RateLimiter) {
	SetupAuthRouter(e, authMiddleware, authLimiter)
	SetupUserRouter(e, authMiddleware)
	SetupListingRouter(e, authMiddleware, verifier)
	SetupSessionRouter(e)
	SetupHealthRouter(e)
}
