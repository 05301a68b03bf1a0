package router

import (
	"github.com/labstack/echo/v4"

	"github.com/MichaelVenturi/House-marketplace/internal/adapter/api/handler"
	"github.com/MichaelVenturi/House-marketplace/internal/adapter/api/middleware"
	"github.com/MichaelVenturi/House-marketplace/internal/infrastructure/ratelimit"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	authHandler := handler.GetAuthHandler()

	public := e.Group("/v1/auth")
	public.Use(middleware.RateLimit(limiter))

	public.POST("/sign-up", authHandler.SignUp)
	public.POST("/sign-in", authHandler.SignIn)
	public.POST("/oauth", authHandler.OAuth)
	public.POST("/forgot-password", authHandler.ForgotPassword)
	public.POST("/refresh", authHandler.RefreshToken)

	protected := e.Group("/v1/auth")
	protected.Use(authMiddleware.Authenticate)

	protected.POST("/sign-out", authHandler.SignOut)
	protected.GET("/me", authHandler.Me)
}
