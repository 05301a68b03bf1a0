package api

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/MichaelVenturi/House-marketplace/internal/adapter/api/handler"
	"github.com/MichaelVenturi/House-marketplace/internal/adapter/api/middleware"
	"github.com/MichaelVenturi/House-marketplace/internal/adapter/api/router"
	"github.com/MichaelVenturi/House-marketplace/internal/infrastructure/ratelimit"
	ws "github.com/MichaelVenturi/House-marketplace/internal/infrastructure/websocket"
	"github.com/MichaelVenturi/House-marketplace/internal/usecase"
)

type ServerDeps struct {
	AuthUseCase    *usecase.AuthUseCase
	UserUseCase    *usecase.UserUseCase
	ListingUseCase *usecase.ListingUseCase
	Sessions       *ws.Manager
	Verifier       middleware.TokenVerifier
	AuthLimiter    *ratelimit.RateLimiter
	MaxImageSize   int64
	AllowedOrigins []string
}

// NewServer wires handlers, middleware and routes onto a fresh echo instance.
func NewServer(deps ServerDeps) *echo.Echo {
	handler.Setup(
		deps.AuthUseCase,
		deps.UserUseCase,
		deps.ListingUseCase,
		deps.Sessions,
		deps.Verifier,
		deps.MaxImageSize,
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLogger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: deps.AllowedOrigins,
	}))

	e.Validator = NewValidator()

	limiter := deps.AuthLimiter
	if limiter == nil {
		limiter = ratelimit.NewPerMinute(5)
	}

	router.Setup(e, middleware.NewAuthMiddleware(deps.Verifier), deps.Verifier, limiter)

	return e
}
