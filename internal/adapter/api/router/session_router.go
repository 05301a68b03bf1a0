package router

import (
	"github.com/labstack/echo/v4"

	"github.com/MichaelVenturi/House-marketplace/internal/adapter/api/handler"
)

// SetupSessionRouter registers the session socket. Auth happens inside the
// handler because the token travels in the query string.
func SetupSessionRouter(e *echo.Echo) {
	e.GET("/v1/session/ws", handler.GetSessionHandler().Watch)
}
