package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/MichaelVenturi/House-marketplace/internal/adapter/api/handler"
	"github.com/MichaelVenturi/House-marketplace/internal/adapter/api/middleware"
)

// uploadBodyLimit bounds a whole submit: six images plus form fields.
const uploadBodyLimit = "40M"

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, verifier middleware.TokenVerifier) {
	listingHandler := handler.GetListingHandler()

	listings := e.Group("/v1/listings")

	listings.GET("/recommended", listingHandler.Recommended)
	listings.GET("/offers", listingHandler.Offers)
	listings.GET("/category/:type", listingHandler.Category)
	listings.GET("/:id", listingHandler.GetListing, VerifyToken(verifier))

	protected := e.Group("/v1/listings")
	protected.Use(authMiddleware.Authenticate)

	protected.POST("", listingHandler.CreateListing, echomw.BodyLimit(uploadBodyLimit))
	protected.PUT("/:id", listingHandler.UpdateListing, echomw.BodyLimit(uploadBodyLimit))
	protected.DELETE("/:id", listingHandler.DeleteListing)
}
