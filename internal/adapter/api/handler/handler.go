package handler

import (
	"github.com/MichaelVenturi/House-marketplace/internal/adapter/api/middleware"
	ws "github.com/MichaelVenturi/House-marketplace/internal/infrastructure/websocket"
	"github.com/MichaelVenturi/House-marketplace/internal/usecase"
)

var (
	authHandler    *AuthHandler
	userHandler    *UserHandler
	listingHandler *ListingHandler
	sessionHandler *SessionHandler
	healthHandler  *HealthHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	listingUseCase *usecase.ListingUseCase,
	sessions *ws.Manager,
	verifier middleware.TokenVerifier,
	maxImageSize int64,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase, listingUseCase)
	listingHandler = NewListingHandler(listingUseCase, maxImageSize)
	sessionHandler = NewSessionHandler(sessions, verifier, authUseCase)
	healthHandler = NewHealthHandler()
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetSessionHandler() *SessionHandler {
	return sessionHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}
