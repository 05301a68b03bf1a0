package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/MichaelVenturi/House-marketplace/internal/adapter/api/middleware"
	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
	"github.com/MichaelVenturi/House-marketplace/internal/usecase"
	"github.com/MichaelVenturi/House-marketplace/pkg/response"
)

type UserHandler struct {
	userUseCase    *usecase.UserUseCase
	listingUseCase *usecase.ListingUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase, listingUseCase *usecase.ListingUseCase) *UserHandler {
	return &UserHandler{
		userUseCase:    userUseCase,
		listingUseCase: listingUseCase,
	}
}

type updateProfileRequest struct {
	Name  string `json:"name" validate:"omitempty,min=1,max=64"`
	Email string `json:"email" validate:"omitempty,email"`
}

type updateProfileResponse struct {
	Profile *entity.UserProfile `json:"profile"`
	Changed bool                `json:"changed"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.userUseCase.GetUserProfile(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	profile, changed, err := h.userUseCase.UpdateProfile(c.Request().Context(), middleware.UID(c), usecase.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, updateProfileResponse{Profile: profile, Changed: changed})
}

// MyListings returns every listing of the signed-in user, newest first.
func (h *UserHandler) MyListings(c echo.Context) error {
	listings, err := h.listingUseCase.ListByOwner(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, "")
}

func (h *UserHandler) ContactLandlord(c echo.Context) error {
	contact, err := h.userUseCase.ContactLandlord(
		c.Request().Context(),
		c.Param("id"),
		c.QueryParam("listingName"),
		c.QueryParam("message"),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, contact)
}
