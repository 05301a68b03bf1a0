package handler

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"github.com/MichaelVenturi/House-marketplace/internal/adapter/api/middleware"
	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
	"github.com/MichaelVenturi/House-marketplace/internal/usecase"
	"github.com/MichaelVenturi/House-marketplace/pkg/errors"
	"github.com/MichaelVenturi/House-marketplace/pkg/response"
	"github.com/MichaelVenturi/House-marketplace/pkg/utils"
)

var allowedImageTypes = []string{"image/jpeg", "image/png"}

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
	maxImageSize   int64
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase, maxImageSize int64) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
		maxImageSize:   maxImageSize,
	}
}

// listingRequest is the multipart create/edit form. Images arrive as
// "images" (or "images[]") file parts.
type listingRequest struct {
	Type            string  `form:"type" validate:"required,oneof=rent sale"`
	Name            string  `form:"name" validate:"required,min=10,max=32"`
	Bedrooms        int     `form:"bedrooms" validate:"min=1,max=50"`
	Bathrooms       int     `form:"bathrooms" validate:"min=1,max=50"`
	Parking         bool    `form:"parking"`
	Furnished       bool    `form:"furnished"`
	Location        string  `form:"location" validate:"required"`
	Offer           bool    `form:"offer"`
	RegularPrice    int64   `form:"regularPrice" validate:"min=50,max=750000000"`
	DiscountedPrice int64   `form:"discountedPrice" validate:"omitempty,min=50,max=750000000"`
	Latitude        float64 `form:"latitude"`
	Longitude       float64 `form:"longitude"`
}

func (h *ListingHandler) Recommended(c echo.Context) error {
	listings, err := h.listingUseCase.ListRecommended(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listings)
}

func (h *ListingHandler) Offers(c echo.Context) error {
	params := utils.GetCursorParams(c)

	page, err := h.listingUseCase.ListOffers(c.Request().Context(), params.Cursor)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, page.Listings, page.Cursor)
}

func (h *ListingHandler) Category(c echo.Context) error {
	params := utils.GetCursorParams(c)

	page, err := h.listingUseCase.ListByCategory(c.Request().Context(), entity.ListingType(c.Param("type")), params.Cursor)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, page.Listings, page.Cursor)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	detail, err := h.listingUseCase.GetListing(c.Request().Context(), c.Param("id"), middleware.UID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, detail)
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	form, err := h.bindForm(c)
	if err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.CreateListing(c.Request().Context(), middleware.UID(c), form)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	form, err := h.bindForm(c)
	if err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.UpdateListing(c.Request().Context(), middleware.UID(c), c.Param("id"), form)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

// DeleteListing requires ?confirm=true.
func (h *ListingHandler) DeleteListing(c echo.Context) error {
	if c.QueryParam("confirm") != "true" {
		return response.Error(c, errors.BadRequest("Deletion must be confirmed with confirm=true", nil))
	}

	id := c.Param("id")
	if err := h.listingUseCase.DeleteListing(c.Request().Context(), middleware.UID(c), id); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"id": id, "message": "Successfully deleted listing"})
}

func (h *ListingHandler) bindForm(c echo.Context) (entity.ListingForm, error) {
	var req listingRequest
	if err := c.Bind(&req); err != nil {
		return entity.ListingForm{}, err
	}
	if err := c.Validate(&req); err != nil {
		return entity.ListingForm{}, err
	}

	images, err := h.readImages(c)
	if err != nil {
		return entity.ListingForm{}, err
	}

	return entity.ListingForm{
		Name:            req.Name,
		Location:        req.Location,
		Offer:           req.Offer,
		RegularPrice:    req.RegularPrice,
		DiscountedPrice: req.DiscountedPrice,
		Images:          images,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		Furnished:       req.Furnished,
		Parking:         req.Parking,
		Lat:             req.Latitude,
		Lng:             req.Longitude,
		Type:            entity.ListingType(req.Type),
	}, nil
}

func (h *ListingHandler) readImages(c echo.Context) ([]entity.ListingImage, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.BadRequest("Expected a multipart form", err)
	}

	files := append(form.File["images"], form.File["images[]"]...)
	if len(files) > entity.MaxListingImages {
		return nil, errors.Validation("Max 6 images")
	}

	images := make([]entity.ListingImage, 0, len(files))
	for _, fh := range files {
		if h.maxImageSize > 0 && fh.Size > h.maxImageSize {
			return nil, errors.Validation(fmt.Sprintf("Image %s must be smaller than %d MB", fh.Filename, h.maxImageSize/(1<<20)))
		}

		contentType, err := sniff(fh)
		if err != nil {
			return nil, errors.BadRequest("Could not read image", err)
		}
		if contentType == "" {
			return nil, errors.Validation("Only jpg and png images are allowed")
		}

		fh := fh
		images = append(images, entity.ListingImage{
			Filename:    fh.Filename,
			ContentType: contentType,
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}

	return images, nil
}

// sniff returns the image MIME type detected from the content, or "" when it
// is not an accepted type.
func sniff(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	for _, allowed := range allowedImageTypes {
		if mtype.Is(allowed) {
			return allowed, nil
		}
	}
	return "", nil
}
