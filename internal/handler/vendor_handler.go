package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "legumes/internal/errors"
	"legumes/internal/model"
	"legumes/internal/service"
)

// VendorHandler serves the vendor directory.
type VendorHandler struct {
	vendors service.VendorService
	photos  service.PhotoService
}

// NewVendorHandler creates a new vendor handler.
func NewVendorHandler(vendors service.VendorService, photos service.PhotoService) *VendorHandler {
	return &VendorHandler{vendors: vendors, photos: photos}
}

// VendorListResponse lists vendors joined with their user records.
type VendorListResponse struct {
	Success bool                  `json:"success"`
	Vendors []model.VendorListing `json:"vendors"`
}

// VendorResponse carries a single vendor profile.
type VendorResponse struct {
	Success bool                 `json:"success"`
	Vendor  *model.VendorProfile `json:"vendor"`
}

// MessageResponse is a plain success acknowledgement.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PhotoUploadRequest optionally pins the content type the upload must use.
type PhotoUploadRequest struct {
	ContentType string `json:"content_type" validate:"omitempty,oneof=image/jpeg image/png image/webp"`
}

// PhotoUploadResponse carries the presigned upload.
type PhotoUploadResponse struct {
	Success bool                 `json:"success"`
	Upload  *service.PhotoUpload `json:"upload"`
}

// List godoc
// @Summary List vendors
// @Tags vendors
// @Produce json
// @Success 200 {object} VendorListResponse
// @Failure 500 {object} errors.FailureResponse
// @Router /vendor/list [get]
func (h *VendorHandler) List(c echo.Context) error {
	vendors, err := h.vendors.List(c.Request().Context())
	if err != nil {
		return failure(err)
	}
	return c.JSON(http.StatusOK, VendorListResponse{Success: true, Vendors: vendors})
}

// Update godoc
// @Summary Update a vendor profile
// @Tags vendors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vendor ID"
// @Param patch body model.VendorPatch true "Fields to change"
// @Success 200 {object} VendorResponse
// @Failure 400 {object} errors.FailureResponse
// @Failure 401 {object} errors.FailureResponse
// @Failure 403 {object} errors.FailureResponse
// @Failure 404 {object} errors.FailureResponse
// @Router /vendor/update/{id} [put]
func (h *VendorHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest("invalid vendor id")
	}
	var patch model.VendorPatch
	if err := c.Bind(&patch); err != nil {
		return bindError(err)
	}

	vendor, err := h.vendors.Update(c.Request().Context(), actorFrom(c), id, patch)
	if err != nil {
		return failure(err)
	}
	return c.JSON(http.StatusOK, VendorResponse{Success: true, Vendor: vendor})
}

// Delete godoc
// @Summary Delete a vendor profile
// @Tags vendors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vendor ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.FailureResponse
// @Failure 401 {object} errors.FailureResponse
// @Failure 403 {object} errors.FailureResponse
// @Failure 404 {object} errors.FailureResponse
// @Router /vendor/delete/{id} [delete]
func (h *VendorHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest("invalid vendor id")
	}
	if err := h.vendors.Delete(c.Request().Context(), actorFrom(c), id); err != nil {
		return failure(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Vendor deleted"})
}

// PhotoUpload godoc
// @Summary Presign a vendor photo upload
// @Description Returns a URL accepting one PUT. Store public_url as photo_url afterwards.
// @Tags vendors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PhotoUploadRequest false "Upload options"
// @Success 200 {object} PhotoUploadResponse
// @Failure 401 {object} errors.FailureResponse
// @Failure 503 {object} errors.FailureResponse
// @Router /vendor/photo-upload [post]
func (h *VendorHandler) PhotoUpload(c echo.Context) error {
	var req PhotoUploadRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest("content_type must be image/jpeg, image/png or image/webp")
	}

	upload, err := h.photos.PresignUpload(c.Request().Context(), actorFrom(c), req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrUploadsDisabled) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, apperrors.FailureResponse{
				Success: false,
				Error:   "Photo uploads are not available",
			})
		}
		return failure(err)
	}
	return c.JSON(http.StatusOK, PhotoUploadResponse{Success: true, Upload: upload})
}
