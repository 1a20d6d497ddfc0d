package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"legumes/internal/service"
)

// UserHandler serves user administration.
type UserHandler struct {
	svc service.ProvisioningService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.ProvisioningService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUserResponse is returned once every provisioning step succeeded.
type CreateUserResponse struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	User    *service.ProvisionedUser `json:"user"`
}

// CreateUser godoc
// @Summary Create a user with a role
// @Description Admin only. Creates the identity, the user record, the role profile and the role assignment.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body service.CreateUserInput true "User payload"
// @Success 200 {object} CreateUserResponse
// @Failure 400 {object} errors.FailureResponse
// @Failure 401 {object} errors.FailureResponse
// @Failure 403 {object} errors.FailureResponse
// @Failure 500 {object} errors.FailureResponse
// @Router /user [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	token := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))

	admin, err := h.svc.Authorize(ctx, token)
	if err != nil {
		return failure(err)
	}

	var in service.CreateUserInput
	if err := c.Bind(&in); err != nil {
		return bindError(err)
	}

	user, err := h.svc.CreateUser(ctx, admin, in)
	if err != nil {
		return failure(err)
	}
	return c.JSON(http.StatusOK, CreateUserResponse{
		Success: true,
		Message: "User created successfully",
		User:    user,
	})
}
