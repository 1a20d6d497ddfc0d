package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"legumes/internal/identity"
	"legumes/internal/service"
)

const (
	invalidCredentialsMessage = "Invalid login credentials"
	emailNotConfirmedMessage  = "Email not confirmed. Please check your inbox."
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned for every login attempt.
type LoginResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	User    any               `json:"user,omitempty"`
	Session *identity.Session `json:"session,omitempty"`
}

// Login godoc
// @Summary Sign in with email and password
// @Description Logical failures are reported with HTTP 200 and success=false.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.FailureResponse
// @Failure 429 {object} errors.FailureResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusOK, LoginResponse{Error: invalidCredentialsMessage})
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		msg := invalidCredentialsMessage
		if errors.Is(err, service.ErrEmailNotConfirmed) {
			msg = emailNotConfirmedMessage
		}
		return c.JSON(http.StatusOK, LoginResponse{Error: msg})
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		User:    session.User,
		Session: session,
	})
}
