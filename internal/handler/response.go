package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "legumes/internal/errors"
	"legumes/internal/model"
)

// AccountContextKey is where authenticated routes find the caller's account.
const AccountContextKey = "account"

// failure renders a service error as its status and FailureResponse body.
func failure(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToFailureResponse())
}

// badRequest renders a request that could not be decoded.
func badRequest(details string) error {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.FailureResponse{
		Success: false,
		Error:   "Invalid request body",
		Kind:    apperrors.KindValidationFailed,
		Details: details,
	})
}

// bindError renders a Bind failure using only the public part of echo's error.
func bindError(err error) error {
	details := "malformed request body"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			details = msg
		}
	}
	return badRequest(details)
}

// BearerToken extracts the credential from an Authorization header value.
// Anything other than "Bearer <token>" yields "".
func BearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func actorFrom(c echo.Context) *model.Account {
	account, _ := c.Get(AccountContextKey).(*model.Account)
	return account
}
