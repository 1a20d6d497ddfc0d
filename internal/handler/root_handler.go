package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Root godoc
// @Summary Service greeting
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"hello": "Motaly👋"})
}
