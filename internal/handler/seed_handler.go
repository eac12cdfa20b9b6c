package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskpilot/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	seedService service.SeedService
	demo        service.SeedCommand
}

// NewSeedHandler creates a new seed handler for the given demo account.
func NewSeedHandler(seedService service.SeedService, demo service.SeedCommand) *SeedHandler {
	return &SeedHandler{seedService: seedService, demo: demo}
}

// SeedDemo godoc
// @Summary Create the demo user and its default categories
// @Description Only mounted when APP_ENV=development.
// @Tags seed
// @Produce json
// @Success 200 {object} service.SeedResult
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed/demo [post]
func (h *SeedHandler) SeedDemo(c echo.Context) error {
	result, err := h.seedService.SeedDemo(c.Request().Context(), h.demo)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, result)
}
