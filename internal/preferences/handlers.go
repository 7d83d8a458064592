package preferences

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetBrowsePreferences)
	g.PUT("", h.SetBrowsePreferences)
}

// GetBrowsePreferences returns the browse preferences
// GET /api/v1/preferences
func (h *Handlers) GetBrowsePreferences(c echo.Context) error {
	prefs, err := h.service.GetBrowsePreferences(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, prefs)
}

// SetBrowsePreferences updates the browse preferences
// PUT /api/v1/preferences
func (h *Handlers) SetBrowsePreferences(c echo.Context) error {
	var prefs BrowsePreferences
	if err := c.Bind(&prefs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&prefs); err != nil {
		return err
	}

	if err := h.service.SetBrowsePreferences(c.Request().Context(), prefs); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	updated, err := h.service.GetBrowsePreferences(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, updated)
}
