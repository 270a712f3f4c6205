package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kartclub/kartapi/models"
)

// ListTracks returns all tracks sorted by name, optionally filtered by a
// case-insensitive substring search.
func (h *Handler) ListTracks(c echo.Context) error {
	search := c.QueryParam("search")

	var tracks []models.Track
	q := h.db.NewSelect().Model(&tracks).
		Column("t.id", "t.name", "t.image_url").
		OrderExpr("t.name ASC")

	if search != "" {
		q = q.Where("t.name ILIKE ?", "%"+search+"%")
	}

	if err := q.Scan(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tracks)
}
