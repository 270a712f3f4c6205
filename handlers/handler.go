package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/kartclub/kartapi/scoring"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db     *bun.DB
	JWTKey []byte
}

// New creates a Handler with the given database connection and JWT signing key.
func New(db *bun.DB, jwtKey []byte) *Handler {
	return &Handler{db: db, JWTKey: jwtKey}
}

// httpError maps a scoring failure onto an HTTP status. Anything that is not
// a scoring error is a store problem and comes back as a 500.
func httpError(err error) error {
	var serr *scoring.Error
	if errors.As(err, &serr) {
		switch serr.Kind {
		case scoring.KindNotFound:
			return echo.NewHTTPError(http.StatusNotFound, serr.Reason)
		case scoring.KindInvalidState, scoring.KindInvalidInput:
			return echo.NewHTTPError(http.StatusBadRequest, serr.Reason)
		default:
			// Contract violations are bugs in this code, not client input.
			return echo.NewHTTPError(http.StatusInternalServerError, serr.Reason)
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
