package adminapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wearevirtua/catalog/internal/domain"
)

// notFoundBody is the response body for unknown ids.
const notFoundBody = "Not Found."

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// errorJSON maps the error taxonomy onto the API status codes:
// validation 400 with field detail, not-found 404, authorization 403.
func errorJSON(c echo.Context, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":  "Bad request",
			"fields": verr.Fields,
		})
	}
	var nferr *domain.NotFoundError
	if errors.As(err, &nferr) {
		return c.JSON(http.StatusNotFound, notFoundBody)
	}
	var aerr *domain.AuthorizationError
	if errors.As(err, &aerr) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": aerr.Reason})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}
