package webadmin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wearevirtua/catalog/internal/catalog"
)

// ImageHandler exposes explicit image deletion: detach from the owning
// slot, remove the stored file, drop the row.
type ImageHandler struct {
	svc *catalog.ImageService
}

func NewImageHandler(svc *catalog.ImageService) *ImageHandler {
	return &ImageHandler{svc: svc}
}

func (h *ImageHandler) Register(e *echo.Echo) {
	e.DELETE("/image/:id", h.delete)
}

func (h *ImageHandler) delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Not Found.")
	}
	if err := h.svc.Delete(c.Request().Context(), id, c.FormValue("_token")); err != nil {
		return handleError(c, err, "/category")
	}
	flash(c, "Deleted successfully.")
	return c.Redirect(http.StatusFound, "/category")
}
