package webadmin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wearevirtua/catalog/internal/catalog"
)

// CategoryHandler mirrors the product workflow for categories. Upload
// fields: imageFile for the main image, imageFiles for the gallery.
type CategoryHandler struct {
	svc *catalog.CategoryService
}

func NewCategoryHandler(svc *catalog.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) Register(e *echo.Echo) {
	e.GET("/category", h.index)
	e.POST("/category/new", h.create)
	e.GET("/category/:id", h.show)
	e.POST("/category/:id/edit", h.edit)
	e.DELETE("/category/:id", h.delete)
}

func (h *CategoryHandler) index(c echo.Context) error {
	categories, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": categories,
		"notices":    popFlashes(c),
	})
}

func (h *CategoryHandler) create(c echo.Context) error {
	var form catalog.CategoryForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unable to parse category form")
	}
	mainImage, err := formUpload(c, "imageFile")
	if err != nil {
		return err
	}
	gallery, err := formUploads(c, "imageFiles")
	if err != nil {
		return err
	}
	if _, err := h.svc.Create(c.Request().Context(), form, mainImage, gallery); err != nil {
		return handleError(c, err, "/category")
	}
	flash(c, "New category has been added.")
	return c.Redirect(http.StatusFound, "/category")
}

func (h *CategoryHandler) show(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Not Found.")
	}
	cat, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return handleError(c, err, "/category")
	}
	signer := h.svc.Signer()
	imageTokens := make(map[int64]string, len(cat.Images))
	for _, img := range cat.Images {
		imageTokens[img.ID] = signer.TokenFor(catalog.KindImage, img.ID)
	}
	if cat.MainImage != nil {
		imageTokens[cat.MainImage.ID] = signer.TokenFor(catalog.KindImage, cat.MainImage.ID)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"category":     cat,
		"delete_token": signer.TokenFor(catalog.KindCategory, cat.ID),
		"image_tokens": imageTokens,
		"notices":      popFlashes(c),
	})
}

func (h *CategoryHandler) edit(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Not Found.")
	}
	var form catalog.CategoryUpdateForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unable to parse category form")
	}
	mainImage, err := formUpload(c, "imageFile")
	if err != nil {
		return err
	}
	gallery, err := formUploads(c, "imageFiles")
	if err != nil {
		return err
	}
	cat, err := h.svc.Update(c.Request().Context(), id, form, mainImage, gallery)
	if err != nil {
		return handleError(c, err, "/category")
	}
	flash(c, "Edited successfully.")
	return c.Redirect(http.StatusFound, "/category/"+formatID(cat.ID))
}

func (h *CategoryHandler) delete(c echo.Context) error {
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
