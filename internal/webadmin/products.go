package webadmin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wearevirtua/catalog/internal/catalog"
)

// ProductHandler serves the admin product workflow: list/show as JSON for
// the admin front-end, create/edit as form posts with image uploads, and
// token-guarded delete. Template rendering stays out of this service.
type ProductHandler struct {
	svc *catalog.ProductService
}

func NewProductHandler(svc *catalog.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) Register(e *echo.Echo) {
	e.GET("/product", h.index)
	e.POST("/product/new", h.create)
	e.GET("/product/:id", h.show)
	e.POST("/product/:id/edit", h.edit)
	e.DELETE("/product/:id", h.delete)
}

func (h *ProductHandler) index(c echo.Context) error {
	products, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"notices":  popFlashes(c),
	})
}

func (h *ProductHandler) create(c echo.Context) error {
	var form catalog.ProductForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unable to parse product form")
	}
	mainImage, err := formUpload(c, "mainImage")
	if err != nil {
		return err
	}
	gallery, err := formUploads(c, "image_files")
	if err != nil {
		return err
	}
	if _, err := h.svc.Create(c.Request().Context(), form, mainImage, gallery); err != nil {
		return handleError(c, err, "/product")
	}
	flash(c, "New product has been added.")
	return c.Redirect(http.StatusFound, "/product")
}

func (h *ProductHandler) show(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Not Found.")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return handleError(c, err, "/product")
	}
	signer := h.svc.Signer()
	imageTokens := make(map[int64]string, len(p.Images))
	for _, img := range p.Images {
		imageTokens[img.ID] = signer.TokenFor(catalog.KindImage, img.ID)
	}
	if p.MainImage != nil {
		imageTokens[p.MainImage.ID] = signer.TokenFor(catalog.KindImage, p.MainImage.ID)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"product":      p,
		"delete_token": signer.TokenFor(catalog.KindProduct, p.ID),
		"image_tokens": imageTokens,
		"notices":      popFlashes(c),
	})
}

func (h *ProductHandler) edit(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Not Found.")
	}
	var form catalog.ProductUpdateForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unable to parse product form")
	}
	mainImage, err := formUpload(c, "mainImage")
	if err != nil {
		return err
	}
	gallery, err := formUploads(c, "image_files")
	if err != nil {
		return err
	}
	p, err := h.svc.Update(c.Request().Context(), id, form, mainImage, gallery)
	if err != nil {
		return handleError(c, err, "/product")
	}
	flash(c, "Edited successfully.")
	return c.Redirect(http.StatusFound, "/product/"+formatID(p.ID))
}

func (h *ProductHandler) delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Not Found.")
	}
	if err := h.svc.Delete(c.Request().Context(), id, c.FormValue("_token")); err != nil {
		return handleError(c, err, "/product")
	}
	flash(c, "Deleted successfully.")
	return c.Redirect(http.StatusFound, "/product")
}
