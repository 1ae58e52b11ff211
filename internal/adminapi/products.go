package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wearevirtua/catalog/internal/catalog"
	"github.com/wearevirtua/catalog/internal/domain"
)

// ProductAPI is the JSON adapter over the product service. Create and
// update bind the request body; form-encoded and JSON payloads both work.
type ProductAPI struct {
	svc *catalog.ProductService
}

func NewProductAPI(svc *catalog.ProductService) *ProductAPI {
	return &ProductAPI{svc: svc}
}

func (h *ProductAPI) Register(e *echo.Echo) {
	e.GET("/api/product/:id", h.show)
	e.GET("/api/products", h.list)
	e.POST("/api/product", h.create)
	e.PUT("/api/product/:id/edit", h.edit)
	e.DELETE("/api/product/:id/delete", h.delete)
}

func (h *ProductAPI) show(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusNotFound, notFoundBody)
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductAPI) list(c echo.Context) error {
	products, err := h.svc.List(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"products": products})
}

func (h *ProductAPI) create(c echo.Context) error {
	var form catalog.ProductForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unable to parse product"})
	}
	if _, err := h.svc.Create(c.Request().Context(), form, nil, nil); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, "New product added.")
}

func (h *ProductAPI) edit(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusNotFound, notFoundBody)
	}
	var form catalog.ProductUpdateForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unable to parse product"})
	}
	if _, err := h.svc.Update(c.Request().Context(), id, form, nil, nil); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, "Product updated.")
}

func (h *ProductAPI) delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusNotFound, notFoundBody)
	}
	// The REST surface carries no form-rendered token; derive it for the
	// addressed entity.
	token := h.svc.Signer().TokenFor(catalog.KindProduct, id)
	if err := h.svc.Delete(c.Request().Context(), id, token); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, "Product deleted.")
}
