package webadmin_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wearevirtua/catalog/internal/catalog"
	"github.com/wearevirtua/catalog/internal/domain"
	"github.com/wearevirtua/catalog/internal/imagestore"
	"github.com/wearevirtua/catalog/internal/webadmin"
)

type webEnv struct {
	e          *echo.Echo
	store      *imagestore.Store
	signer     *catalog.TokenSigner
	products   *catalog.ProductService
	categories *catalog.CategoryService
	category   *domain.ProductCategory
}

func setupWeb(t *testing.T) *webEnv {
	t.Helper()

	db, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "catalog.db")),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	store, err := imagestore.NewStore(t.TempDir())
	require.NoError(t, err)

	signer := catalog.NewTokenSigner("test-secret")
	productRepo := catalog.NewGormProductRepository(db)
	categoryRepo := catalog.NewGormCategoryRepository(db)
	imageRepo := catalog.NewGormImageRepository(db)

	products := catalog.NewProductService(productRepo, categoryRepo, imageRepo, store, signer)
	categories := catalog.NewCategoryService(categoryRepo, productRepo, imageRepo, store, signer)
	images := catalog.NewImageService(imageRepo, store, signer)

	cat, err := categories.Create(context.Background(),
		catalog.CategoryForm{Name: "Default", Description: "Default category"}, nil, nil)
	require.NoError(t, err)

	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("test-secret"))))
	webadmin.NewProductHandler(products).Register(e)
	webadmin.NewCategoryHandler(categories).Register(e)
	webadmin.NewImageHandler(images).Register(e)

	return &webEnv{
		e:          e,
		store:      store,
		signer:     signer,
		products:   products,
		categories: categories,
		category:   cat,
	}
}

func (env *webEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func pngUpload(name string, size int) imagestore.Upload {
	data := make([]byte, size)
	copy(data, []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a})
	return imagestore.Upload{Filename: name, Data: data}
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]imagestore.Upload) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, uploads := range files {
		for _, u := range uploads {
			fw, err := w.CreateFormFile(field, u.Filename)
			require.NoError(t, err)
			_, err = fw.Write(u.Data)
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

// notices replays the flash cookie against an index route and returns the
// queued messages.
func (env *webEnv) notices(t *testing.T, path string, cookies []*http.Cookie) []string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Notices []string `json:"notices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Notices
}

func TestCreateProductForm_WithImages(t *testing.T) {
	env := setupWeb(t)

	body, ctype := multipartBody(t, map[string]string{
		"name":        "Sneaker",
		"description": "Running shoe",
		"category":    fmt.Sprintf("%d", env.category.ID),
	}, map[string][]imagestore.Upload{
		"mainImage":   {pngUpload("main.png", 1024)},
		"image_files": {pngUpload("g1.png", 1024), pngUpload("g2.png", 1024)},
	})
	req := httptest.NewRequest(http.MethodPost, "/product/new", body)
	req.Header.Set(echo.HeaderContentType, ctype)

	rec := env.do(req)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/product", rec.Header().Get(echo.HeaderLocation))

	products, err := env.products.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.NotNil(t, products[0].MainImage)
	assert.Len(t, products[0].Images, 2)

	assert.Contains(t,
		env.notices(t, "/product", rec.Result().Cookies()),
		"New product has been added.")
}

func TestCreateProductForm_ValidationFlash(t *testing.T) {
	env := setupWeb(t)

	body, ctype := multipartBody(t, map[string]string{
		"description": "no name",
		"category":    fmt.Sprintf("%d", env.category.ID),
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/product/new", body)
	req.Header.Set(echo.HeaderContentType, ctype)

	rec := env.do(req)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/product", rec.Header().Get(echo.HeaderLocation))

	products, err := env.products.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)

	assert.Contains(t,
		env.notices(t, "/product", rec.Result().Cookies()),
		"This value should not be blank.")
}

func TestCreateProductForm_MalformedMultipart(t *testing.T) {
	env := setupWeb(t)

	req := httptest.NewRequest(http.MethodPost, "/product/new",
		bytes.NewReader([]byte("not a multipart body")))
	req.Header.Set(echo.HeaderContentType, "multipart/form-data; boundary=xyz")

	rec := env.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShowProductForm_TokensRendered(t *testing.T) {
	env := setupWeb(t)

	p, err := env.products.Create(context.Background(), catalog.ProductForm{
		Name:        "Sneaker",
		Description: "Running shoe",
		CategoryID:  env.category.ID,
	}, nil, nil)
	require.NoError(t, err)

	rec := env.do(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/product/%d", p.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		DeleteToken string `json:"delete_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, env.signer.TokenFor(catalog.KindProduct, p.ID), body.DeleteToken)
}

func TestDeleteProductForm_TokenChecks(t *testing.T) {
	env := setupWeb(t)

	p, err := env.products.Create(context.Background(), catalog.ProductForm{
		Name:        "Sneaker",
		Description: "Running shoe",
		CategoryID:  env.category.ID,
	}, nil, nil)
	require.NoError(t, err)

	rec := env.do(httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/product/%d?_token=bogus", p.ID), nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	_, err = env.products.Get(context.Background(), p.ID)
	require.NoError(t, err)

	token := env.signer.TokenFor(catalog.KindProduct, p.ID)
	rec = env.do(httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/product/%d?_token=%s", p.ID, token), nil))
	require.Equal(t, http.StatusFound, rec.Code)

	_, err = env.products.Get(context.Background(), p.ID)
	var nferr *domain.NotFoundError
	require.ErrorAs(t, err, &nferr)

	assert.Contains(t,
		env.notices(t, "/product", rec.Result().Cookies()),
		"Deleted successfully.")
}
