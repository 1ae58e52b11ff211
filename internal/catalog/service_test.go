package catalog_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wearevirtua/catalog/internal/catalog"
	"github.com/wearevirtua/catalog/internal/domain"
	"github.com/wearevirtua/catalog/internal/imagestore"
)

type testEnv struct {
	db         *gorm.DB
	store      *imagestore.Store
	signer     *catalog.TokenSigner
	products   *catalog.ProductService
	categories *catalog.CategoryService
	images     *catalog.ImageService
}

func setupEnv(t *testing.T) *testEnv {
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

	return &testEnv{
		db:     db,
		store:  store,
		signer: signer,
		products: catalog.NewProductService(
			productRepo, categoryRepo, imageRepo, store, signer),
		categories: catalog.NewCategoryService(
			categoryRepo, productRepo, imageRepo, store, signer),
		images: catalog.NewImageService(imageRepo, store, signer),
	}
}

func pngUpload(name string, size int) imagestore.Upload {
	data := make([]byte, size)
	copy(data, []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a})
	return imagestore.Upload{Filename: name, Data: data}
}

func pdfUpload(name string) imagestore.Upload {
	return imagestore.Upload{Filename: name, Data: []byte("%PDF-1.4 not an image")}
}
