package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wearevirtua/catalog/internal/domain"
	"github.com/wearevirtua/catalog/internal/imagestore"
	"github.com/wearevirtua/catalog/pkg/common"
)

// CategoryService implements the product category lifecycle. Deleting a
// category that products still reference is refused.
type CategoryService struct {
	categories CategoryRepository
	products   ProductRepository
	images     ImageRepository
	store      *imagestore.Store
	signer     *TokenSigner
	validate   *validator.Validate
}

func NewCategoryService(
	categories CategoryRepository,
	products ProductRepository,
	images ImageRepository,
	store *imagestore.Store,
	signer *TokenSigner,
) *CategoryService {
	return &CategoryService{
		categories: categories,
		products:   products,
		images:     images,
		store:      store,
		signer:     signer,
		validate:   newValidator(),
	}
}

func (s *CategoryService) Signer() *TokenSigner { return s.signer }

// Create stores all uploads before the category row is written, so a
// rejected file leaves no category behind.
func (s *CategoryService) Create(ctx context.Context, form CategoryForm, mainImage *imagestore.Upload, gallery []imagestore.Upload) (*domain.ProductCategory, error) {
	if err := validateStruct(s.validate, form); err != nil {
		return nil, err
	}

	var mainImg *domain.Image
	if mainImage != nil {
		img, err := s.storeImage(ctx, *mainImage)
		if err != nil {
			return nil, err
		}
		mainImg = img
	}
	galleryImgs, err := s.storeGallery(ctx, gallery)
	if err != nil {
		return nil, err
	}

	c := &domain.ProductCategory{
		ID:          common.UUIDint64(),
		Name:        form.Name,
		Description: form.Description,
	}
	if mainImg != nil {
		c.MainImageID = &mainImg.ID
	}

	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	if err := s.categories.AppendImages(ctx, c, galleryImgs); err != nil {
		return nil, err
	}

	zap.L().Info("category created", zap.Int64("id", c.ID), zap.String("name", c.Name))
	return s.categories.GetByID(ctx, c.ID)
}

func (s *CategoryService) Update(ctx context.Context, id int64, form CategoryUpdateForm, mainImage *imagestore.Upload, gallery []imagestore.Upload) (*domain.ProductCategory, error) {
	if err := validateStruct(s.validate, form); err != nil {
		return nil, err
	}
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "product_category", ID: id}
		}
		return nil, err
	}

	if form.Name != nil {
		c.Name = *form.Name
	}
	if form.Description != nil {
		c.Description = *form.Description
	}

	var mainImg *domain.Image
	if mainImage != nil {
		mainImg, err = s.storeImage(ctx, *mainImage)
		if err != nil {
			return nil, err
		}
	}
	galleryImgs, err := s.storeGallery(ctx, gallery)
	if err != nil {
		return nil, err
	}
	if mainImg != nil {
		c.MainImageID = &mainImg.ID
	}

	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	if err := s.categories.AppendImages(ctx, c, galleryImgs); err != nil {
		return nil, err
	}

	zap.L().Info("category updated", zap.Int64("id", c.ID))
	return s.categories.GetByID(ctx, c.ID)
}

// Delete refuses to remove a category while products still reference it,
// and requires the deletion-confirmation token.
func (s *CategoryService) Delete(ctx context.Context, id int64, token string) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.NotFoundError{Entity: "product_category", ID: id}
		}
		return err
	}
	if err := s.signer.Verify(KindCategory, id, token); err != nil {
		return err
	}
	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.NewValidationError("category",
			fmt.Sprintf("Category still has %d products.", count))
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	zap.L().Info("category deleted", zap.Int64("id", id))
	return nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*domain.ProductCategory, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "product_category", ID: id}
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context) ([]domain.ProductCategory, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) storeImage(ctx context.Context, u imagestore.Upload) (*domain.Image, error) {
	path, err := s.store.Store(u)
	if err != nil {
		return nil, err
	}
	img := &domain.Image{ID: common.UUIDint64(), Path: path}
	if err := s.images.Create(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *CategoryService) storeGallery(ctx context.Context, gallery []imagestore.Upload) ([]domain.Image, error) {
	if len(gallery) == 0 {
		return nil, nil
	}
	images := make([]domain.Image, 0, len(gallery))
	for _, u := range gallery {
		img, err := s.storeImage(ctx, u)
		if err != nil {
			return nil, err
		}
		images = append(images, *img)
	}
	return images, nil
}
