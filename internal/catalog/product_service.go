package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wearevirtua/catalog/internal/domain"
	"github.com/wearevirtua/catalog/internal/imagestore"
	"github.com/wearevirtua/catalog/pkg/common"
)

// ProductService implements the product lifecycle: validated create/update,
// token-guarded delete, image attachment.
type ProductService struct {
	products   ProductRepository
	categories CategoryRepository
	images     ImageRepository
	store      *imagestore.Store
	signer     *TokenSigner
	validate   *validator.Validate
}

func NewProductService(
	products ProductRepository,
	categories CategoryRepository,
	images ImageRepository,
	store *imagestore.Store,
	signer *TokenSigner,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		images:     images,
		store:      store,
		signer:     signer,
		validate:   newValidator(),
	}
}

// Signer exposes the token signer so handlers can render delete tokens.
func (s *ProductService) Signer() *TokenSigner { return s.signer }

// Create validates the form, stores any provided images and persists a new
// product with add_date == last_modified_date. All uploads are stored
// before the product row is written, so a rejected file leaves no product
// behind.
func (s *ProductService) Create(ctx context.Context, form ProductForm, mainImage *imagestore.Upload, gallery []imagestore.Upload) (*domain.Product, error) {
	if err := validateStruct(s.validate, form); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, form.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "product_category", ID: form.CategoryID}
		}
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

	now := time.Now()
	p := &domain.Product{
		ID:               common.UUIDint64(),
		Name:             form.Name,
		Description:      form.Description,
		CategoryID:       form.CategoryID,
		AddDate:          now,
		LastModifiedDate: now,
	}
	if mainImg != nil {
		p.MainImageID = &mainImg.ID
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	if err := s.products.AppendImages(ctx, p, galleryImgs); err != nil {
		return nil, err
	}

	zap.L().Info("product created", zap.Int64("id", p.ID), zap.String("name", p.Name))
	return s.products.GetByID(ctx, p.ID)
}

// Update applies the provided fields and attaches any new images. Prior
// images are kept; attachment is additive. last_modified_date is bumped.
// Uploads are stored before any field change is written, so a rejected
// file leaves the product untouched.
func (s *ProductService) Update(ctx context.Context, id int64, form ProductUpdateForm, mainImage *imagestore.Upload, gallery []imagestore.Upload) (*domain.Product, error) {
	if err := validateStruct(s.validate, form); err != nil {
		return nil, err
	}
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "product", ID: id}
		}
		return nil, err
	}

	if form.Name != nil {
		p.Name = *form.Name
	}
	if form.Description != nil {
		p.Description = *form.Description
	}
	if form.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *form.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &domain.NotFoundError{Entity: "product_category", ID: *form.CategoryID}
			}
			return nil, err
		}
		p.CategoryID = *form.CategoryID
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
		p.MainImageID = &mainImg.ID
	}

	p.LastModifiedDate = time.Now()
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	if err := s.products.AppendImages(ctx, p, galleryImgs); err != nil {
		return nil, err
	}

	zap.L().Info("product updated", zap.Int64("id", p.ID))
	return s.products.GetByID(ctx, p.ID)
}

// Delete removes the product after verifying the deletion-confirmation
// token. Gallery join rows are detached; image rows and stored files are
// left for the orphan sweep.
func (s *ProductService) Delete(ctx context.Context, id int64, token string) error {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.NotFoundError{Entity: "product", ID: id}
		}
		return err
	}
	if err := s.signer.Verify(KindProduct, id, token); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	zap.L().Info("product deleted", zap.Int64("id", id))
	return nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "product", ID: id}
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) storeImage(ctx context.Context, u imagestore.Upload) (*domain.Image, error) {
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

func (s *ProductService) storeGallery(ctx context.Context, gallery []imagestore.Upload) ([]domain.Image, error) {
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
