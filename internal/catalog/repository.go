package catalog

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/wearevirtua/catalog/internal/domain"
)

// ProductRepository handles Product persistence.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	// Delete removes the product row and detaches its gallery join rows.
	// Image rows and stored files are left for the orphan sweep.
	Delete(ctx context.Context, id int64) error
	AppendImages(ctx context.Context, p *domain.Product, images []domain.Image) error
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
}

// CategoryRepository handles ProductCategory persistence.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.ProductCategory) error
	Update(ctx context.Context, c *domain.ProductCategory) error
	GetByID(ctx context.Context, id int64) (*domain.ProductCategory, error)
	List(ctx context.Context) ([]domain.ProductCategory, error)
	Delete(ctx context.Context, id int64) error
	AppendImages(ctx context.Context, c *domain.ProductCategory, images []domain.Image) error
}

// ImageRepository handles Image rows and their slot references.
type ImageRepository interface {
	Create(ctx context.Context, img *domain.Image) error
	GetByID(ctx context.Context, id int64) (*domain.Image, error)
	Delete(ctx context.Context, id int64) error
	// Detach removes every main-image pointer and gallery join row that
	// references the image.
	Detach(ctx context.Context, id int64) error
	// ListOrphans returns image rows no entity slot references anymore.
	// Rows created after olderThan are excluded; an upload may not be
	// attached to its entity yet.
	ListOrphans(ctx context.Context, olderThan time.Time) ([]domain.Image, error)
	CountByPath(ctx context.Context, path string) (int64, error)
}

// GormProductRepository is the GORM implementation of ProductRepository.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return errors.Wrap(r.db.WithContext(ctx).Omit("Category", "MainImage", "Images").Create(p).Error, "create product")
}

func (r *GormProductRepository) Update(ctx context.Context, p *domain.Product) error {
	return errors.Wrap(r.db.WithContext(ctx).Omit("Category", "MainImage", "Images").Save(p).Error, "update product")
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("MainImage").
		Preload("Images").
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("MainImage").
		Preload("Images").
		Order("id").
		Find(&products).Error
	return products, errors.Wrap(err, "list products")
}

func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p := domain.Product{ID: id}
		if err := tx.Model(&p).Association("Images").Clear(); err != nil {
			return errors.Wrap(err, "detach product images")
		}
		return errors.Wrap(tx.Delete(&p).Error, "delete product")
	})
}

func (r *GormProductRepository) AppendImages(ctx context.Context, p *domain.Product, images []domain.Image) error {
	if len(images) == 0 {
		return nil
	}
	return errors.Wrap(
		r.db.WithContext(ctx).Model(p).Association("Images").Append(&images),
		"append product images")
}

func (r *GormProductRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("category_id = ?", categoryID).
		Count(&total).Error
	return total, errors.Wrap(err, "count products by category")
}

// GormCategoryRepository is the GORM implementation of CategoryRepository.
type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(ctx context.Context, c *domain.ProductCategory) error {
	return errors.Wrap(r.db.WithContext(ctx).Omit("MainImage", "Images").Create(c).Error, "create category")
}

func (r *GormCategoryRepository) Update(ctx context.Context, c *domain.ProductCategory) error {
	return errors.Wrap(r.db.WithContext(ctx).Omit("MainImage", "Images").Save(c).Error, "update category")
}

func (r *GormCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.ProductCategory, error) {
	var c domain.ProductCategory
	err := r.db.WithContext(ctx).
		Preload("MainImage").
		Preload("Images").
		First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormCategoryRepository) List(ctx context.Context) ([]domain.ProductCategory, error) {
	var categories []domain.ProductCategory
	err := r.db.WithContext(ctx).
		Preload("MainImage").
		Preload("Images").
		Order("id").
		Find(&categories).Error
	return categories, errors.Wrap(err, "list categories")
}

func (r *GormCategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c := domain.ProductCategory{ID: id}
		if err := tx.Model(&c).Association("Images").Clear(); err != nil {
			return errors.Wrap(err, "detach category images")
		}
		return errors.Wrap(tx.Delete(&c).Error, "delete category")
	})
}

func (r *GormCategoryRepository) AppendImages(ctx context.Context, c *domain.ProductCategory, images []domain.Image) error {
	if len(images) == 0 {
		return nil
	}
	return errors.Wrap(
		r.db.WithContext(ctx).Model(c).Association("Images").Append(&images),
		"append category images")
}

// GormImageRepository is the GORM implementation of ImageRepository.
type GormImageRepository struct {
	db *gorm.DB
}

func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

func (r *GormImageRepository) Create(ctx context.Context, img *domain.Image) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(img).Error, "create image")
}

func (r *GormImageRepository) GetByID(ctx context.Context, id int64) (*domain.Image, error) {
	var img domain.Image
	if err := r.db.WithContext(ctx).First(&img, id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *GormImageRepository) Delete(ctx context.Context, id int64) error {
	return errors.Wrap(r.db.WithContext(ctx).Delete(&domain.Image{}, id).Error, "delete image")
}

func (r *GormImageRepository) Detach(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM product_images WHERE image_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "detach image from products")
		}
		if err := tx.Exec("DELETE FROM product_category_images WHERE image_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "detach image from categories")
		}
		if err := tx.Model(&domain.Product{}).
			Where("main_image_id = ?", id).
			Update("main_image_id", nil).Error; err != nil {
			return errors.Wrap(err, "clear product main image")
		}
		if err := tx.Model(&domain.ProductCategory{}).
			Where("main_image_id = ?", id).
			Update("main_image_id", nil).Error; err != nil {
			return errors.Wrap(err, "clear category main image")
		}
		return nil
	})
}

func (r *GormImageRepository) ListOrphans(ctx context.Context, olderThan time.Time) ([]domain.Image, error) {
	var orphans []domain.Image
	err := r.db.WithContext(ctx).
		Where("created_at < ?", olderThan).
		Where("id NOT IN (SELECT image_id FROM product_images)").
		Where("id NOT IN (SELECT image_id FROM product_category_images)").
		Where("id NOT IN (SELECT main_image_id FROM products WHERE main_image_id IS NOT NULL)").
		Where("id NOT IN (SELECT main_image_id FROM product_categories WHERE main_image_id IS NOT NULL)").
		Find(&orphans).Error
	return orphans, errors.Wrap(err, "list orphan images")
}

func (r *GormImageRepository) CountByPath(ctx context.Context, path string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&domain.Image{}).
		Where("path = ?", path).
		Count(&total).Error
	return total, errors.Wrap(err, "count images by path")
}
