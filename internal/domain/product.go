package domain

import "time"

// Product is a catalog item. It always belongs to exactly one category;
// the main image is distinct from the gallery collection.
type Product struct {
	ID               int64            `gorm:"primaryKey" json:"id"`
	Name             string           `gorm:"size:200;not null;index" json:"name"`
	Description      string           `json:"description"`
	AddDate          time.Time        `json:"add_date"`
	LastModifiedDate time.Time        `json:"last_modified_date"`
	CategoryID       int64            `gorm:"not null;index" json:"category_id"`
	Category         *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	MainImageID      *int64           `json:"-"`
	MainImage        *Image           `gorm:"foreignKey:MainImageID" json:"main_image,omitempty"`
	Images           []Image          `gorm:"many2many:product_images" json:"images,omitempty"`
}
