package domain

// ProductCategory groups products. Same image slots as Product:
// one optional main image plus a gallery.
type ProductCategory struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:200;not null;index" json:"name"`
	Description string  `json:"description"`
	MainImageID *int64  `json:"-"`
	MainImage   *Image  `gorm:"foreignKey:MainImageID" json:"main_image,omitempty"`
	Images      []Image `gorm:"many2many:product_category_images" json:"images,omitempty"`
}
