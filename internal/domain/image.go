package domain

import "time"

// Image is a stored upload. Path is the file name inside the image store;
// the row is attached to at most one main-image or gallery slot at a time.
type Image struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Path      string    `gorm:"size:1024;not null" json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
