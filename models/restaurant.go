package models

import "time"

// Restaurant represents a restaurant in the catalog. It owns zero or more
// dishes; deleting a restaurant removes its dishes as well.
type Restaurant struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	CuisineType  string    `json:"cuisine_type"`
	Street       string    `json:"street"`
	StreetNumber string    `json:"street_number"`
	PostalCode   string    `json:"postal_code"`
	City         string    `json:"city"`
	ImageKey     string    `json:"image_key"`            // S3 key for the restaurant image
	ImageURL     string    `gorm:"-" json:"image_url,omitempty"` // computed, presigned URL
	FullAddress  string    `gorm:"-" json:"full_address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Restaurant model
func (Restaurant) TableName() string {
	return "restaurants"
}
