package models

import "time"

// Dish represents a dish offered by a restaurant. Created and edited only by
// admins; the catalog treats it as read-only.
type Dish struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `json:"description"`
	Price        float64   `gorm:"not null;check:price >= 0" json:"price"`
	ImageKey     string    `json:"image_key"`
	ImageURL     string    `gorm:"-" json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Dish model
func (Dish) TableName() string {
	return "dishes"
}
