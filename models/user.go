package models

import "time"

// User represents an account in the system. The password is stored as an
// opaque credential; hashing is out of scope for this service.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
