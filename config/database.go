package config

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wrx61527/PapuGO/models"
)

var db *gorm.DB

// ConnectDatabase establishes a connection to the PostgreSQL database
func ConnectDatabase(databaseURL string) error {
	var err error
	db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// MigrateDatabase auto-migrates all application models
func MigrateDatabase() error {
	return db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Dish{},
		&models.Order{},
		&models.OrderItem{},
	)
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}

// SetDB sets the database instance (primarily for testing)
func SetDB(database *gorm.DB) {
	db = database
}
