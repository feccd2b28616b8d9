package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/wrx61527/PapuGO/config"
	"github.com/wrx61527/PapuGO/models"
)

// CatalogService is the read-only projection of restaurants and dishes.
type CatalogService struct{}

var catalogServiceInstance *CatalogService

// InitCatalogService initializes the catalog service
func InitCatalogService() *CatalogService {
	catalogServiceInstance = &CatalogService{}
	return catalogServiceInstance
}

// GetCatalogService returns the initialized catalog service instance
func GetCatalogService() *CatalogService {
	return catalogServiceInstance
}

// GetDish returns a single dish by id.
func (s *CatalogService) GetDish(dishID uint) (*models.Dish, error) {
	var dish models.Dish
	if err := config.GetDB().First(&dish, dishID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDishNotFound
		}
		return nil, fmt.Errorf("%w: loading dish %d: %v", ErrStoreUnavailable, dishID, err)
	}
	return &dish, nil
}

// GetRestaurant returns a single restaurant by id.
func (s *CatalogService) GetRestaurant(restaurantID uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := config.GetDB().First(&restaurant, restaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: loading restaurant %d: %v", ErrStoreUnavailable, restaurantID, err)
	}
	return &restaurant, nil
}

// ListRestaurants returns all restaurants ordered by name.
func (s *CatalogService) ListRestaurants() ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := config.GetDB().Order("name").Find(&restaurants).Error; err != nil {
		return nil, fmt.Errorf("%w: listing restaurants: %v", ErrStoreUnavailable, err)
	}
	return restaurants, nil
}

// ListDishes returns the dishes of one restaurant ordered by name.
func (s *CatalogService) ListDishes(restaurantID uint) ([]models.Dish, error) {
	var dishes []models.Dish
	if err := config.GetDB().Where("restaurant_id = ?", restaurantID).Order("name").Find(&dishes).Error; err != nil {
		return nil, fmt.Errorf("%w: listing dishes for restaurant %d: %v", ErrStoreUnavailable, restaurantID, err)
	}
	return dishes, nil
}

// Search returns restaurants whose name, cuisine type or city matches the
// query, case-insensitively.
func (s *CatalogService) Search(query string) ([]models.Restaurant, error) {
	term := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var restaurants []models.Restaurant
	err := config.GetDB().
		Where("LOWER(name) LIKE ? OR LOWER(cuisine_type) LIKE ? OR LOWER(city) LIKE ?", term, term, term).
		Order("name").
		Find(&restaurants).Error
	if err != nil {
		return nil, fmt.Errorf("%w: searching restaurants: %v", ErrStoreUnavailable, err)
	}
	return restaurants, nil
}
