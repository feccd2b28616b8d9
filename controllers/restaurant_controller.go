package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wrx61527/PapuGO/models"
	"github.com/wrx61527/PapuGO/services"
	"github.com/wrx61527/PapuGO/utils"
)

// decorateRestaurant fills the computed display fields of a restaurant.
func decorateRestaurant(r *models.Restaurant) {
	r.FullAddress = utils.FormatAddress(r.Street, r.StreetNumber, r.PostalCode, r.City)
	if url, err := services.GetImageService().GetImageURL(r.ImageKey); err == nil {
		r.ImageURL = url
	}
}

// decorateDish fills the computed display fields of a dish.
func decorateDish(d *models.Dish) {
	if url, err := services.GetImageService().GetImageURL(d.ImageKey); err == nil {
		d.ImageURL = url
	}
}

// ListRestaurants handles GET /api/v1/restaurants - public restaurant list
func ListRestaurants(c *gin.Context) {
	restaurants, err := services.GetCatalogService().ListRestaurants()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_UNAVAILABLE",
				"message": "Failed to load restaurants",
			},
		})
		return
	}

	for i := range restaurants {
		decorateRestaurant(&restaurants[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    restaurants,
	})
}

// GetRestaurant handles GET /api/v1/restaurants/:id - restaurant detail with
// its dishes
func GetRestaurant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid restaurant id",
			},
		})
		return
	}

	catalog := services.GetCatalogService()
	restaurant, err := catalog.GetRestaurant(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Restaurant not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_UNAVAILABLE",
				"message": "Failed to load restaurant",
			},
		})
		return
	}
	decorateRestaurant(restaurant)

	dishes, err := catalog.ListDishes(restaurant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_UNAVAILABLE",
				"message": "Failed to load dishes",
			},
		})
		return
	}
	for i := range dishes {
		decorateDish(&dishes[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"restaurant": restaurant,
			"dishes":     dishes,
		},
	})
}

// SearchRestaurants handles GET /api/v1/restaurants/search?query=… - public
// search over name, cuisine type and city
func SearchRestaurants(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    []models.Restaurant{},
		})
		return
	}

	restaurants, err := services.GetCatalogService().Search(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_UNAVAILABLE",
				"message": "Search failed",
			},
		})
		return
	}

	for i := range restaurants {
		decorateRestaurant(&restaurants[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    restaurants,
	})
}
