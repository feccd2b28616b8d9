package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wrx61527/PapuGO/config"
	"github.com/wrx61527/PapuGO/models"
	"github.com/wrx61527/PapuGO/services"
	"github.com/wrx61527/PapuGO/utils"
)

// parseDishForm validates the shared fields of the dish create/update forms.
func parseDishForm(c *gin.Context) (name string, description string, price float64, ok bool) {
	name = strings.TrimSpace(c.PostForm("name"))
	description = strings.TrimSpace(c.PostForm("description"))
	priceStr := c.PostForm("price")

	if name == "" || priceStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Dish name and price are required",
			},
		})
		return "", "", 0, false
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Price must be a non-negative number",
			},
		})
		return "", "", 0, false
	}
	return name, description, price, true
}

// uploadDishImage uploads an optional dish image, answering the request
// itself on failure.
func uploadDishImage(c *gin.Context) (string, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", true // no image attached
	}

	imageKey, err := services.GetImageService().UploadImage(fileHeader, services.DishImagePrefix)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return "", false
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to upload dish image",
			},
		})
		return "", false
	}
	return imageKey, true
}

// CreateDish handles POST /api/v1/admin/restaurants/:id/dishes - adds a dish
// to a restaurant from a multipart form with an optional image
func CreateDish(c *gin.Context) {
	restaurantID, err := strconv.ParseUint(c.Param("id"), 10, 32)
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

	db := config.GetDB()
	var restaurant models.Restaurant
	if err := db.First(&restaurant, restaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
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
				"code":    "DATABASE_ERROR",
				"message": "Failed to load restaurant",
			},
		})
		return
	}

	name, description, price, ok := parseDishForm(c)
	if !ok {
		return
	}

	imageKey, ok := uploadDishImage(c)
	if !ok {
		return
	}

	dish := models.Dish{
		RestaurantID: restaurant.ID,
		Name:         name,
		Description:  description,
		Price:        price,
		ImageKey:     imageKey,
	}
	if err := db.Create(&dish).Error; err != nil {
		log.Printf("failed to create dish %q: %v", name, err)
		if imageKey != "" {
			if delErr := services.GetImageService().DeleteImage(imageKey); delErr != nil {
				log.Printf("failed to delete orphan image %s: %v", imageKey, delErr)
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create dish",
			},
		})
		return
	}

	decorateDish(&dish)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    dish,
	})
}

// UpdateDish handles PUT /api/v1/admin/dishes/:id - updates a dish; a new
// image replaces the old one after a successful save
func UpdateDish(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid dish id",
			},
		})
		return
	}

	db := config.GetDB()
	var dish models.Dish
	if err := db.First(&dish, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Dish not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load dish",
			},
		})
		return
	}

	name, description, price, ok := parseDishForm(c)
	if !ok {
		return
	}

	// An explicit restaurant_id moves the dish to another restaurant.
	if restIDStr := c.PostForm("restaurant_id"); restIDStr != "" {
		restID, err := strconv.ParseUint(restIDStr, 10, 32)
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
		dish.RestaurantID = uint(restID)
	}

	oldImageKey := dish.ImageKey
	newImageKey, ok := uploadDishImage(c)
	if !ok {
		return
	}
	if newImageKey != "" {
		dish.ImageKey = newImageKey
	}

	dish.Name = name
	dish.Description = description
	dish.Price = price

	if err := db.Save(&dish).Error; err != nil {
		log.Printf("failed to update dish %d: %v", id, err)
		if newImageKey != "" {
			if delErr := services.GetImageService().DeleteImage(newImageKey); delErr != nil {
				log.Printf("failed to delete orphan image %s: %v", newImageKey, delErr)
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update dish",
			},
		})
		return
	}

	if newImageKey != "" && oldImageKey != "" {
		if err := services.GetImageService().DeleteImage(oldImageKey); err != nil {
			log.Printf("failed to delete replaced image %s: %v", oldImageKey, err)
		}
	}

	decorateDish(&dish)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dish,
	})
}

// DeleteDish handles DELETE /api/v1/admin/dishes/:id - removes a dish and
// its image
func DeleteDish(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid dish id",
			},
		})
		return
	}

	db := config.GetDB()
	var dish models.Dish
	if err := db.First(&dish, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Dish not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load dish",
			},
		})
		return
	}

	if err := db.Delete(&dish).Error; err != nil {
		log.Printf("failed to delete dish %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete dish",
			},
		})
		return
	}

	if dish.ImageKey != "" {
		if err := services.GetImageService().DeleteImage(dish.ImageKey); err != nil {
			log.Printf("failed to delete image %s: %v", dish.ImageKey, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"deleted": true,
		},
	})
}
