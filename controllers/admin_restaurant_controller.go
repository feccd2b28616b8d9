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

// CreateRestaurant handles POST /api/v1/admin/restaurants - creates a
// restaurant from a multipart form with an optional image
func CreateRestaurant(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Restaurant name is required",
			},
		})
		return
	}

	restaurant := models.Restaurant{
		Name:         name,
		CuisineType:  strings.TrimSpace(c.PostForm("cuisine_type")),
		Street:       strings.TrimSpace(c.PostForm("street")),
		StreetNumber: strings.TrimSpace(c.PostForm("street_number")),
		PostalCode:   strings.TrimSpace(c.PostForm("postal_code")),
		City:         strings.TrimSpace(c.PostForm("city")),
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		imageKey, err := services.GetImageService().UploadImage(fileHeader, services.RestaurantImagePrefix)
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
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UPLOAD_ERROR",
					"message": "Failed to upload restaurant image",
				},
			})
			return
		}
		restaurant.ImageKey = imageKey
	}

	if err := config.GetDB().Create(&restaurant).Error; err != nil {
		log.Printf("failed to create restaurant %q: %v", name, err)
		// Don't leave an orphan image behind when the insert failed.
		if restaurant.ImageKey != "" {
			if delErr := services.GetImageService().DeleteImage(restaurant.ImageKey); delErr != nil {
				log.Printf("failed to delete orphan image %s: %v", restaurant.ImageKey, delErr)
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create restaurant",
			},
		})
		return
	}

	decorateRestaurant(&restaurant)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    restaurant,
	})
}

// UpdateRestaurant handles PUT /api/v1/admin/restaurants/:id - updates a
// restaurant; a new image replaces the old one, which is deleted only after
// the row was saved
func UpdateRestaurant(c *gin.Context) {
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

	db := config.GetDB()
	var restaurant models.Restaurant
	if err := db.First(&restaurant, id).Error; err != nil {
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

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Restaurant name is required",
			},
		})
		return
	}

	oldImageKey := restaurant.ImageKey
	newImageKey := ""
	if fileHeader, err := c.FormFile("image"); err == nil {
		newImageKey, err = services.GetImageService().UploadImage(fileHeader, services.RestaurantImagePrefix)
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
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UPLOAD_ERROR",
					"message": "Failed to upload restaurant image",
				},
			})
			return
		}
		restaurant.ImageKey = newImageKey
	}

	restaurant.Name = name
	restaurant.CuisineType = strings.TrimSpace(c.PostForm("cuisine_type"))
	restaurant.Street = strings.TrimSpace(c.PostForm("street"))
	restaurant.StreetNumber = strings.TrimSpace(c.PostForm("street_number"))
	restaurant.PostalCode = strings.TrimSpace(c.PostForm("postal_code"))
	restaurant.City = strings.TrimSpace(c.PostForm("city"))

	if err := db.Save(&restaurant).Error; err != nil {
		log.Printf("failed to update restaurant %d: %v", id, err)
		if newImageKey != "" {
			if delErr := services.GetImageService().DeleteImage(newImageKey); delErr != nil {
				log.Printf("failed to delete orphan image %s: %v", newImageKey, delErr)
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update restaurant",
			},
		})
		return
	}

	if newImageKey != "" && oldImageKey != "" {
		if err := services.GetImageService().DeleteImage(oldImageKey); err != nil {
			log.Printf("failed to delete replaced image %s: %v", oldImageKey, err)
		}
	}

	decorateRestaurant(&restaurant)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    restaurant,
	})
}

// DeleteRestaurant handles DELETE /api/v1/admin/restaurants/:id - removes the
// restaurant and its dishes in one transaction, then cleans up their images
func DeleteRestaurant(c *gin.Context) {
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

	db := config.GetDB()

	var imageKeys []string
	err = db.Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		if err := tx.First(&restaurant, id).Error; err != nil {
			return err
		}
		if restaurant.ImageKey != "" {
			imageKeys = append(imageKeys, restaurant.ImageKey)
		}

		var dishes []models.Dish
		if err := tx.Where("restaurant_id = ?", id).Find(&dishes).Error; err != nil {
			return err
		}
		for _, d := range dishes {
			if d.ImageKey != "" {
				imageKeys = append(imageKeys, d.ImageKey)
			}
		}

		if err := tx.Where("restaurant_id = ?", id).Delete(&models.Dish{}).Error; err != nil {
			return err
		}
		return tx.Delete(&restaurant).Error
	})
	if err != nil {
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
		log.Printf("failed to delete restaurant %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete restaurant",
			},
		})
		return
	}

	// Best effort; a leftover object in the bucket is harmless.
	for _, key := range imageKeys {
		if err := services.GetImageService().DeleteImage(key); err != nil {
			log.Printf("failed to delete image %s: %v", key, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"deleted": true,
		},
	})
}
