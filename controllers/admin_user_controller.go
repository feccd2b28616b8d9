package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wrx61527/PapuGO/config"
	"github.com/wrx61527/PapuGO/models"
)

// ListUsers handles GET /api/v1/admin/users - all accounts ordered by
// username
func ListUsers(c *gin.Context) {
	var users []models.User
	if err := config.GetDB().Order("username").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load users",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
	})
}
