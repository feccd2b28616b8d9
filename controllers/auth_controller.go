package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wrx61527/PapuGO/config"
	"github.com/wrx61527/PapuGO/models"
	"github.com/wrx61527/PapuGO/utils"
)

// tokenTTL is how long a login token (and with it the session cart identity)
// stays valid.
const tokenTTL = 24 * time.Hour

// CredentialsRequest represents the request body for register and login
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/v1/auth/register - creates a new user account
func Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Username and password are required",
			},
		})
		return
	}

	db := config.GetDB()

	// Check username availability first; the unique index still backs this
	// up under a race.
	var existing models.User
	err := db.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USERNAME_TAKEN",
				"message": "Username is already taken",
			},
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check username",
			},
		})
		return
	}

	user := models.User{
		Username: req.Username,
		Password: req.Password,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("failed to register user %q: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create user",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// Login handles POST /api/v1/auth/login - verifies credentials and issues a
// session token carrying a fresh session id
func Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Username and password are required",
			},
		})
		return
	}

	var user models.User
	err := config.GetDB().Where("username = ?", req.Username).First(&user).Error
	// Opaque string comparison; credential hardening is out of scope here.
	if err != nil || user.Password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Invalid username or password",
			},
		})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.IsAdmin, config.GetConfig().JWTSecret, tokenTTL)
	if err != nil {
		log.Printf("failed to issue token for user %q: %v", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOKEN_ERROR",
				"message": "Failed to issue session token",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token":    token,
			"user":     user,
			"is_admin": user.IsAdmin,
		},
	})
}
