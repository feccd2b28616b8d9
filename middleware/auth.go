package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wrx61527/PapuGO/config"
	"github.com/wrx61527/PapuGO/utils"
)

// RequireAuth checks the bearer token and stores the caller's identity in the
// Gin context: user_id (uint), username (string), is_admin (bool) and
// session_id (string).
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing or invalid authorization header",
				},
			})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(h, "Bearer ")

		claims, err := utils.ParseToken(tokenStr, config.GetConfig().JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Failed to validate session token",
				},
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("is_admin", claims.IsAdmin)
		c.Set("session_id", claims.SessionID)

		c.Next()
	}
}

// RequireAdmin rejects callers whose token does not carry the admin flag.
// Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Administrator access required",
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// GetUserID extracts the authenticated user's id from the Gin context
func GetUserID(c *gin.Context) (uint, error) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}
	id, ok := v.(uint)
	if !ok {
		return 0, &AuthError{Code: "INVALID_USER_ID", Message: "User ID has an unexpected type"}
	}
	return id, nil
}

// GetSessionID extracts the session id from the Gin context
func GetSessionID(c *gin.Context) (string, error) {
	v, exists := c.Get("session_id")
	if !exists {
		return "", &AuthError{Code: "MISSING_SESSION_ID", Message: "Session ID not found in context"}
	}
	sid, ok := v.(string)
	if !ok || sid == "" {
		return "", &AuthError{Code: "INVALID_SESSION_ID", Message: "Session ID has an unexpected type"}
	}
	return sid, nil
}

// IsAdmin reports whether the caller's token carries the admin flag
func IsAdmin(c *gin.Context) bool {
	v, exists := c.Get("is_admin")
	if !exists {
		return false
	}
	isAdmin, ok := v.(bool)
	return ok && isAdmin
}
