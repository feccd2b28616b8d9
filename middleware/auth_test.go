package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrx61527/PapuGO/config"
	"github.com/wrx61527/PapuGO/utils"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	config.SetConfig(&config.Config{JWTSecret: "test-secret"})

	router := gin.New()
	router.GET("/me", RequireAuth(), func(c *gin.Context) {
		userID, err := GetUserID(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		sessionID, err := GetSessionID(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user_id":    userID,
			"session_id": sessionID,
			"is_admin":   IsAdmin(c),
		})
	})
	router.GET("/admin", RequireAuth(), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestRequireAuth(t *testing.T) {
	router := setupAuthRouter()

	token, err := utils.GenerateToken(42, "alice", false, "test-secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{name: "valid token", authHeader: "Bearer " + token, expectedStatus: http.StatusOK},
		{name: "missing header", authHeader: "", expectedStatus: http.StatusUnauthorized},
		{name: "not a bearer token", authHeader: "Basic abc", expectedStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer garbage", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	router := setupAuthRouter()

	token, err := utils.GenerateToken(42, "alice", false, "other-secret", time.Hour)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	router := setupAuthRouter()

	token, err := utils.GenerateToken(42, "alice", false, "test-secret", -time.Minute)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	router := setupAuthRouter()

	adminToken, err := utils.GenerateToken(1, "root", true, "test-secret", time.Hour)
	require.NoError(t, err)
	userToken, err := utils.GenerateToken(2, "alice", false, "test-secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{name: "admin passes", token: adminToken, expectedStatus: http.StatusOK},
		{name: "plain user is rejected", token: userToken, expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
