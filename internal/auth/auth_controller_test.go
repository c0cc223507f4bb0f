package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/crickside/pitchbook/config"
	"github.com/crickside/pitchbook/internal/user"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&user.User{}))

	cfg := &config.Config{}
	cfg.JWT.AccessTokenSecret = "test-secret"
	cfg.JWT.AccessTokenExpiryMinutes = 60

	r := gin.New()
	api := r.Group("/api")
	RegisterAuthRoutes(api, db, cfg)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerBody(username string) gin.H {
	return gin.H{
		"name":     "Test User",
		"username": username,
		"email":    username + "@example.com",
		"password": "s3cretpass",
		"role":     "umpire",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	r, db := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", registerBody("asha"))
	assert.Equal(t, http.StatusCreated, w.Code)

	var saved user.User
	require.NoError(t, db.Where("username = ?", "asha").First(&saved).Error)
	assert.Equal(t, user.RoleUmpire, saved.Role)
	assert.NotEqual(t, "s3cretpass", saved.Password) // stored hashed

	// Login by username.
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"login_identifier": "asha",
		"password":         "s3cretpass",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access_token")

	// Login by email.
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"login_identifier": "asha@example.com",
		"password":         "s3cretpass",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterDuplicateRejected(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", registerBody("ravi"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", registerBody("ravi"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterDefaultsToViewer(t *testing.T) {
	r, db := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name":     "Quiet Fan",
		"username": "fan",
		"email":    "fan@example.com",
		"password": "s3cretpass",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var saved user.User
	require.NoError(t, db.Where("username = ?", "fan").First(&saved).Error)
	assert.Equal(t, user.RoleViewer, saved.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", registerBody("mira"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"login_identifier": "mira",
		"password":         "wrongpass99",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"login_identifier": "nobody",
		"password":         "whatever123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
