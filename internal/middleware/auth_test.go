package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crickside/pitchbook/pkg/token"
)

const testSecret = "test-secret"

func protectedRouter(middleware gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", middleware, func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID, "role": claims.Role})
	})
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	r := protectedRouter(AuthMiddleware(testSecret))
	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	r := protectedRouter(AuthMiddleware(testSecret))
	w := get(r, "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewarePassesClaims(t *testing.T) {
	jwt, err := token.GenerateJWT(7, "umpire", testSecret, 60)
	require.NoError(t, err)

	r := protectedRouter(AuthMiddleware(testSecret))
	w := get(r, "Bearer "+jwt)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
	assert.Contains(t, w.Body.String(), `"role":"umpire"`)
}

func TestOptionalAuthContinuesAnonymous(t *testing.T) {
	r := protectedRouter(OptionalAuth(testSecret))

	// No header at all.
	w := get(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")

	// A broken token degrades to anonymous instead of failing the read.
	w = get(r, "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")
}

func TestOptionalAuthPassesValidClaims(t *testing.T) {
	jwt, err := token.GenerateJWT(9, "admin", testSecret, 60)
	require.NoError(t, err)

	r := protectedRouter(OptionalAuth(testSecret))
	w := get(r, "Bearer "+jwt)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}
