package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/crickside/pitchbook/pkg/token"
)

const (
	// AuthClaimsKey is the gin context key under which verified JWT claims are stored.
	AuthClaimsKey = "auth_claims"
)

// AuthMiddleware rejects requests without a valid bearer token. Used on every
// mutating endpoint.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, jwtSecret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid bearer token"})
			return
		}
		c.Set(AuthClaimsKey, claims)
		c.Next()
	}
}

// OptionalAuth attaches claims when a valid bearer token is present and
// otherwise lets the request through as an unauthenticated viewer. Used on
// read endpoints, which are public.
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, jwtSecret); ok {
			c.Set(AuthClaimsKey, claims)
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context, jwtSecret string) (*token.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	bearerToken := strings.Split(authHeader, " ")
	if len(bearerToken) != 2 || !strings.EqualFold(bearerToken[0], "bearer") {
		return nil, false
	}

	claims, err := token.ValidateJWT(bearerToken[1], jwtSecret)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// ClaimsFromContext returns the verified claims set by AuthMiddleware or
// OptionalAuth, if any.
func ClaimsFromContext(c *gin.Context) (*token.Claims, bool) {
	val, exists := c.Get(AuthClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := val.(*token.Claims)
	return claims, ok
}
