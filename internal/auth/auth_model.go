package auth

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crickside/pitchbook/internal/middleware"
	"github.com/crickside/pitchbook/internal/user"
)

// Context is the verified {subject, role} pair handed to every core operation.
// It is constructed once at the request boundary and never read from ambient
// or global state.
type Context struct {
	UserID uint
	Role   string
}

// Anonymous is the degraded caller used for public reads: no subject, viewer role.
func Anonymous() Context {
	return Context{UserID: 0, Role: user.RoleViewer}
}

// FromGin builds the caller's Context from verified JWT claims, degrading to
// an anonymous viewer when no valid token was presented.
func FromGin(c *gin.Context) Context {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return Anonymous()
	}
	return Context{UserID: claims.UserID, Role: claims.Role}
}

// IsAdmin reports whether the caller holds the admin role.
func (a Context) IsAdmin() bool { return a.Role == user.RoleAdmin }

// CanScore reports whether the caller may mutate scoring data for a match
// owned by ownerID: admins always, umpires only for their own matches.
func (a Context) CanScore(ownerID uint) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == user.RoleUmpire && a.UserID == ownerID
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role,omitempty" binding:"omitempty,oneof=admin umpire viewer"`
}

type LoginRequest struct {
	LoginIdentifier string `json:"login_identifier" binding:"required" example:"john@example.com"` // Can be email or username
	Password        string `json:"password" binding:"required" example:"password123"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func FilterUserRecord(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
