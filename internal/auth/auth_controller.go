package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/crickside/pitchbook/config"
	"github.com/crickside/pitchbook/internal/user"
	"github.com/crickside/pitchbook/pkg/responses"
	"github.com/crickside/pitchbook/pkg/token"
)

// AuthController handles registration and login.
type AuthController struct {
	repo      AuthRepository
	appConfig *config.Config
}

func NewAuthController(repo AuthRepository, appConfig *config.Config) *AuthController {
	return &AuthController{repo: repo, appConfig: appConfig}
}

// Register creates a user account. Role defaults to viewer; umpires and admins
// register with an explicit role.
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	role := req.Role
	if role == "" {
		role = user.RoleViewer
	}
	if !user.ValidRole(role) {
		responses.ErrorResponse(c, http.StatusBadRequest, "Unknown role: "+role)
		return
	}

	taken, err := ac.repo.UsernameOrEmailTaken(req.Username, req.Email)
	if err != nil {
		log.WithError(err).Error("register: uniqueness check failed")
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to register user")
		return
	}
	if taken {
		responses.ErrorResponse(c, http.StatusConflict, "Username or email is already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("register: password hashing failed")
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	u := user.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		Role:     role,
	}
	if err := ac.repo.CreateUser(&u); err != nil {
		log.WithError(err).Error("register: user insert failed")
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    FilterUserRecord(&u),
	})
}

// Login verifies credentials and issues the access token carrying
// {user_id, role}.
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	u, err := ac.repo.FindByLoginIdentifier(req.LoginIdentifier)
	if err != nil {
		log.WithError(err).Error("login: user lookup failed")
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to log in")
		return
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, err := token.GenerateJWT(
		u.ID, u.Role,
		ac.appConfig.JWT.AccessTokenSecret,
		ac.appConfig.JWT.AccessTokenExpiryMinutes,
	)
	if err != nil {
		log.WithError(err).Error("login: token generation failed")
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	responses.SuccessResponse(c, http.StatusOK, AuthResponse{
		AccessToken: accessToken,
		User:        FilterUserRecord(u),
	})
}
