package controllers

import (
	"net/http"
	"time"

	"code-review-api/middleware"
	"code-review-api/models"
	"code-review-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RegisterRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type AuthController struct {
	auth        *services.AuthService
	users       *services.UserService
	jwtSecret   string
	expireHours int
}

func NewAuthController(auth *services.AuthService, users *services.UserService, jwtSecret string, expireHours int) *AuthController {
	return &AuthController{auth: auth, users: users, jwtSecret: jwtSecret, expireHours: expireHours}
}

// Register creates an account.
func (ctl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctl.auth.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, user, "User registered successfully")
}

// Login handles user authentication
func (ctl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctl.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, expiresAt, err := middleware.IssueToken(ctl.jwtSecret, ctl.expireHours, user)
	if err != nil {
		middleware.LoggerFrom(c).Error("failed to sign token", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    LoginResponse{Token: token, ExpiresAt: expiresAt, User: user},
		"message": "Login successful",
	})
}

// Current returns the authenticated user.
func (ctl *AuthController) Current(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	user, err := ctl.users.Get(c.Request.Context(), id, id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}
