package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/farellandr/fastfriends/config"
	"github.com/farellandr/fastfriends/internal/helpers"
	"github.com/farellandr/fastfriends/internal/services"
)

type RegisterRequest struct {
	Email       string     `json:"email" binding:"required,email"`
	Password    string     `json:"password" binding:"required,min=6"`
	DisplayName string     `json:"display_name" binding:"required"`
	Gender      string     `json:"gender"`
	Birthday    *time.Time `json:"birthday"`
	About       string     `json:"about"`
	Language    string     `json:"language"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	users *services.UserService
	jwt   config.JWTConfig
}

func NewAuthHandler(users *services.UserService, jwt config.JWTConfig) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	user, err := h.users.Register(services.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Gender:      req.Gender,
		Birthday:    req.Birthday,
		About:       req.About,
		Language:    req.Language,
	})
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.Profile.DisplayName,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"exp":     time.Now().Add(h.jwt.Expiration).Unix(),
	})
	tokenString, err := token.SignedString([]byte(h.jwt.Secret))
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// CheckDisplayName is the signup form's availability probe.
func (h *AuthHandler) CheckDisplayName(c *gin.Context) {
	name := c.Query("name")
	available, err := h.users.DisplayNameAvailable(name)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "available": available})
}
