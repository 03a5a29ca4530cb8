package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/fastfriends/internal/helpers"
	"github.com/farellandr/fastfriends/internal/services"
)

type ProfileRequest struct {
	DisplayName string     `json:"display_name"`
	Gender      string     `json:"gender"`
	Birthday    *time.Time `json:"birthday"`
	About       string     `json:"about"`
	PortraitURL string     `json:"portrait_url"`
	Language    string     `json:"language"`
}

type SettingsRequest struct {
	Notifications bool `json:"notifications"`
	FriendMembers bool `json:"friend_members"`
}

type ProfileHandler struct {
	users *services.UserService
}

func NewProfileHandler(users *services.UserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	user, err := h.users.Get(userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	profile, err := h.users.UpdateProfile(userID, services.ProfileInput{
		DisplayName: req.DisplayName,
		Gender:      req.Gender,
		Birthday:    req.Birthday,
		About:       req.About,
		PortraitURL: req.PortraitURL,
		Language:    req.Language,
	})
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Settings(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	settings, err := h.users.Settings(userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *ProfileHandler) UpdateSettings(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	settings, err := h.users.UpdateSettings(userID, req.Notifications, req.FriendMembers)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
